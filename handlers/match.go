package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/rowan-dale/facesysbackend/models"
	"github.com/rowan-dale/facesysbackend/repository"
)

type MatchHandler struct {
	Matches  repository.MatchRepositoryInterface
	Suspects repository.SuspectRepositoryInterface
}

// SearchMatches runs a filtered report over the match audit trail. All query
// parameters are optional: criminal_id, suspect_id, min_score, since, until
// (Unix seconds) and limit.
func (mh *MatchHandler) SearchMatches(w http.ResponseWriter, r *http.Request) {
	var filter repository.MatchFilter
	q := r.URL.Query()

	if v := q.Get("criminal_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid criminal_id"})
			return
		}
		u := uint(id)
		filter.CriminalID = &u
	}
	if v := q.Get("suspect_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid suspect_id"})
			return
		}
		u := uint(id)
		filter.SuspectID = &u
	}
	if v := q.Get("min_score"); v != "" {
		score, err := strconv.ParseFloat(v, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid min_score"})
			return
		}
		f := float32(score)
		filter.MinScore = &f
	}
	if v := q.Get("since"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid since timestamp"})
			return
		}
		filter.Since = &ts
	}
	if v := q.Get("until"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid until timestamp"})
			return
		}
		filter.Until = &ts
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	rows, err := mh.Matches.Search(filter)
	if err != nil {
		log.Printf("Error searching matches: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to search matches"})
		return
	}
	if rows == nil {
		rows = []repository.MatchReportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (mh *MatchHandler) ListSuspects(w http.ResponseWriter, r *http.Request) {
	suspects, err := mh.Suspects.ListAll()
	if err != nil {
		log.Printf("Error listing suspects: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve suspects"})
		return
	}
	if suspects == nil {
		suspects = []models.Suspect{}
	}
	writeJSON(w, http.StatusOK, suspects)
}

func (mh *MatchHandler) GetSuspect(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUintParam(w, r, "suspect_id")
	if !ok {
		return
	}

	suspect, err := mh.Suspects.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Suspect not found"})
		} else {
			log.Printf("Error getting suspect %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve suspect"})
		}
		return
	}

	matches, err := mh.Matches.ListBySuspectID(id)
	if err != nil {
		log.Printf("Error listing matches for suspect %d: %v", id, err)
	} else {
		suspect.Matches = matches
	}

	writeJSON(w, http.StatusOK, suspect)
}
