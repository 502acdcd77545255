package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/rowan-dale/facesysbackend/models"
	"github.com/rowan-dale/facesysbackend/repository"
)

type CriminalHandler struct {
	Repo repository.CriminalRepositoryInterface
}

type criminalRequest struct {
	CriminalCode        string  `json:"criminal_code"`
	Name                string  `json:"name"`
	Age                 *int    `json:"age"`
	Height              *string `json:"height"`
	PhysicalDescription *string `json:"physical_description"`
	Charges             string  `json:"charges"`
	Status              string  `json:"status"`
	CaseNumber          *string `json:"case_number"`
	Jurisdiction        *string `json:"jurisdiction"`
	Notes               *string `json:"notes"`
}

func validStatus(status string) bool {
	switch status {
	case "", models.StatusActive, models.StatusInactive, models.StatusArchived:
		return true
	}
	return false
}

func (ch *CriminalHandler) CreateCriminal(w http.ResponseWriter, r *http.Request) {
	var req criminalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if strings.TrimSpace(req.CriminalCode) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: criminal_code"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}
	if !validStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid status: " + req.Status})
		return
	}

	criminal := &models.Criminal{
		CriminalCode:        strings.TrimSpace(req.CriminalCode),
		Name:                strings.TrimSpace(req.Name),
		Age:                 req.Age,
		Height:              req.Height,
		PhysicalDescription: req.PhysicalDescription,
		Charges:             req.Charges,
		Status:              req.Status,
		CaseNumber:          req.CaseNumber,
		Jurisdiction:        req.Jurisdiction,
		Notes:               req.Notes,
	}

	if err := ch.Repo.Create(criminal); err != nil {
		log.Printf("Error creating criminal '%s': %v", criminal.CriminalCode, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create criminal record"})
		return
	}

	writeJSON(w, http.StatusCreated, criminal)
}

func (ch *CriminalHandler) ListCriminals(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("code"); code != "" {
		criminal, err := ch.Repo.GetByCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "Criminal not found"})
			} else {
				log.Printf("Error getting criminal by code %q: %v", code, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve criminal"})
			}
			return
		}
		writeJSON(w, http.StatusOK, []models.Criminal{*criminal})
		return
	}

	criminals, err := ch.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing criminals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve criminals"})
		return
	}
	if criminals == nil {
		criminals = []models.Criminal{}
	}
	writeJSON(w, http.StatusOK, criminals)
}

func (ch *CriminalHandler) GetCriminal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUintParam(w, r, "criminal_id")
	if !ok {
		return
	}

	criminal, err := ch.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Criminal not found"})
		} else {
			log.Printf("Error getting criminal %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve criminal"})
		}
		return
	}

	writeJSON(w, http.StatusOK, criminal)
}

func (ch *CriminalHandler) UpdateCriminal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUintParam(w, r, "criminal_id")
	if !ok {
		return
	}

	var req criminalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid status: " + req.Status})
		return
	}

	criminal := &models.Criminal{
		ID:                  id,
		Name:                strings.TrimSpace(req.Name),
		Age:                 req.Age,
		Height:              req.Height,
		PhysicalDescription: req.PhysicalDescription,
		Charges:             req.Charges,
		Status:              req.Status,
		CaseNumber:          req.CaseNumber,
		Jurisdiction:        req.Jurisdiction,
		Notes:               req.Notes,
	}

	if err := ch.Repo.Update(criminal); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Criminal not found"})
		} else {
			log.Printf("Error updating criminal %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update criminal record"})
		}
		return
	}

	updated, err := ch.Repo.GetByID(id)
	if err != nil {
		log.Printf("Error fetching updated criminal %d: %v", id, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Criminal updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (ch *CriminalHandler) DeleteCriminal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUintParam(w, r, "criminal_id")
	if !ok {
		return
	}

	if err := ch.Repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Criminal not found"})
		} else {
			log.Printf("Error deleting criminal %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete criminal record"})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseUintParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
