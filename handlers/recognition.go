package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/services"
	"github.com/rowan-dale/facesysbackend/utils"
)

type RecognitionHandler struct {
	Service    *services.RecognitionService
	SuspectDir string
}

type recognitionResponse struct {
	SuspectID *uint               `json:"suspect_id,omitempty"`
	ImagePath string              `json:"image_path"`
	FaceFound bool                `json:"face_found"`
	Best      media.MatchResult   `json:"best"`
	Matches   []media.MatchResult `json:"matches"`
}

// Recognize runs one probe image against the gallery. With save=true the
// probe is persisted as a suspect along with an audit row per qualifying
// match.
func (rh *RecognitionHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required file field: image"})
		return
	}
	defer file.Close()

	tempPath, err := saveToTemp(file, header.Filename)
	if err != nil {
		log.Printf("Error staging probe image: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store uploaded file"})
		return
	}
	defer os.Remove(tempPath)

	storedPath, err := utils.StoreImage(tempPath, rh.SuspectDir)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid image: " + err.Error()})
		return
	}

	result, err := rh.Service.RecognizeFile(tempPath)
	if err != nil {
		if removeErr := os.Remove(storedPath); removeErr != nil {
			log.Printf("Error removing stored probe %s: %v", storedPath, removeErr)
		}
		log.Printf("Error recognizing probe image: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result.ImagePath = storedPath

	resp := recognitionResponse{
		ImagePath: storedPath,
		FaceFound: result.FaceFound,
		Best:      result.Best,
		Matches:   result.Matches,
	}

	if strings.EqualFold(r.FormValue("save"), "true") {
		suspect, err := rh.Service.SaveSuspectWithMatches(result,
			optionalFormValue(r, "name"),
			optionalFormValue(r, "description"),
			optionalFormValue(r, "uploaded_by"))
		if err != nil {
			log.Printf("Error saving suspect record: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save suspect record"})
			return
		}
		resp.SuspectID = &suspect.ID
	} else if err := os.Remove(storedPath); err != nil {
		log.Printf("Error removing unsaved probe %s: %v", storedPath, err)
	}

	writeJSON(w, http.StatusOK, resp)
}

func optionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}
