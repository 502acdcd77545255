package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/models"
	"github.com/rowan-dale/facesysbackend/repository"
	"github.com/rowan-dale/facesysbackend/utils"
)

// MugshotEncoder is the slice of the face encoder the ingest path needs.
type MugshotEncoder interface {
	EncodeFile(path string) ([]float32, error)
	QualityScoreFile(path string) int
}

type MugshotHandler struct {
	Criminals  repository.CriminalRepositoryInterface
	Mugshots   repository.MugshotRepositoryInterface
	Encoder    MugshotEncoder
	Limits     media.ImageLimits
	StorageDir string
}

// UploadMugshot ingests one mugshot for a criminal record: the image is
// validated, encoded, quality-scored, normalized into storage, and written as
// a gallery row. An image with no detectable face is rejected so the gallery
// only ever holds searchable encodings.
func (mh *MugshotHandler) UploadMugshot(w http.ResponseWriter, r *http.Request) {
	criminalID, ok := parseUintParam(w, r, "criminal_id")
	if !ok {
		return
	}

	if _, err := mh.Criminals.GetByID(criminalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Criminal not found"})
		} else {
			log.Printf("Error verifying criminal %d: %v", criminalID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify criminal"})
		}
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, mh.Limits.MaxBytes+1024*1024)
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
		log.Printf("Error staging uploaded mugshot: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store uploaded file"})
		return
	}
	defer os.Remove(tempPath)

	if err := media.ValidateImageFile(tempPath, mh.Limits); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid image: " + err.Error()})
		return
	}

	encoding, err := mh.Encoder.EncodeFile(tempPath)
	if err != nil {
		if errors.Is(err, media.ErrNoFaceDetected) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "No face detected in uploaded image"})
			return
		}
		log.Printf("Error encoding mugshot for criminal %d: %v", criminalID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process image"})
		return
	}

	quality := mh.Encoder.QualityScoreFile(tempPath)
	capture := utils.ReadCaptureInfo(tempPath)

	storedPath, err := utils.StoreImage(tempPath, mh.StorageDir)
	if err != nil {
		log.Printf("Error storing mugshot for criminal %d: %v", criminalID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store image"})
		return
	}

	mugshot := &models.Mugshot{
		CriminalID:   criminalID,
		ImagePath:    storedPath,
		QualityScore: &quality,
		CapturedAt:   capture.TakenAt,
	}
	if capturedBy := strings.TrimSpace(r.FormValue("captured_by")); capturedBy != "" {
		mugshot.CapturedBy = &capturedBy
	}
	mugshot.SetEncoding(encoding)

	if err := mh.Mugshots.Create(mugshot); err != nil {
		log.Printf("Error saving mugshot record for criminal %d: %v", criminalID, err)
		if removeErr := os.Remove(storedPath); removeErr != nil {
			log.Printf("Error removing orphaned mugshot file %s: %v", storedPath, removeErr)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save mugshot record"})
		return
	}

	writeJSON(w, http.StatusCreated, mugshot)
}

func (mh *MugshotHandler) ListMugshots(w http.ResponseWriter, r *http.Request) {
	criminalID, ok := parseUintParam(w, r, "criminal_id")
	if !ok {
		return
	}

	mugshots, err := mh.Mugshots.ListByCriminalID(criminalID)
	if err != nil {
		log.Printf("Error listing mugshots for criminal %d: %v", criminalID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve mugshots"})
		return
	}
	if mugshots == nil {
		mugshots = []models.Mugshot{}
	}
	writeJSON(w, http.StatusOK, mugshots)
}

func (mh *MugshotHandler) DeleteMugshot(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUintParam(w, r, "mugshot_id")
	if !ok {
		return
	}

	mugshot, err := mh.Mugshots.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Mugshot not found"})
		} else {
			log.Printf("Error getting mugshot %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve mugshot"})
		}
		return
	}

	if err := mh.Mugshots.Delete(id); err != nil {
		log.Printf("Error deleting mugshot %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete mugshot"})
		return
	}

	if err := os.Remove(mugshot.ImagePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing mugshot file %s: %v", mugshot.ImagePath, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// saveToTemp stages a multipart upload on disk, keeping the original
// extension so validation can check it.
func saveToTemp(file multipart.File, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return tmp.Name(), nil
}
