package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/models"
	"github.com/rowan-dale/facesysbackend/repository"
)

// Encoder extracts a face encoding from an image file. Satisfied by
// media.FaceEncoder; injected so the service can be exercised without a
// loaded cascade.
type Encoder interface {
	EncodeFile(path string) ([]float32, error)
}

// RecognitionService runs the probe workflow: validate the file, extract an
// encoding, search the gallery, and optionally persist the suspect with its
// match audit rows.
type RecognitionService struct {
	mugshotRepo      repository.MugshotRepositoryInterface
	suspectRepo      repository.SuspectRepositoryInterface
	matchRepo        repository.MatchRepositoryInterface
	encoder          Encoder
	thresholdPercent float32
	limits           media.ImageLimits
}

// NewRecognitionService creates a new recognition service
func NewRecognitionService(
	mugshotRepo repository.MugshotRepositoryInterface,
	suspectRepo repository.SuspectRepositoryInterface,
	matchRepo repository.MatchRepositoryInterface,
	encoder Encoder,
	thresholdPercent float32,
	limits media.ImageLimits,
) *RecognitionService {
	return &RecognitionService{
		mugshotRepo:      mugshotRepo,
		suspectRepo:      suspectRepo,
		matchRepo:        matchRepo,
		encoder:          encoder,
		thresholdPercent: thresholdPercent,
		limits:           limits,
	}
}

// ProbeResult is the outcome of recognizing one probe image. FaceFound
// distinguishes "didn't search" from "searched and found nothing": when it is
// false the gallery was never consulted.
type ProbeResult struct {
	ImagePath string              `json:"image_path"`
	FaceFound bool                `json:"face_found"`
	Best      media.MatchResult   `json:"best"`
	Matches   []media.MatchResult `json:"matches"`

	encoding []float32
}

// Encoding returns the probe encoding, or nil when no face was found.
func (p *ProbeResult) Encoding() []float32 {
	return p.encoding
}

// GallerySnapshot fetches the current gallery once. Batch runs hold the
// snapshot for their whole duration; mid-run mugshot writes are not reflected.
func (s *RecognitionService) GallerySnapshot() ([]media.KnownEncoding, error) {
	return s.mugshotRepo.AllEncodings()
}

// RecognizeFile validates, encodes and searches one probe against the
// current gallery.
func (s *RecognitionService) RecognizeFile(path string) (*ProbeResult, error) {
	gallery, err := s.GallerySnapshot()
	if err != nil {
		return nil, err
	}
	return s.RecognizeFileAgainst(path, gallery)
}

// RecognizeFileAgainst runs the probe workflow against a caller-held gallery
// snapshot. A probe with no detectable face is a structured no-match result,
// not an error; file-level failures (missing, corrupt, oversized) propagate.
func (s *RecognitionService) RecognizeFileAgainst(path string, gallery []media.KnownEncoding) (*ProbeResult, error) {
	if err := media.ValidateImageFile(path, s.limits); err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}

	encoding, err := s.encoder.EncodeFile(path)
	if err != nil {
		if errors.Is(err, media.ErrNoFaceDetected) {
			return &ProbeResult{
				ImagePath: path,
				FaceFound: false,
				Best:      media.NoMatch(),
				Matches:   []media.MatchResult{},
			}, nil
		}
		return nil, err
	}

	return &ProbeResult{
		ImagePath: path,
		FaceFound: true,
		Best:      media.SearchGallery(encoding, gallery, s.thresholdPercent),
		Matches:   media.SearchGalleryAll(encoding, gallery, s.thresholdPercent),
		encoding:  encoding,
	}, nil
}

// SaveSuspectWithMatches persists the probe as a suspect record plus one
// immutable audit row per qualifying match, capturing the similarity scores
// at match time.
func (s *RecognitionService) SaveSuspectWithMatches(result *ProbeResult, name, description, uploadedBy *string) (*models.Suspect, error) {
	suspect := &models.Suspect{
		Name:        name,
		Description: description,
		ImagePath:   result.ImagePath,
		UploadedBy:  uploadedBy,
	}
	suspect.SetEncoding(result.encoding)

	if err := s.suspectRepo.Create(suspect); err != nil {
		return nil, err
	}

	for _, match := range result.Matches {
		if match.CriminalID == nil {
			continue
		}
		record := &models.MatchRecord{
			SuspectID:       suspect.ID,
			CriminalID:      *match.CriminalID,
			SimilarityScore: match.Similarity,
			MatchedBy:       uploadedBy,
		}
		if err := s.matchRepo.Create(record); err != nil {
			log.Printf("recognition: failed to save match audit row for suspect %d: %v", suspect.ID, err)
		}
	}
	return suspect, nil
}

// ThresholdPercent returns the similarity percentage a gallery entry must
// reach to qualify.
func (s *RecognitionService) ThresholdPercent() float32 {
	return s.thresholdPercent
}
