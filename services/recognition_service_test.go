package services

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/models"
	"github.com/rowan-dale/facesysbackend/repository"
)

type fakeEncoder struct {
	encoding []float32
	err      error
}

func (f *fakeEncoder) EncodeFile(path string) ([]float32, error) {
	return f.encoding, f.err
}

type fakeMugshotRepo struct {
	gallery []media.KnownEncoding
	err     error
}

func (f *fakeMugshotRepo) Create(*models.Mugshot) error                    { return nil }
func (f *fakeMugshotRepo) GetByID(uint) (*models.Mugshot, error)           { return nil, nil }
func (f *fakeMugshotRepo) ListByCriminalID(uint) ([]models.Mugshot, error) { return nil, nil }
func (f *fakeMugshotRepo) EncodingFor(uint) ([]float32, error)             { return nil, nil }
func (f *fakeMugshotRepo) Delete(uint) error                               { return nil }
func (f *fakeMugshotRepo) AllEncodings() ([]media.KnownEncoding, error) {
	return f.gallery, f.err
}

type fakeSuspectRepo struct {
	created []*models.Suspect
}

func (f *fakeSuspectRepo) Create(s *models.Suspect) error {
	s.ID = uint(len(f.created) + 1)
	f.created = append(f.created, s)
	return nil
}
func (f *fakeSuspectRepo) GetByID(uint) (*models.Suspect, error) { return nil, nil }
func (f *fakeSuspectRepo) ListAll() ([]models.Suspect, error)    { return nil, nil }

type fakeMatchRepo struct {
	created []*models.MatchRecord
}

func (f *fakeMatchRepo) Create(m *models.MatchRecord) error {
	f.created = append(f.created, m)
	return nil
}
func (f *fakeMatchRepo) ListBySuspectID(uint) ([]models.MatchRecord, error) { return nil, nil }
func (f *fakeMatchRepo) Search(repository.MatchFilter) ([]repository.MatchReportRow, error) {
	return nil, nil
}

// probeFile writes a small valid PNG so validation passes.
func probeFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probe.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatal(err)
	}
	return path
}

// testGallery gives exact scores against the zero probe: entries score
// (1 - v/2) * 100 for a length-4 encoding.
func testGallery() []media.KnownEncoding {
	return []media.KnownEncoding{
		{MugshotID: 1, CriminalID: 1, CriminalCode: "CR-1", Name: "fifty", Encoding: []float32{1.0, 0, 0, 0}},
		{MugshotID: 2, CriminalID: 2, CriminalCode: "CR-2", Name: "ninety", Encoding: []float32{0.2, 0, 0, 0}},
		{MugshotID: 3, CriminalID: 3, CriminalCode: "CR-3", Name: "sixty", Encoding: []float32{0.8, 0, 0, 0}},
	}
}

func newTestService(encoder Encoder, mugshots *fakeMugshotRepo) (*RecognitionService, *fakeSuspectRepo, *fakeMatchRepo) {
	suspects := &fakeSuspectRepo{}
	matches := &fakeMatchRepo{}
	svc := NewRecognitionService(mugshots, suspects, matches, encoder, 60.0, media.ImageLimits{})
	return svc, suspects, matches
}

func TestRecognizeFile(t *testing.T) {
	path := probeFile(t)

	t.Run("match found", func(t *testing.T) {
		encoder := &fakeEncoder{encoding: []float32{0, 0, 0, 0}}
		svc, _, _ := newTestService(encoder, &fakeMugshotRepo{gallery: testGallery()})

		result, err := svc.RecognizeFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.FaceFound {
			t.Fatal("expected a face to be found")
		}
		if !result.Best.Matched || result.Best.Name != "ninety" {
			t.Errorf("best = %+v, want ninety", result.Best)
		}
		if len(result.Matches) != 2 {
			t.Errorf("expected 2 qualifying matches, got %d", len(result.Matches))
		}
		if result.Encoding() == nil {
			t.Error("encoding should be retained on the result")
		}
	})

	t.Run("no face is a structured result", func(t *testing.T) {
		encoder := &fakeEncoder{err: media.ErrNoFaceDetected}
		svc, _, _ := newTestService(encoder, &fakeMugshotRepo{gallery: testGallery()})

		result, err := svc.RecognizeFile(path)
		if err != nil {
			t.Fatalf("no face must not be an error, got %v", err)
		}
		if result.FaceFound {
			t.Error("FaceFound should be false")
		}
		if result.Best.Matched || result.Best.Name != "Unknown" {
			t.Errorf("best = %+v, want the no-match result", result.Best)
		}
		if result.Matches == nil || len(result.Matches) != 0 {
			t.Errorf("matches should be empty, got %v", result.Matches)
		}
	})

	t.Run("encoder failure propagates", func(t *testing.T) {
		wantErr := errors.New("decode blew up")
		encoder := &fakeEncoder{err: wantErr}
		svc, _, _ := newTestService(encoder, &fakeMugshotRepo{gallery: testGallery()})

		_, err := svc.RecognizeFile(path)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected the encoder error, got %v", err)
		}
	})

	t.Run("invalid file rejected before encoding", func(t *testing.T) {
		encoder := &fakeEncoder{encoding: []float32{0, 0, 0, 0}}
		svc, _, _ := newTestService(encoder, &fakeMugshotRepo{gallery: testGallery()})

		_, err := svc.RecognizeFile(filepath.Join(t.TempDir(), "missing.png"))
		if err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("gallery fetch failure propagates", func(t *testing.T) {
		encoder := &fakeEncoder{encoding: []float32{0, 0, 0, 0}}
		svc, _, _ := newTestService(encoder, &fakeMugshotRepo{err: errors.New("db down")})

		_, err := svc.RecognizeFile(path)
		if err == nil {
			t.Error("expected the gallery error to propagate")
		}
	})
}

func TestSaveSuspectWithMatches(t *testing.T) {
	path := probeFile(t)
	encoder := &fakeEncoder{encoding: []float32{0, 0, 0, 0}}
	svc, suspects, matches := newTestService(encoder, &fakeMugshotRepo{gallery: testGallery()})

	result, err := svc.RecognizeFile(path)
	if err != nil {
		t.Fatal(err)
	}

	name := "unknown male"
	uploadedBy := "officer-12"
	suspect, err := svc.SaveSuspectWithMatches(result, &name, nil, &uploadedBy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suspects.created) != 1 {
		t.Fatalf("expected 1 suspect row, got %d", len(suspects.created))
	}
	if suspect.GetEncoding() == nil {
		t.Error("suspect should carry the probe encoding")
	}

	if len(matches.created) != 2 {
		t.Fatalf("expected 2 match audit rows, got %d", len(matches.created))
	}
	for _, record := range matches.created {
		if record.SuspectID != suspect.ID {
			t.Errorf("audit row points at suspect %d, want %d", record.SuspectID, suspect.ID)
		}
		if record.SimilarityScore < 60 {
			t.Errorf("audit row kept a below-threshold score: %v", record.SimilarityScore)
		}
		if record.MatchedBy == nil || *record.MatchedBy != uploadedBy {
			t.Errorf("audit row lost the operator attribution")
		}
	}
}
