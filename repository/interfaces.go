package repository

import (
	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/models"
)

// CriminalRepositoryInterface defines the methods for criminal record operations
type CriminalRepositoryInterface interface {
	Create(criminal *models.Criminal) error
	GetByID(id uint) (*models.Criminal, error)
	GetByCode(code string) (*models.Criminal, error)
	ListAll() ([]models.Criminal, error)
	Update(criminal *models.Criminal) error
	Delete(id uint) error
}

// MugshotRepositoryInterface defines the methods for mugshot and gallery
// encoding operations. AllEncodings and EncodingFor are the EncodingStore
// boundary consumed by the recognition core.
type MugshotRepositoryInterface interface {
	Create(mugshot *models.Mugshot) error
	GetByID(id uint) (*models.Mugshot, error)
	ListByCriminalID(criminalID uint) ([]models.Mugshot, error)
	AllEncodings() ([]media.KnownEncoding, error)
	EncodingFor(mugshotID uint) ([]float32, error)
	Delete(id uint) error
}

// SuspectRepositoryInterface defines the methods for suspect probe persistence
type SuspectRepositoryInterface interface {
	Create(suspect *models.Suspect) error
	GetByID(id uint) (*models.Suspect, error)
	ListAll() ([]models.Suspect, error)
}

// MatchRepositoryInterface defines the methods for match audit rows
type MatchRepositoryInterface interface {
	Create(match *models.MatchRecord) error
	ListBySuspectID(suspectID uint) ([]models.MatchRecord, error)
	Search(filter MatchFilter) ([]MatchReportRow, error)
}
