package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/models"
)

// MugshotRepository handles database operations for Mugshot entities and
// serves as the EncodingStore for gallery searches.
type MugshotRepository struct {
	DB *gorm.DB
}

var _ MugshotRepositoryInterface = (*MugshotRepository)(nil)

// NewMugshotRepository creates a new instance of MugshotRepository
func NewMugshotRepository(db *gorm.DB) *MugshotRepository {
	return &MugshotRepository{DB: db}
}

// Create inserts a new mugshot record with its encoding BLOB
func (r *MugshotRepository) Create(mugshot *models.Mugshot) error {
	now := time.Now().Unix()
	if mugshot.CreatedAt == 0 {
		mugshot.CreatedAt = now
	}
	mugshot.UpdatedAt = now

	if err := r.DB.Create(mugshot).Error; err != nil {
		return fmt.Errorf("failed to create mugshot for criminal ID %d: %w", mugshot.CriminalID, err)
	}
	return nil
}

// GetByID retrieves a mugshot by its ID
func (r *MugshotRepository) GetByID(id uint) (*models.Mugshot, error) {
	var mugshot models.Mugshot
	err := r.DB.Preload("Criminal").First(&mugshot, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get mugshot by ID %d: %w", id, err)
	}
	return &mugshot, nil
}

// ListByCriminalID retrieves all mugshots for one criminal record
func (r *MugshotRepository) ListByCriminalID(criminalID uint) ([]models.Mugshot, error) {
	var mugshots []models.Mugshot
	err := r.DB.Where("criminal_id = ?", criminalID).Order("created_at DESC").Find(&mugshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mugshots for criminal ID %d: %w", criminalID, err)
	}
	return mugshots, nil
}

// AllEncodings returns the full gallery: every stored mugshot encoding joined
// with its criminal identity. Rows with an empty BLOB are skipped so the
// searcher never sees a nil encoding from this path.
func (r *MugshotRepository) AllEncodings() ([]media.KnownEncoding, error) {
	var mugshots []models.Mugshot
	err := r.DB.Preload("Criminal").Find(&mugshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery encodings: %w", err)
	}

	gallery := make([]media.KnownEncoding, 0, len(mugshots))
	for i := range mugshots {
		m := &mugshots[i]
		encoding := m.GetEncoding()
		if encoding == nil || m.Criminal == nil {
			continue
		}
		gallery = append(gallery, media.KnownEncoding{
			MugshotID:    m.ID,
			CriminalID:   m.CriminalID,
			CriminalCode: m.Criminal.CriminalCode,
			Name:         m.Criminal.Name,
			Encoding:     encoding,
		})
	}
	return gallery, nil
}

// EncodingFor returns the stored encoding of one mugshot, or nil when the
// mugshot has no encoding BLOB.
func (r *MugshotRepository) EncodingFor(mugshotID uint) ([]float32, error) {
	mugshot, err := r.GetByID(mugshotID)
	if err != nil {
		return nil, err
	}
	return mugshot.GetEncoding(), nil
}

// Delete removes a mugshot (and with it, its gallery entry)
func (r *MugshotRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Mugshot{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete mugshot ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
