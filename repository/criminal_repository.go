package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rowan-dale/facesysbackend/models"
)

// CriminalRepository handles database operations for Criminal entities
type CriminalRepository struct {
	DB *gorm.DB
}

var _ CriminalRepositoryInterface = (*CriminalRepository)(nil)

// NewCriminalRepository creates a new instance of CriminalRepository
func NewCriminalRepository(db *gorm.DB) *CriminalRepository {
	return &CriminalRepository{DB: db}
}

// Create inserts a new criminal record
func (r *CriminalRepository) Create(criminal *models.Criminal) error {
	now := time.Now().Unix()
	if criminal.CreatedAt == 0 {
		criminal.CreatedAt = now
	}
	criminal.UpdatedAt = now
	if criminal.Status == "" {
		criminal.Status = models.StatusActive
	}

	if err := r.DB.Create(criminal).Error; err != nil {
		return fmt.Errorf("failed to create criminal record %q: %w", criminal.CriminalCode, err)
	}
	return nil
}

// GetByID retrieves a criminal record by its ID
func (r *CriminalRepository) GetByID(id uint) (*models.Criminal, error) {
	var criminal models.Criminal
	err := r.DB.Preload("Mugshots").First(&criminal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get criminal by ID %d: %w", id, err)
	}
	return &criminal, nil
}

// GetByCode retrieves a criminal record by its human-readable code
func (r *CriminalRepository) GetByCode(code string) (*models.Criminal, error) {
	var criminal models.Criminal
	err := r.DB.Where("criminal_code = ?", code).Preload("Mugshots").First(&criminal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get criminal by code %q: %w", code, err)
	}
	return &criminal, nil
}

// ListAll retrieves every criminal record, newest first
func (r *CriminalRepository) ListAll() ([]models.Criminal, error) {
	var criminals []models.Criminal
	err := r.DB.Order("created_at DESC").Find(&criminals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list criminals: %w", err)
	}
	return criminals, nil
}

// Update persists changes to an existing criminal record
func (r *CriminalRepository) Update(criminal *models.Criminal) error {
	criminal.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Criminal{ID: criminal.ID}).Updates(models.Criminal{
		Name:                criminal.Name,
		Age:                 criminal.Age,
		Height:              criminal.Height,
		PhysicalDescription: criminal.PhysicalDescription,
		Charges:             criminal.Charges,
		Status:              criminal.Status,
		CaseNumber:          criminal.CaseNumber,
		Jurisdiction:        criminal.Jurisdiction,
		Notes:               criminal.Notes,
		UpdatedAt:           criminal.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update criminal ID %d: %w", criminal.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a criminal record. Mugshots cascade with it, which drops
// their encodings from the search gallery.
func (r *CriminalRepository) Delete(id uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("criminal_id = ?", id).Delete(&models.Mugshot{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Criminal{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete criminal ID %d: %w", id, err)
	}
	return nil
}
