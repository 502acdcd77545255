package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rowan-dale/facesysbackend/models"
)

// SuspectRepository handles database operations for Suspect entities
type SuspectRepository struct {
	DB *gorm.DB
}

var _ SuspectRepositoryInterface = (*SuspectRepository)(nil)

// NewSuspectRepository creates a new instance of SuspectRepository
func NewSuspectRepository(db *gorm.DB) *SuspectRepository {
	return &SuspectRepository{DB: db}
}

// Create inserts a new suspect probe record
func (r *SuspectRepository) Create(suspect *models.Suspect) error {
	if suspect.CreatedAt == 0 {
		suspect.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(suspect).Error; err != nil {
		return fmt.Errorf("failed to create suspect record for %s: %w", suspect.ImagePath, err)
	}
	return nil
}

// GetByID retrieves a suspect with its match audit rows
func (r *SuspectRepository) GetByID(id uint) (*models.Suspect, error) {
	var suspect models.Suspect
	err := r.DB.Preload("Matches").First(&suspect, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get suspect by ID %d: %w", id, err)
	}
	return &suspect, nil
}

// ListAll retrieves every suspect, newest first
func (r *SuspectRepository) ListAll() ([]models.Suspect, error) {
	var suspects []models.Suspect
	err := r.DB.Order("created_at DESC").Find(&suspects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list suspects: %w", err)
	}
	return suspects, nil
}
