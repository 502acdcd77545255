package models

import "gorm.io/gorm"

// Criminal represents one criminal record using GORM.
// It corresponds to the 'criminals' table.
type Criminal struct {
	ID                  uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CriminalCode        string         `gorm:"uniqueIndex;not null" json:"criminal_code"` // human-readable case code
	Name                string         `gorm:"not null" json:"name"`
	Age                 *int           `json:"age,omitempty"`
	Height              *string        `json:"height,omitempty"`
	PhysicalDescription *string        `json:"physical_description,omitempty"`
	Charges             string         `gorm:"not null" json:"charges"`
	Status              string         `gorm:"not null;default:'active'" json:"status"`
	CaseNumber          *string        `json:"case_number,omitempty"`
	Jurisdiction        *string        `json:"jurisdiction,omitempty"`
	Notes               *string        `json:"notes,omitempty"`
	CreatedAt           int64          `gorm:"not null" json:"created_at"` // Unix timestamp, stored as INTEGER in SQLite
	UpdatedAt           int64          `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Mugshots []Mugshot `gorm:"foreignKey:CriminalID;constraint:OnDelete:CASCADE" json:"mugshots,omitempty"`
}

// Criminal status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// TableName explicitly sets the table name for GORM.
func (Criminal) TableName() string {
	return "criminals"
}
