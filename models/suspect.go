package models

// Suspect represents an uploaded probe image kept for the audit trail, using
// GORM. It corresponds to the 'suspects' table. The encoding may be empty
// when extraction failed on the probe.
type Suspect struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImagePath    string  `gorm:"not null" json:"image_path"`
	EncodingData []byte  `gorm:"column:encoding_data" json:"-"`
	UploadedBy   *string `json:"uploaded_by,omitempty"`
	CreatedAt    int64   `gorm:"not null" json:"created_at"`

	Matches []MatchRecord `gorm:"foreignKey:SuspectID;constraint:OnDelete:CASCADE" json:"matches,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Suspect) TableName() string {
	return "suspects"
}

// GetEncoding converts the BLOB data to []float32
func (s *Suspect) GetEncoding() []float32 {
	return DecodeEncoding(s.EncodingData)
}

// SetEncoding converts []float32 to BLOB data
func (s *Suspect) SetEncoding(encoding []float32) {
	s.EncodingData = EncodeEncoding(encoding)
}
