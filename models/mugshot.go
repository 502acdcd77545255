package models

import (
	"math"

	"gorm.io/gorm"
)

// Mugshot represents one captured mugshot with its face encoding, using GORM.
// It corresponds to the 'mugshots' table. The encoding BLOB is the gallery
// entry searched during recognition; deleting the owning criminal cascades
// here, which removes the entry from the gallery.
type Mugshot struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CriminalID   uint           `gorm:"not null;index" json:"criminal_id"`
	ImagePath    string         `gorm:"not null" json:"image_path"`
	EncodingData []byte         `gorm:"not null;column:encoding_data" json:"-"` // 128-element face encoding as BLOB
	QualityScore *int           `gorm:"column:quality_score" json:"quality_score,omitempty"`
	CapturedBy   *string        `json:"captured_by,omitempty"`
	CapturedAt   *int64         `json:"captured_at,omitempty"` // EXIF capture time when available
	CreatedAt    int64          `gorm:"not null" json:"created_at"`
	UpdatedAt    int64          `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Criminal *Criminal `gorm:"foreignKey:CriminalID" json:"criminal,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Mugshot) TableName() string {
	return "mugshots"
}

// GetEncoding converts the BLOB data to []float32
func (m *Mugshot) GetEncoding() []float32 {
	return DecodeEncoding(m.EncodingData)
}

// SetEncoding converts []float32 to BLOB data
func (m *Mugshot) SetEncoding(encoding []float32) {
	m.EncodingData = EncodeEncoding(encoding)
}

// DecodeEncoding deserializes an encoding BLOB back to []float32. The layout
// is little-endian IEEE-754, 4 bytes per element, so the round trip is
// bit-exact.
func DecodeEncoding(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}

	encoding := make([]float32, len(data)/4)
	for i := 0; i < len(encoding); i++ {
		offset := i * 4
		bits := uint32(data[offset]) |
			uint32(data[offset+1])<<8 |
			uint32(data[offset+2])<<16 |
			uint32(data[offset+3])<<24
		encoding[i] = math.Float32frombits(bits)
	}
	return encoding
}

// EncodeEncoding serializes an encoding to its BLOB form.
func EncodeEncoding(encoding []float32) []byte {
	if len(encoding) == 0 {
		return nil
	}

	data := make([]byte, len(encoding)*4)
	for i, val := range encoding {
		offset := i * 4
		bits := math.Float32bits(val)
		data[offset] = byte(bits)
		data[offset+1] = byte(bits >> 8)
		data[offset+2] = byte(bits >> 16)
		data[offset+3] = byte(bits >> 24)
	}
	return data
}
