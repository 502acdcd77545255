package models

// MatchRecord is an audit row capturing the similarity score of one
// suspect-to-criminal match at match time. Rows are immutable once written;
// the score is a point-in-time fact and is never recomputed.
type MatchRecord struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	SuspectID       uint    `gorm:"not null;index" json:"suspect_id"`
	CriminalID      uint    `gorm:"not null;index" json:"criminal_id"`
	SimilarityScore float32 `gorm:"not null" json:"similarity_score"`
	Notes           *string `json:"notes,omitempty"`
	MatchedBy       *string `json:"matched_by,omitempty"`
	CreatedAt       int64   `gorm:"not null" json:"created_at"`

	Suspect  *Suspect  `gorm:"foreignKey:SuspectID" json:"suspect,omitempty"`
	Criminal *Criminal `gorm:"foreignKey:CriminalID" json:"criminal,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (MatchRecord) TableName() string {
	return "matches"
}
