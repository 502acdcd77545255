package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/rowan-dale/facesysbackend/models"
)

// MatchRepository handles the immutable match audit rows.
type MatchRepository struct {
	DB *gorm.DB
}

var _ MatchRepositoryInterface = (*MatchRepository)(nil)

// NewMatchRepository creates a new instance of MatchRepository
func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{DB: db}
}

// Create writes one match audit row. Rows are never updated afterwards.
func (r *MatchRepository) Create(match *models.MatchRecord) error {
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(match).Error; err != nil {
		return fmt.Errorf("failed to save match (suspect %d -> criminal %d): %w",
			match.SuspectID, match.CriminalID, err)
	}
	return nil
}

// ListBySuspectID returns the audit rows for one suspect, best score first
func (r *MatchRepository) ListBySuspectID(suspectID uint) ([]models.MatchRecord, error) {
	var matches []models.MatchRecord
	err := r.DB.Where("suspect_id = ?", suspectID).
		Preload("Criminal").
		Order("similarity_score DESC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for suspect ID %d: %w", suspectID, err)
	}
	return matches, nil
}

// MatchFilter narrows a match report query. Zero-valued fields are ignored.
type MatchFilter struct {
	CriminalID *uint
	SuspectID  *uint
	MinScore   *float32
	Since      *int64 // Unix seconds, inclusive
	Until      *int64 // Unix seconds, exclusive
	Limit      int
}

// MatchReportRow is one row of the joined match report.
type MatchReportRow struct {
	MatchID          uint    `json:"match_id"`
	SuspectID        uint    `json:"suspect_id"`
	SuspectImagePath string  `json:"suspect_image_path"`
	CriminalID       uint    `json:"criminal_id"`
	CriminalCode     string  `json:"criminal_code"`
	CriminalName     string  `json:"criminal_name"`
	SimilarityScore  float32 `json:"similarity_score"`
	MatchedBy        *string `json:"matched_by,omitempty"`
	CreatedAt        int64   `json:"created_at"`
}

// Search runs a filtered report over the match audit trail. The query is
// built dynamically with squirrel and executed through GORM's raw interface.
func (r *MatchRepository) Search(filter MatchFilter) ([]MatchReportRow, error) {
	queryBuilder := sq.Select(
		"m.id AS match_id",
		"m.suspect_id",
		"s.image_path AS suspect_image_path",
		"m.criminal_id",
		"c.criminal_code",
		"c.name AS criminal_name",
		"m.similarity_score",
		"m.matched_by",
		"m.created_at",
	).
		From("matches m").
		Join("suspects s ON m.suspect_id = s.id").
		Join("criminals c ON m.criminal_id = c.id").
		OrderBy("m.created_at DESC", "m.similarity_score DESC")

	if filter.CriminalID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"m.criminal_id": *filter.CriminalID})
	}
	if filter.SuspectID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"m.suspect_id": *filter.SuspectID})
	}
	if filter.MinScore != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"m.similarity_score": *filter.MinScore})
	}
	if filter.Since != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"m.created_at": *filter.Since})
	}
	if filter.Until != nil {
		queryBuilder = queryBuilder.Where(sq.Lt{"m.created_at": *filter.Until})
	}
	if filter.Limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for match search: %w", err)
	}

	var rows []MatchReportRow
	if err := r.DB.Raw(sqlStr, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to execute match search: %w", err)
	}
	return rows, nil
}
