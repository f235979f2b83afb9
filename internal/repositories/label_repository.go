package repositories

import (
	"database/sql"
	"strings"

	"github.com/gitkudos/gitkudos/internal/models"
)

// LabelRepository handles database operations for labels
type LabelRepository struct {
	db *sql.DB
}

// NewLabelRepository creates a new LabelRepository
func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Upsert inserts the label or updates its color, keyed by name.
// Points are administrator-controlled and are deliberately left untouched:
// a webhook delivery can never change a label's point value.
func (r *LabelRepository) Upsert(label *models.Label) error {
	query := `
		INSERT INTO labels (name, color)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			color = excluded.color
	`

	_, err := r.db.Exec(query, label.Name, label.Color)
	return err
}

// GetByName retrieves a label by name
func (r *LabelRepository) GetByName(name string) (*models.Label, error) {
	query := `SELECT name, color, points FROM labels WHERE name = ?`

	label := &models.Label{}
	err := r.db.QueryRow(query, name).Scan(&label.Name, &label.Color, &label.Points)
	if err != nil {
		return nil, err
	}

	return label, nil
}

// SetPoints assigns the point value of a label. This is the admin surface,
// it is never called from webhook ingestion.
func (r *LabelRepository) SetPoints(name string, points int) error {
	query := `UPDATE labels SET points = ? WHERE name = ?`

	result, err := r.db.Exec(query, points, name)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// AnyFeature reports whether any of the given label names is a known label
// with positive points. Unknown names never match.
func (r *LabelRepository) AnyFeature(names []string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}

	placeholders := strings.Repeat("?,", len(names))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT COUNT(*) FROM labels WHERE points > 0 AND name IN (` + placeholders + `)`

	args := make([]interface{}, len(names))
	for i, name := range names {
		args[i] = name
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}
