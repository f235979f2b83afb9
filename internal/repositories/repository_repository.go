package repositories

import (
	"database/sql"

	"github.com/gitkudos/gitkudos/internal/models"
)

// GithubRepoRepository handles database operations for GitHub repositories
type GithubRepoRepository struct {
	db *sql.DB
}

// NewGithubRepoRepository creates a new GithubRepoRepository
func NewGithubRepoRepository(db *sql.DB) *GithubRepoRepository {
	return &GithubRepoRepository{db: db}
}

// Upsert inserts the repository or updates it in place, keyed by the GitHub
// ID. consider_contributions is overwritten on every delivery since it is a
// pure function of the repository's current topic list.
func (r *GithubRepoRepository) Upsert(repo *models.Repository) error {
	query := `
		INSERT INTO repositories (id, name, consider_contributions)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			consider_contributions = excluded.consider_contributions
	`

	_, err := r.db.Exec(query, repo.ID, repo.Name, repo.ConsiderContributions)
	return err
}

// GetByID retrieves a repository by its GitHub ID
func (r *GithubRepoRepository) GetByID(id int64) (*models.Repository, error) {
	query := `SELECT id, name, consider_contributions FROM repositories WHERE id = ?`

	repo := &models.Repository{}
	err := r.db.QueryRow(query, id).Scan(&repo.ID, &repo.Name, &repo.ConsiderContributions)
	if err != nil {
		return nil, err
	}

	return repo, nil
}
