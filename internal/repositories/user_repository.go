package repositories

import (
	"database/sql"

	"github.com/gitkudos/gitkudos/internal/models"
)

// UserRepository handles database operations for GitHub users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts the user or updates it in place, keyed by the GitHub ID.
func (r *UserRepository) Upsert(user *models.User) error {
	query := `
		INSERT INTO users (id, username, avatar_url)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			avatar_url = excluded.avatar_url
	`

	_, err := r.db.Exec(query, user.ID, user.Username, user.AvatarURL)
	return err
}

// GetByID retrieves a user by its GitHub ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	query := `SELECT id, username, avatar_url FROM users WHERE id = ?`

	user := &models.User{}
	err := r.db.QueryRow(query, id).Scan(&user.ID, &user.Username, &user.AvatarURL)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetAll retrieves all users ordered by ID
func (r *UserRepository) GetAll() ([]*models.User, error) {
	query := `SELECT id, username, avatar_url FROM users ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
