package models

// Repository represents a GitHub repository.
// ConsiderContributions is recomputed from the repository's topic list on
// every webhook delivery that carries the repository.
type Repository struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	ConsiderContributions bool   `json:"consider_contributions"`
}
