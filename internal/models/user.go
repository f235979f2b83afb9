package models

// User represents a GitHub account seen in a webhook delivery.
// The ID is GitHub's own numeric ID and is never generated locally.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}
