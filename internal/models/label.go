package models

// Label represents a GitHub label, keyed by name.
// Points are assigned by an administrator; webhook ingestion only ever
// touches name and color.
type Label struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Points int    `json:"points"`
}

// IsFeature reports whether the label carries a positive point value.
func (l *Label) IsFeature() bool {
	return l.Points > 0
}
