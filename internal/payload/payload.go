// Package payload maps raw GitHub webhook JSON into typed entity values.
// Each entity kind knows its own lookup key inside the delivery body and is
// parsed independently, so a handler extracts exactly the kinds it needs.
package payload

import (
	"encoding/json"
	"fmt"

	"github.com/gitkudos/gitkudos/internal/models"
)

// Kind identifies an entity kind and doubles as its top-level lookup key.
type Kind string

const (
	KindUser        Kind = "user"
	KindSender      Kind = "sender"
	KindLabel       Kind = "label"
	KindRepository  Kind = "repository"
	KindIssue       Kind = "issue"
	KindPullRequest Kind = "pull_request"
)

// ValidationError reports a missing or malformed payload field. Handlers map
// it to a 400 response before anything is persisted.
type ValidationError struct {
	Kind  Kind
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload: field %q: %s", e.Kind, e.Field, e.Msg)
}

// Set holds the entities extracted from one webhook delivery. Only the
// requested kinds are populated.
type Set struct {
	User        *User
	Sender      *User
	Label       *Label
	Repository  *Repository
	Issue       *Issue
	PullRequest *PullRequest
}

// Extract parses the raw webhook body once and materializes one typed value
// per requested kind. Nested entities (issue.user, issue.labels, ...) are
// parsed recursively; an issue or pull request without a nested repository
// falls back to the delivery's top-level "repository" key.
func Extract(raw []byte, kinds ...Kind) (*Set, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Kind: "delivery", Field: "body", Msg: "empty"}
	}
	var top object
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &ValidationError{Kind: "delivery", Field: "body", Msg: "not a JSON object"}
	}

	var err error

	set := &Set{}
	for _, kind := range kinds {
		member, ok := top[string(kind)]
		if !ok || isNull(member) {
			return nil, &ValidationError{Kind: kind, Field: string(kind), Msg: "missing key"}
		}

		switch kind {
		case KindUser:
			set.User, err = parseUser(member, kind)
		case KindSender:
			set.Sender, err = parseUser(member, kind)
		case KindLabel:
			set.Label, err = parseLabel(member, kind)
		case KindRepository:
			set.Repository, err = parseRepository(member, kind)
		case KindIssue:
			set.Issue, err = parseIssue(member, top)
		case KindPullRequest:
			set.PullRequest, err = parsePullRequest(member, top)
		default:
			return nil, &ValidationError{Kind: kind, Field: string(kind), Msg: "unknown entity kind"}
		}

		if err != nil {
			return nil, err
		}
	}

	return set, nil
}

// Model converts a parsed repository to its persisted form, deriving
// consider_contributions from the topic list and the acceptance topic.
func (r *Repository) Model(acceptanceTopic string) *models.Repository {
	considered := false
	for _, topic := range r.Topics {
		if topic == acceptanceTopic {
			considered = true
			break
		}
	}
	return &models.Repository{
		ID:                    r.ID,
		Name:                  r.Name,
		ConsiderContributions: considered,
	}
}

// Model converts a parsed user to its persisted form.
func (u *User) Model() *models.User {
	return &models.User{
		ID:        u.ID,
		Username:  u.Login,
		AvatarURL: u.AvatarURL,
	}
}

// Model converts a parsed label to its persisted form. Points stay zero;
// the store never lets ingestion overwrite administrator-assigned points.
func (l *Label) Model() *models.Label {
	return &models.Label{
		Name:  l.Name,
		Color: l.Color,
	}
}

// Model converts a parsed issue to its persisted form.
func (i *Issue) Model(openingPoints int) *models.Issue {
	issue := &models.Issue{
		ID:            i.ID,
		Title:         i.Title,
		URL:           i.URL,
		Locked:        i.Locked,
		State:         i.State,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
		ClosedAt:      i.ClosedAt,
		UserID:        i.User.ID,
		RepositoryID:  i.Repository.ID,
		OpeningPoints: openingPoints,
	}
	if i.Assignee != nil {
		issue.AssigneeID = &i.Assignee.ID
	}
	return issue
}

// Model converts a parsed pull request to its persisted form.
func (p *PullRequest) Model(mergePoints int) *models.PullRequest {
	return &models.PullRequest{
		ID:           p.ID,
		URL:          p.URL,
		HTMLURL:      p.HTMLURL,
		Title:        p.Title,
		Body:         p.Body,
		State:        p.State,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		ClosedAt:     p.ClosedAt,
		MergedAt:     p.MergedAt,
		Merged:       p.Merged,
		UserID:       p.User.ID,
		RepositoryID: p.Repository.ID,
		MergePoints:  mergePoints,
	}
}

// LabelNames returns the attached label names in payload order.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, label := range i.Labels {
		names = append(names, label.Name)
	}
	return names
}

// LabelNames returns the attached label names in payload order.
func (p *PullRequest) LabelNames() []string {
	names := make([]string, 0, len(p.Labels))
	for _, label := range p.Labels {
		names = append(names, label.Name)
	}
	return names
}

// Action pulls the "action" field out of a raw delivery. A delivery without
// an action (e.g. ping) yields the empty string.
func Action(raw []byte) string {
	var probe struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.Action
}
