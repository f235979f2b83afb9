package payload

import (
	"encoding/json"
	"time"
)

// User is the parsed form of a "user" or "sender" payload member.
type User struct {
	ID        int64
	Login     string
	AvatarURL string
	Extra     map[string]json.RawMessage
}

// Label is the parsed form of a "label" payload member.
type Label struct {
	ID    int64
	URL   string
	Name  string
	Color string
	Extra map[string]json.RawMessage
}

// Repository is the parsed form of a "repository" payload member.
type Repository struct {
	ID       int64
	Name     string
	FullName string
	Private  bool
	Topics   []string
	Extra    map[string]json.RawMessage
}

// Issue is the parsed form of an "issue" payload member.
type Issue struct {
	ID            int64
	Title         string
	URL           string
	HTMLURL       string
	RepositoryURL string
	State         string
	Locked        bool
	User          User
	Assignee      *User
	Labels        []Label
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time
	Repository    Repository
	Extra         map[string]json.RawMessage
}

// PullRequest is the parsed form of a "pull_request" payload member.
type PullRequest struct {
	ID         int64
	URL        string
	HTMLURL    string
	Title      string
	Body       string
	State      string
	Locked     bool
	Merged     bool
	User       User
	Labels     []Label
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ClosedAt   *time.Time
	MergedAt   *time.Time
	Repository Repository
	Extra      map[string]json.RawMessage
}

type object map[string]json.RawMessage

func decodeObject(raw json.RawMessage, kind Kind, field string) (object, error) {
	var obj object
	if len(raw) == 0 {
		return nil, &ValidationError{Kind: kind, Field: field, Msg: "empty"}
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &ValidationError{Kind: kind, Field: field, Msg: "not a JSON object"}
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func requireString(obj object, kind Kind, field string) (string, error) {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return "", &ValidationError{Kind: kind, Field: field, Msg: "required"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ValidationError{Kind: kind, Field: field, Msg: "not a string"}
	}
	return s, nil
}

func optionalString(obj object, kind Kind, field string) (string, error) {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ValidationError{Kind: kind, Field: field, Msg: "not a string"}
	}
	return s, nil
}

func requireInt(obj object, kind Kind, field string) (int64, error) {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return 0, &ValidationError{Kind: kind, Field: field, Msg: "required"}
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &ValidationError{Kind: kind, Field: field, Msg: "not an integer"}
	}
	return n, nil
}

func optionalBool(obj object, kind Kind, field string) (bool, error) {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, &ValidationError{Kind: kind, Field: field, Msg: "not a boolean"}
	}
	return b, nil
}

func requireTime(obj object, kind Kind, field string) (time.Time, error) {
	s, err := requireString(obj, kind, field)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &ValidationError{Kind: kind, Field: field, Msg: "not an RFC3339 timestamp"}
	}
	return t, nil
}

func optionalTime(obj object, kind Kind, field string) (*time.Time, error) {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return nil, nil
	}
	t, err := requireTime(obj, kind, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// extraFields keeps every payload member not interpreted by the parser, for
// forward compatibility with new webhook fields.
func extraFields(obj object, known ...string) map[string]json.RawMessage {
	extra := make(map[string]json.RawMessage)
	for key, value := range obj {
		keep := true
		for _, k := range known {
			if key == k {
				keep = false
				break
			}
		}
		if keep {
			extra[key] = value
		}
	}
	return extra
}

func parseUser(raw json.RawMessage, kind Kind) (*User, error) {
	obj, err := decodeObject(raw, kind, string(kind))
	if err != nil {
		return nil, err
	}

	user := &User{}
	if user.ID, err = requireInt(obj, kind, "id"); err != nil {
		return nil, err
	}
	if user.Login, err = requireString(obj, kind, "login"); err != nil {
		return nil, err
	}
	if user.AvatarURL, err = optionalString(obj, kind, "avatar_url"); err != nil {
		return nil, err
	}
	user.Extra = extraFields(obj, "id", "login", "avatar_url")

	return user, nil
}

func parseLabel(raw json.RawMessage, kind Kind) (*Label, error) {
	obj, err := decodeObject(raw, kind, string(kind))
	if err != nil {
		return nil, err
	}

	label := &Label{}
	if label.ID, err = requireInt(obj, kind, "id"); err != nil {
		return nil, err
	}
	if label.Name, err = requireString(obj, kind, "name"); err != nil {
		return nil, err
	}
	if label.Color, err = optionalString(obj, kind, "color"); err != nil {
		return nil, err
	}
	if label.URL, err = optionalString(obj, kind, "url"); err != nil {
		return nil, err
	}
	label.Extra = extraFields(obj, "id", "name", "color", "url")

	return label, nil
}

func parseRepository(raw json.RawMessage, kind Kind) (*Repository, error) {
	obj, err := decodeObject(raw, kind, string(kind))
	if err != nil {
		return nil, err
	}

	repo := &Repository{}
	if repo.ID, err = requireInt(obj, kind, "id"); err != nil {
		return nil, err
	}
	if repo.Name, err = requireString(obj, kind, "name"); err != nil {
		return nil, err
	}
	if repo.FullName, err = optionalString(obj, kind, "full_name"); err != nil {
		return nil, err
	}
	if repo.Private, err = optionalBool(obj, kind, "private"); err != nil {
		return nil, err
	}
	if topicsRaw, ok := obj["topics"]; ok && !isNull(topicsRaw) {
		if err := json.Unmarshal(topicsRaw, &repo.Topics); err != nil {
			return nil, &ValidationError{Kind: kind, Field: "topics", Msg: "not a string array"}
		}
	}
	repo.Extra = extraFields(obj, "id", "name", "full_name", "private", "topics")

	return repo, nil
}

func parseLabels(obj object, kind Kind) ([]Label, error) {
	raw, ok := obj["labels"]
	if !ok || isNull(raw) {
		return nil, nil
	}

	var members []json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, &ValidationError{Kind: kind, Field: "labels", Msg: "not an array"}
	}

	labels := make([]Label, 0, len(members))
	for _, member := range members {
		label, err := parseLabel(member, KindLabel)
		if err != nil {
			return nil, err
		}
		labels = append(labels, *label)
	}
	return labels, nil
}

// parseNestedRepository resolves the repository for an issue or pull request:
// the entity's own nested "repository" member wins, the delivery's top-level
// "repository" key is the fallback.
func parseNestedRepository(obj, top object, kind Kind) (*Repository, error) {
	if raw, ok := obj["repository"]; ok && !isNull(raw) {
		return parseRepository(raw, KindRepository)
	}
	raw, ok := top["repository"]
	if !ok || isNull(raw) {
		return nil, &ValidationError{Kind: kind, Field: "repository", Msg: "required"}
	}
	return parseRepository(raw, KindRepository)
}

func parseIssue(raw json.RawMessage, top object) (*Issue, error) {
	kind := KindIssue
	obj, err := decodeObject(raw, kind, string(kind))
	if err != nil {
		return nil, err
	}

	issue := &Issue{}
	if issue.ID, err = requireInt(obj, kind, "id"); err != nil {
		return nil, err
	}
	if issue.Title, err = requireString(obj, kind, "title"); err != nil {
		return nil, err
	}
	if issue.URL, err = requireString(obj, kind, "url"); err != nil {
		return nil, err
	}
	if issue.HTMLURL, err = optionalString(obj, kind, "html_url"); err != nil {
		return nil, err
	}
	if issue.RepositoryURL, err = optionalString(obj, kind, "repository_url"); err != nil {
		return nil, err
	}
	if issue.State, err = requireString(obj, kind, "state"); err != nil {
		return nil, err
	}
	if issue.Locked, err = optionalBool(obj, kind, "locked"); err != nil {
		return nil, err
	}
	if issue.CreatedAt, err = requireTime(obj, kind, "created_at"); err != nil {
		return nil, err
	}
	if issue.UpdatedAt, err = requireTime(obj, kind, "updated_at"); err != nil {
		return nil, err
	}
	if issue.ClosedAt, err = optionalTime(obj, kind, "closed_at"); err != nil {
		return nil, err
	}

	userRaw, ok := obj["user"]
	if !ok || isNull(userRaw) {
		return nil, &ValidationError{Kind: kind, Field: "user", Msg: "required"}
	}
	user, err := parseUser(userRaw, KindUser)
	if err != nil {
		return nil, err
	}
	issue.User = *user

	if assigneeRaw, ok := obj["assignee"]; ok && !isNull(assigneeRaw) {
		if issue.Assignee, err = parseUser(assigneeRaw, KindUser); err != nil {
			return nil, err
		}
	}

	if issue.Labels, err = parseLabels(obj, kind); err != nil {
		return nil, err
	}

	repo, err := parseNestedRepository(obj, top, kind)
	if err != nil {
		return nil, err
	}
	issue.Repository = *repo

	issue.Extra = extraFields(obj,
		"id", "title", "url", "html_url", "repository_url", "state", "locked",
		"created_at", "updated_at", "closed_at", "user", "assignee", "labels", "repository")

	return issue, nil
}

func parsePullRequest(raw json.RawMessage, top object) (*PullRequest, error) {
	kind := KindPullRequest
	obj, err := decodeObject(raw, kind, string(kind))
	if err != nil {
		return nil, err
	}

	pr := &PullRequest{}
	if pr.ID, err = requireInt(obj, kind, "id"); err != nil {
		return nil, err
	}
	if pr.URL, err = requireString(obj, kind, "url"); err != nil {
		return nil, err
	}
	if pr.HTMLURL, err = optionalString(obj, kind, "html_url"); err != nil {
		return nil, err
	}
	if pr.Title, err = requireString(obj, kind, "title"); err != nil {
		return nil, err
	}
	if pr.Body, err = optionalString(obj, kind, "body"); err != nil {
		return nil, err
	}
	if pr.State, err = requireString(obj, kind, "state"); err != nil {
		return nil, err
	}
	if pr.Locked, err = optionalBool(obj, kind, "locked"); err != nil {
		return nil, err
	}
	if pr.Merged, err = optionalBool(obj, kind, "merged"); err != nil {
		return nil, err
	}
	if pr.CreatedAt, err = requireTime(obj, kind, "created_at"); err != nil {
		return nil, err
	}
	if pr.UpdatedAt, err = requireTime(obj, kind, "updated_at"); err != nil {
		return nil, err
	}
	if pr.ClosedAt, err = optionalTime(obj, kind, "closed_at"); err != nil {
		return nil, err
	}
	if pr.MergedAt, err = optionalTime(obj, kind, "merged_at"); err != nil {
		return nil, err
	}

	userRaw, ok := obj["user"]
	if !ok || isNull(userRaw) {
		return nil, &ValidationError{Kind: kind, Field: "user", Msg: "required"}
	}
	user, err := parseUser(userRaw, KindUser)
	if err != nil {
		return nil, err
	}
	pr.User = *user

	if pr.Labels, err = parseLabels(obj, kind); err != nil {
		return nil, err
	}

	repo, err := parseNestedRepository(obj, top, kind)
	if err != nil {
		return nil, err
	}
	pr.Repository = *repo

	pr.Extra = extraFields(obj,
		"id", "url", "html_url", "title", "body", "state", "locked", "merged",
		"created_at", "updated_at", "closed_at", "merged_at", "user", "labels", "repository")

	return pr, nil
}
