// Package task defines the build/revise task request and its derived values.
package task

import (
	"errors"
	"regexp"
	"strings"
)

// Attachment is a named file reference supplied with a request.
// The URL may be a plain URL or an inline data URI; attachments are
// passed through to the generation prompt only, never decoded.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Request is a validated build or revise request. Immutable once received.
type Request struct {
	Email         string       `json:"email"`
	Secret        string       `json:"secret"`
	Task          string       `json:"task"`
	Round         int          `json:"round"`
	Nonce         string       `json:"nonce"`
	Brief         string       `json:"brief"`
	Checks        []string     `json:"checks"`
	EvaluationURL string       `json:"evaluation_url"`
	Attachments   []Attachment `json:"attachments"`
}

// Ack is the synchronous acknowledgment returned to the caller.
// It is independent of the eventual pipeline outcome.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TaskID  string `json:"task_id,omitempty"`
}

// Result is the payload delivered to the evaluation callback URL.
type Result struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9-]+`)
var hyphenRuns = regexp.MustCompile(`-+`)

// RepoName derives the repository name for a (task, nonce) pair.
// Pure function: the task id is lowercased, runs of non-alphanumeric
// characters collapse to single hyphens, and the first 8 characters of
// the nonce are appended so distinct pairs map to distinct names.
func RepoName(taskID, nonce string) string {
	sanitized := nonAlnum.ReplaceAllString(strings.ToLower(taskID), "-")
	sanitized = strings.Trim(hyphenRuns.ReplaceAllString(sanitized, "-"), "-")

	prefix := nonce
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "llm-project-" + sanitized + "-" + prefix
}

// Validate checks the fields every request must carry.
// The shared-secret check is the transport layer's concern.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Brief) == "" {
		return errors.New("brief cannot be empty")
	}
	if !strings.HasPrefix(r.EvaluationURL, "http://") && !strings.HasPrefix(r.EvaluationURL, "https://") {
		return errors.New("invalid evaluation URL")
	}
	return nil
}

// ValidateRevision checks revise-specific preconditions on top of Validate.
func (r *Request) ValidateRevision() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Round < 2 {
		return errors.New("revision endpoint is for round 2+ only")
	}
	return nil
}
