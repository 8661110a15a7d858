// Package llmprovider defines the generation provider port (interface) and
// the shared degraded-mode placeholder document.
package llmprovider

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned by Generate when a provider has no credential
// and does not degrade to a placeholder.
var ErrNotConfigured = errors.New("llmprovider: not configured")

// Capabilities declares how a provider behaves at the edges.
type Capabilities struct {
	// Chat reports whether the provider speaks a chat-completions shape.
	Chat bool `json:"chat"`
	// Placeholder reports whether the provider degrades to a placeholder
	// document instead of failing when unconfigured or unreachable.
	Placeholder bool `json:"placeholder"`
}

// Provider is the port interface for a single content-generation backend.
// Generate and Accept form an explicit contract: Generate produces text or
// an error, Accept judges whether produced text is usable as final content.
// The fallback chain moves on when either fails.
type Provider interface {
	// Name returns the unique identifier for this provider (e.g. "openai").
	Name() string

	// Capabilities returns how this provider behaves.
	Capabilities() Capabilities

	// Generate produces raw content for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Accept reports whether content from this provider is usable.
	// A nil error accepts the content verbatim.
	Accept(content string) error
}

// IsQuotaError reports whether an error looks like a quota or rate-limit
// rejection. Upstream errors carry no structured class, so this is a text
// heuristic used only to label the fallthrough in logs.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota")
}
