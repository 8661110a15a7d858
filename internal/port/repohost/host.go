// Package repohost defines the repository hosting port (interface) and
// capabilities.
package repohost

import "context"

// Capabilities declares which optional operations a host supports.
type Capabilities struct {
	Pages     bool `json:"pages"`
	Workflows bool `json:"workflows"`
}

// Host is the port interface for a repository hosting platform.
// CommitFile returns domain.ErrConflict when the file already exists;
// GetRepo and GetFile return domain.ErrNotFound for missing entities.
type Host interface {
	// Name returns the unique identifier for this host (e.g. "github").
	Name() string

	// Capabilities returns what this host supports.
	Capabilities() Capabilities

	// Owner returns the account all repositories are created under.
	Owner() string

	// CreateRepo creates a new public repository.
	CreateRepo(ctx context.Context, name, description string) error

	// GetRepo checks that the named repository exists.
	GetRepo(ctx context.Context, name string) error

	// CommitFile creates a new file in the repository.
	CommitFile(ctx context.Context, name, path, content, message string) error

	// GetFile returns the current content and version token of a file.
	GetFile(ctx context.Context, name, path string) (content, sha string, err error)

	// UpdateFile overwrites an existing file. The sha must match the
	// version returned by GetFile.
	UpdateFile(ctx context.Context, name, path, content, sha, message string) error

	// EnablePages turns on static-page hosting from the given branch root.
	EnablePages(ctx context.Context, name, branch, root string) error

	// InstallWorkflow commits a deployment automation definition.
	InstallWorkflow(ctx context.Context, name, path, content string) error

	// RepoURL returns the public repository URL for a name.
	RepoURL(name string) string

	// PagesURL returns the hosted-page URL for a name.
	PagesURL(name string) string
}
