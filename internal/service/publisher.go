package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/domain/site"
	"github.com/pagesmith/pagesmith/internal/port/repohost"
)

// DefaultBranch is the branch Pages serves from and the pointer label the
// pipeline reports in place of a commit-specific identifier.
const DefaultBranch = "main"

// PublishResult carries the externally visible URLs of a published site.
// Both are derived deterministically from the host owner and the
// repository name.
type PublishResult struct {
	RepoURL  string `json:"repo_url"`
	PagesURL string `json:"pages_url"`
}

// PublisherService ensures a remote repository exists with the given files
// and that page hosting is enabled for it.
type PublisherService struct {
	host repohost.Host
	now  func() time.Time // for testing
}

// NewPublisherService creates a PublisherService backed by the given host.
func NewPublisherService(host repohost.Host) *PublisherService {
	return &PublisherService{
		host: host,
		now:  time.Now,
	}
}

// Publish creates a new repository, commits every file in one logical
// change set, and best-effort enables Pages hosting plus the deployment
// workflow. Only repository creation and file writes are fatal; a per-file
// "already exists" conflict is swallowed.
func (s *PublisherService) Publish(ctx context.Context, name string, files site.FileSet) (PublishResult, error) {
	description := "LLM-generated application: " + name
	if err := s.host.CreateRepo(ctx, name, description); err != nil {
		return PublishResult{}, fmt.Errorf("create repository %s: %w", name, err)
	}

	const message = "Initial commit: LLM-generated application"

	// README first so the repository lands with a front page even if a
	// later write fails.
	if err := s.commitTolerant(ctx, name, site.FileReadme, files[site.FileReadme], message); err != nil {
		return PublishResult{}, err
	}

	if err := s.host.InstallWorkflow(ctx, name, site.WorkflowPath, site.DeployWorkflow); err != nil {
		slog.Warn("could not install deployment workflow", "repo", name, "error", err)
	}

	for _, path := range sortedPaths(files) {
		if path == site.FileReadme {
			continue
		}
		if err := s.commitTolerant(ctx, name, path, files[path], message); err != nil {
			return PublishResult{}, err
		}
	}

	if err := s.host.EnablePages(ctx, name, DefaultBranch, "/"); err != nil {
		slog.Warn("could not enable page hosting", "repo", name, "error", err)
	}

	return s.result(name), nil
}

// Update overwrites the named repository's files with the given content.
// A missing repository makes this an implicit Publish. File writes are
// fatal; the README revision-history append is best-effort.
func (s *PublisherService) Update(ctx context.Context, name string, files site.FileSet, round int) (PublishResult, error) {
	if err := s.host.GetRepo(ctx, name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Info("repository not found, creating new one", "repo", name)
			return s.Publish(ctx, name, files)
		}
		return PublishResult{}, fmt.Errorf("get repository %s: %w", name, err)
	}

	message := fmt.Sprintf("Update for round %d: LLM-generated improvements", round)

	for _, path := range sortedPaths(files) {
		if err := s.upsertFile(ctx, name, path, files[path], message); err != nil {
			return PublishResult{}, err
		}
	}

	s.appendRevisionHistory(ctx, name, files[site.FileReadme], round)

	return s.result(name), nil
}

// upsertFile overwrites an existing remote file or creates a missing one.
func (s *PublisherService) upsertFile(ctx context.Context, name, path, content, message string) error {
	_, sha, err := s.host.GetFile(ctx, name, path)
	switch {
	case err == nil:
		if err := s.host.UpdateFile(ctx, name, path, content, sha, message); err != nil {
			return fmt.Errorf("update %s in %s: %w", path, name, err)
		}
		slog.Info("updated file", "repo", name, "path", path)
	case errors.Is(err, domain.ErrNotFound):
		if err := s.host.CommitFile(ctx, name, path, content, message); err != nil {
			return fmt.Errorf("create %s in %s: %w", path, name, err)
		}
		slog.Info("created file", "repo", name, "path", path)
	default:
		return fmt.Errorf("get %s in %s: %w", path, name, err)
	}
	return nil
}

// appendRevisionHistory rewrites the README with an appended revision line.
// Failures are logged, never propagated.
func (s *PublisherService) appendRevisionHistory(ctx context.Context, name, readme string, round int) {
	if readme == "" {
		return
	}

	_, sha, err := s.host.GetFile(ctx, name, site.FileReadme)
	if err != nil {
		slog.Warn("could not read README for revision history", "repo", name, "error", err)
		return
	}

	updated := fmt.Sprintf("%s\n\n## Revision History\n- Round %d: %s - Updated application based on new requirements",
		readme, round, s.now().Format("2006-01-02 15:04:05"))

	message := fmt.Sprintf("Update README for round %d", round)
	if err := s.host.UpdateFile(ctx, name, site.FileReadme, updated, sha, message); err != nil {
		slog.Warn("could not update README revision history", "repo", name, "error", err)
	}
}

// commitTolerant creates a file, treating an already-exists conflict as
// success for that file only.
func (s *PublisherService) commitTolerant(ctx context.Context, name, path, content, message string) error {
	err := s.host.CommitFile(ctx, name, path, content, message)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrConflict) {
		slog.Debug("file already exists, skipping", "repo", name, "path", path)
		return nil
	}
	return fmt.Errorf("commit %s to %s: %w", path, name, err)
}

func (s *PublisherService) result(name string) PublishResult {
	return PublishResult{
		RepoURL:  s.host.RepoURL(name),
		PagesURL: s.host.PagesURL(name),
	}
}

func sortedPaths(files site.FileSet) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
