package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/domain/site"
	"github.com/pagesmith/pagesmith/internal/port/repohost"
)

// fakeHost implements repohost.Host in memory for testing.
type fakeHost struct {
	repos map[string]map[string]string // name -> path -> content

	createErr   error
	commitErrs  map[string]error // path -> error for CommitFile
	pagesErr    error
	pagesCalled []string
}

var _ repohost.Host = (*fakeHost)(nil)

func newFakeHost() *fakeHost {
	return &fakeHost{
		repos:      map[string]map[string]string{},
		commitErrs: map[string]error{},
	}
}

func (f *fakeHost) Name() string { return "fake" }
func (f *fakeHost) Capabilities() repohost.Capabilities {
	return repohost.Capabilities{Pages: true, Workflows: true}
}
func (f *fakeHost) Owner() string { return "owner" }

func (f *fakeHost) CreateRepo(_ context.Context, name, _ string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.repos[name] = map[string]string{}
	return nil
}

func (f *fakeHost) GetRepo(_ context.Context, name string) error {
	if _, ok := f.repos[name]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (f *fakeHost) CommitFile(_ context.Context, name, path, content, _ string) error {
	if err := f.commitErrs[path]; err != nil {
		return err
	}
	repo, ok := f.repos[name]
	if !ok {
		return domain.ErrNotFound
	}
	if _, exists := repo[path]; exists {
		return domain.ErrConflict
	}
	repo[path] = content
	return nil
}

func (f *fakeHost) GetFile(_ context.Context, name, path string) (string, string, error) {
	repo, ok := f.repos[name]
	if !ok {
		return "", "", domain.ErrNotFound
	}
	content, exists := repo[path]
	if !exists {
		return "", "", domain.ErrNotFound
	}
	return content, "sha-" + path, nil
}

func (f *fakeHost) UpdateFile(_ context.Context, name, path, content, _, _ string) error {
	repo, ok := f.repos[name]
	if !ok {
		return domain.ErrNotFound
	}
	if _, exists := repo[path]; !exists {
		return domain.ErrNotFound
	}
	repo[path] = content
	return nil
}

func (f *fakeHost) EnablePages(_ context.Context, name, _, _ string) error {
	f.pagesCalled = append(f.pagesCalled, name)
	return f.pagesErr
}

func (f *fakeHost) InstallWorkflow(ctx context.Context, name, path, content string) error {
	return f.CommitFile(ctx, name, path, content, "workflow")
}

func (f *fakeHost) RepoURL(name string) string  { return "https://example.com/owner/" + name }
func (f *fakeHost) PagesURL(name string) string { return "https://owner.example.io/" + name }

func testFiles() site.FileSet {
	return site.FileSet{
		site.FileIndex:   "<html></html>",
		site.FileStyles:  "body {}",
		site.FileScript:  "console.log('ok');",
		site.FileReadme:  "# App",
		site.FileLicense: "MIT",
	}
}

func TestPublishCommitsAllFiles(t *testing.T) {
	host := newFakeHost()
	svc := NewPublisherService(host)

	res, err := svc.Publish(context.Background(), "llm-project-app-abc12345", testFiles())
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	repo := host.repos["llm-project-app-abc12345"]
	if repo == nil {
		t.Fatal("repository was not created")
	}
	for path := range testFiles() {
		if repo[path] == "" {
			t.Errorf("file %s was not committed", path)
		}
	}
	if repo[site.WorkflowPath] == "" {
		t.Error("deployment workflow was not installed")
	}
	if len(host.pagesCalled) != 1 {
		t.Errorf("EnablePages called %d times, want 1", len(host.pagesCalled))
	}
	if res.RepoURL != host.RepoURL("llm-project-app-abc12345") {
		t.Errorf("RepoURL = %q", res.RepoURL)
	}
	if res.PagesURL != host.PagesURL("llm-project-app-abc12345") {
		t.Errorf("PagesURL = %q", res.PagesURL)
	}
}

func TestPublishCreateRepoFailureIsFatal(t *testing.T) {
	host := newFakeHost()
	host.createErr = errors.New("boom")
	svc := NewPublisherService(host)

	if _, err := svc.Publish(context.Background(), "name", testFiles()); err == nil {
		t.Fatal("expected error when repository creation fails")
	}
}

func TestPublishSwallowsPerFileConflict(t *testing.T) {
	host := newFakeHost()
	host.commitErrs[site.FileStyles] = domain.ErrConflict
	svc := NewPublisherService(host)

	if _, err := svc.Publish(context.Background(), "name", testFiles()); err != nil {
		t.Fatalf("per-file conflict should be swallowed, got %v", err)
	}
}

func TestPublishPagesFailureIsNotFatal(t *testing.T) {
	host := newFakeHost()
	host.pagesErr = errors.New("pages unavailable")
	svc := NewPublisherService(host)

	if _, err := svc.Publish(context.Background(), "name", testFiles()); err != nil {
		t.Fatalf("EnablePages failure should not fail the publish, got %v", err)
	}
}

func TestUpdateOverwritesExistingFiles(t *testing.T) {
	host := newFakeHost()
	svc := NewPublisherService(host)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	if _, err := svc.Publish(ctx, "name", testFiles()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	updated := testFiles()
	updated[site.FileIndex] = "<html>v2</html>"
	if _, err := svc.Update(ctx, "name", updated, 2); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	repo := host.repos["name"]
	if repo[site.FileIndex] != "<html>v2</html>" {
		t.Errorf("index not overwritten: %q", repo[site.FileIndex])
	}
	readme := repo[site.FileReadme]
	if !strings.Contains(readme, "## Revision History") {
		t.Error("revision history not appended to README")
	}
	if !strings.Contains(readme, "Round 2: 2024-05-01 12:00:00") {
		t.Errorf("revision line missing round and timestamp: %q", readme)
	}
}

func TestUpdateOfMissingRepoPublishes(t *testing.T) {
	host := newFakeHost()
	svc := NewPublisherService(host)

	res, err := svc.Update(context.Background(), "never-created", testFiles(), 2)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if host.repos["never-created"] == nil {
		t.Fatal("missing repository was not created")
	}
	if res.RepoURL == "" || res.PagesURL == "" {
		t.Error("result URLs not populated")
	}
}

func TestUpdateCreatesNewFiles(t *testing.T) {
	host := newFakeHost()
	svc := NewPublisherService(host)

	ctx := context.Background()
	if _, err := svc.Publish(ctx, "name", site.FileSet{site.FileReadme: "# App"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if _, err := svc.Update(ctx, "name", testFiles(), 3); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if host.repos["name"][site.FileScript] == "" {
		t.Error("new file not created during update")
	}
}
