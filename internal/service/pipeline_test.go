package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pagesmith/pagesmith/internal/domain/task"
	"github.com/pagesmith/pagesmith/internal/port/llmprovider"
)

type callbackRecorder struct {
	mu       sync.Mutex
	payloads []task.Result
}

func (c *callbackRecorder) handler(w http.ResponseWriter, r *http.Request) {
	var payload task.Result
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	c.payloads = append(c.payloads, payload)
	c.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (c *callbackRecorder) received() []task.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]task.Result(nil), c.payloads...)
}

func newTestPipeline(host *fakeHost) *PipelineService {
	provider := &fakeProvider{name: "p", content: "<html>app</html>"}
	generator := NewGeneratorService([]llmprovider.Provider{provider}, nil, 0)
	publisher := NewPublisherService(host)
	callback := NewCallbackService(2, time.Millisecond, time.Second)
	callback.sleep = func(context.Context, time.Duration) {}
	return NewPipelineService(generator, publisher, callback, nil)
}

func TestPipelineBuildNotifiesCallback(t *testing.T) {
	rec := &callbackRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	host := newFakeHost()
	pipeline := newTestPipeline(host)

	req := task.Request{
		Email:         "student@example.com",
		Task:          "quiz-app",
		Round:         1,
		Nonce:         "abc12345",
		Brief:         "Build a quiz app.",
		EvaluationURL: srv.URL,
	}
	pipeline.Build(context.Background(), "task-1", req)

	repoName := task.RepoName(req.Task, req.Nonce)
	if host.repos[repoName] == nil {
		t.Fatalf("repository %s was not created", repoName)
	}

	got := rec.received()
	if len(got) != 1 {
		t.Fatalf("callback received %d payloads, want 1", len(got))
	}
	payload := got[0]
	if payload.Email != req.Email || payload.Task != req.Task || payload.Round != 1 || payload.Nonce != req.Nonce {
		t.Errorf("payload does not echo the request: %+v", payload)
	}
	if payload.CommitSHA != DefaultBranch {
		t.Errorf("CommitSHA = %q, want %q", payload.CommitSHA, DefaultBranch)
	}
	if payload.RepoURL != host.RepoURL(repoName) || payload.PagesURL != host.PagesURL(repoName) {
		t.Errorf("payload URLs inconsistent with the host: %+v", payload)
	}
}

func TestPipelinePublishFailureSkipsCallback(t *testing.T) {
	rec := &callbackRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	host := newFakeHost()
	host.createErr = errors.New("repository host down")
	pipeline := newTestPipeline(host)

	pipeline.Build(context.Background(), "task-1", task.Request{
		Task:          "quiz-app",
		Nonce:         "abc12345",
		Brief:         "Build a quiz app.",
		EvaluationURL: srv.URL,
	})

	if got := rec.received(); len(got) != 0 {
		t.Fatalf("callback invoked %d times after publish failure, want 0", len(got))
	}
}

func TestPipelineReviseUpdatesExistingRepo(t *testing.T) {
	rec := &callbackRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	host := newFakeHost()
	pipeline := newTestPipeline(host)

	req := task.Request{
		Task:          "quiz-app",
		Round:         1,
		Nonce:         "abc12345",
		Brief:         "Build a quiz app.",
		EvaluationURL: srv.URL,
	}
	pipeline.Build(context.Background(), "task-1", req)

	req.Round = 2
	req.Brief = "Add a timer to the quiz."
	pipeline.Revise(context.Background(), "task-2", req)

	got := rec.received()
	if len(got) != 2 {
		t.Fatalf("callback received %d payloads, want 2", len(got))
	}
	if got[1].Round != 2 {
		t.Errorf("revision payload round = %d, want 2", got[1].Round)
	}
	// Same (task, nonce) pair targets the same repository.
	if got[0].RepoURL != got[1].RepoURL {
		t.Errorf("build and revise targeted different repos: %q vs %q", got[0].RepoURL, got[1].RepoURL)
	}
}

func TestPipelineReviseOfUnknownRepoPublishes(t *testing.T) {
	rec := &callbackRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	host := newFakeHost()
	pipeline := newTestPipeline(host)

	pipeline.Revise(context.Background(), "task-1", task.Request{
		Task:          "never-built",
		Round:         2,
		Nonce:         "abc12345",
		Brief:         "Add a feature.",
		EvaluationURL: srv.URL,
	})

	repoName := task.RepoName("never-built", "abc12345")
	if host.repos[repoName] == nil {
		t.Fatalf("revision of an unknown repository did not create %s", repoName)
	}
	if got := rec.received(); len(got) != 1 {
		t.Fatalf("callback received %d payloads, want 1", len(got))
	}
}
