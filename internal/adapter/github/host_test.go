package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/port/repohost"
)

var _ repohost.Host = (*Host)(nil)

func TestCreateRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/repos" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token tok" {
			t.Errorf("Authorization = %q", got)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("payload decode failed: %v", err)
		}
		if payload["name"] != "llm-project-app-abc12345" {
			t.Errorf("name = %v", payload["name"])
		}
		if payload["private"] != false {
			t.Error("repository must be public")
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	h := NewHost(srv.URL, "tok", "owner")
	if err := h.CreateRepo(context.Background(), "llm-project-app-abc12345", "desc"); err != nil {
		t.Fatalf("CreateRepo returned error: %v", err)
	}
}

func TestGetRepoNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := NewHost(srv.URL, "tok", "owner")
	err := h.GetRepo(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetRepo error = %v, want ErrNotFound", err)
	}
}

func TestCommitFileConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	h := NewHost(srv.URL, "tok", "owner")
	err := h.CommitFile(context.Background(), "repo", "index.html", "<html></html>", "msg")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("CommitFile error = %v, want ErrConflict", err)
	}
}

func TestCommitFileEncodesContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/contents/.github/workflows/deploy.yml" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var payload struct {
			Message string `json:"message"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("payload decode failed: %v", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(payload.Content)
		if err != nil {
			t.Errorf("content not base64: %v", err)
		}
		if string(decoded) != "name: Deploy" {
			t.Errorf("decoded content = %q", decoded)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	h := NewHost(srv.URL, "tok", "owner")
	err := h.CommitFile(context.Background(), "repo", ".github/workflows/deploy.yml", "name: Deploy", "msg")
	if err != nil {
		t.Fatalf("CommitFile returned error: %v", err)
	}
}

func TestGetFileDecodesBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// The contents API wraps base64 at 60 columns with newlines.
		encoded := base64.StdEncoding.EncodeToString([]byte("# App readme"))
		wrapped := encoded[:8] + "\n" + encoded[8:]
		_ = json.NewEncoder(w).Encode(map[string]string{
			"content":  wrapped,
			"encoding": "base64",
			"sha":      "abc123",
		})
	}))
	defer srv.Close()

	h := NewHost(srv.URL, "tok", "owner")
	content, sha, err := h.GetFile(context.Background(), "repo", "README.md")
	if err != nil {
		t.Fatalf("GetFile returned error: %v", err)
	}
	if content != "# App readme" {
		t.Errorf("content = %q", content)
	}
	if sha != "abc123" {
		t.Errorf("sha = %q", sha)
	}
}

func TestUpdateFileSendsSHA(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("payload decode failed: %v", err)
		}
		if payload["sha"] != "abc123" {
			t.Errorf("sha = %v, want abc123", payload["sha"])
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	h := NewHost(srv.URL, "tok", "owner")
	err := h.UpdateFile(context.Background(), "repo", "index.html", "<html>v2</html>", "abc123", "msg")
	if err != nil {
		t.Fatalf("UpdateFile returned error: %v", err)
	}
}

func TestEnablePagesToleratesAlreadyEnabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message": "already enabled"}`))
	}))
	defer srv.Close()

	h := NewHost(srv.URL, "tok", "owner")
	if err := h.EnablePages(context.Background(), "repo", "main", "/"); err != nil {
		t.Fatalf("EnablePages should tolerate 409, got %v", err)
	}
}

func TestURLDerivation(t *testing.T) {
	h := NewHost("https://api.github.com", "tok", "octocat")

	if got := h.RepoURL("llm-project-app-abc12345"); got != "https://github.com/octocat/llm-project-app-abc12345" {
		t.Errorf("RepoURL = %q", got)
	}
	if got := h.PagesURL("llm-project-app-abc12345"); got != "https://octocat.github.io/llm-project-app-abc12345" {
		t.Errorf("PagesURL = %q", got)
	}
}
