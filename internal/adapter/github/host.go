// Package github implements a repohost.Host against the GitHub REST API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/port/repohost"
	"github.com/pagesmith/pagesmith/internal/resilience"
)

const hostName = "github"

// Host talks to the GitHub REST API with token authentication.
type Host struct {
	baseURL    string
	token      string
	owner      string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewHost creates a GitHub host for the given owner account.
func NewHost(baseURL, token, owner string) *Host {
	return &Host{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		owner:      owner,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (h *Host) SetBreaker(b *resilience.Breaker) {
	h.breaker = b
}

func (h *Host) Name() string { return hostName }

func (h *Host) Capabilities() repohost.Capabilities {
	return repohost.Capabilities{
		Pages:     true,
		Workflows: true,
	}
}

func (h *Host) Owner() string { return h.owner }

// RepoURL returns the public repository URL.
func (h *Host) RepoURL(name string) string {
	return fmt.Sprintf("https://github.com/%s/%s", h.owner, name)
}

// PagesURL returns the hosted-page URL.
func (h *Host) PagesURL(name string) string {
	return fmt.Sprintf("https://%s.github.io/%s", h.owner, name)
}

// CreateRepo creates a new public repository under the owner account.
func (h *Host) CreateRepo(ctx context.Context, name, description string) error {
	payload := map[string]any{
		"name":        name,
		"description": description,
		"private":     false,
		"has_issues":  true,
		"has_wiki":    true,
	}
	_, err := h.doRequest(ctx, http.MethodPost, "/user/repos", payload)
	if err != nil {
		return fmt.Errorf("github create repo: %w", err)
	}
	return nil
}

// GetRepo checks that the named repository exists.
func (h *Host) GetRepo(ctx context.Context, name string) error {
	_, err := h.doRequest(ctx, http.MethodGet, h.repoPath(name, ""), nil)
	if err != nil {
		return fmt.Errorf("github get repo: %w", err)
	}
	return nil
}

// contentsFile mirrors the JSON response from the contents API.
type contentsFile struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

// CommitFile creates a new file. Returns domain.ErrConflict when the file
// already exists on the remote.
func (h *Host) CommitFile(ctx context.Context, name, path, content, message string) error {
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	}
	_, err := h.doRequest(ctx, http.MethodPut, h.contentsPath(name, path), payload)
	if err != nil {
		return fmt.Errorf("github commit %s: %w", path, err)
	}
	return nil
}

// GetFile returns the decoded content and version token of a file.
func (h *Host) GetFile(ctx context.Context, name, path string) (string, string, error) {
	body, err := h.doRequest(ctx, http.MethodGet, h.contentsPath(name, path), nil)
	if err != nil {
		return "", "", fmt.Errorf("github get %s: %w", path, err)
	}

	var file contentsFile
	if err := json.Unmarshal(body, &file); err != nil {
		return "", "", fmt.Errorf("github parse %s: %w", path, err)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", "", fmt.Errorf("github decode %s: %w", path, err)
	}
	return string(decoded), file.SHA, nil
}

// UpdateFile overwrites an existing file; the sha must match the version
// returned by GetFile.
func (h *Host) UpdateFile(ctx context.Context, name, path, content, sha, message string) error {
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"sha":     sha,
	}
	_, err := h.doRequest(ctx, http.MethodPut, h.contentsPath(name, path), payload)
	if err != nil {
		return fmt.Errorf("github update %s: %w", path, err)
	}
	return nil
}

// EnablePages turns on Pages hosting from the given branch root.
// An already-enabled site (409) is not an error.
func (h *Host) EnablePages(ctx context.Context, name, branch, root string) error {
	payload := map[string]any{
		"source": map[string]string{
			"branch": branch,
			"path":   root,
		},
	}
	_, err := h.doRequest(ctx, http.MethodPost, h.repoPath(name, "/pages"), payload)
	if err != nil {
		if strings.Contains(err.Error(), "409") {
			return nil
		}
		return fmt.Errorf("github enable pages: %w", err)
	}
	return nil
}

// InstallWorkflow commits a workflow definition file.
func (h *Host) InstallWorkflow(ctx context.Context, name, path, content string) error {
	return h.CommitFile(ctx, name, path, content, "Add Pages deployment workflow")
}

func (h *Host) repoPath(name, suffix string) string {
	return fmt.Sprintf("/repos/%s/%s%s", h.owner, name, suffix)
}

// contentsPath keeps the file path's own separators; segments never need
// escaping because the publisher only writes fixed, well-known paths.
func (h *Host) contentsPath(name, filePath string) string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s", h.owner, name, filePath)
}

func (h *Host) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var result []byte
	call := func() error {
		var bodyReader io.Reader
		if payload != nil {
			body, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("marshal payload: %w", err)
			}
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("Authorization", "token "+h.token)
		if bodyReader != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := h.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return domain.ErrNotFound
		case resp.StatusCode == http.StatusUnprocessableEntity:
			// The contents API answers 422 for a create on an existing file.
			return domain.ErrConflict
		case resp.StatusCode >= 400:
			return fmt.Errorf("github API %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if h.breaker != nil {
		if err := h.breaker.Execute(call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}
