package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pagesmith/pagesmith/internal/domain/task"
)

// CallbackService delivers a task result to a caller-supplied URL,
// tolerating transient failure with exponential backoff.
type CallbackService struct {
	maxAttempts int
	baseDelay   time.Duration
	httpClient  *http.Client
	sleep       func(ctx context.Context, d time.Duration) // for testing
}

// NewCallbackService creates a CallbackService with the given retry bound
// and backoff base. The wait before retry i is baseDelay * 2^(i-1).
func NewCallbackService(maxAttempts int, baseDelay, timeout time.Duration) *CallbackService {
	return &CallbackService{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		httpClient:  &http.Client{Timeout: timeout},
		sleep:       sleepCtx,
	}
}

// Notify POSTs the payload as JSON to url. Success is exactly HTTP 200;
// every other status and any transport error is a retryable failure.
// Returns false once all attempts are exhausted. Never returns an error:
// a lost notification only loses the callback, not the published site.
func (s *CallbackService) Notify(ctx context.Context, url string, payload task.Result) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("callback payload marshal failed", "error", err)
		return false
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if s.deliver(ctx, url, body) {
			slog.Info("callback delivered", "attempt", attempt)
			return true
		}

		if attempt < s.maxAttempts {
			delay := s.baseDelay << (attempt - 1)
			slog.Info("retrying callback", "attempt", attempt, "delay", delay)
			s.sleep(ctx, delay)
		}
	}

	slog.Error("callback delivery failed after all retries", "url", url, "attempts", s.maxAttempts)
	return false
}

func (s *CallbackService) deliver(ctx context.Context, url string, body []byte) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("callback request build failed", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Warn("callback request failed", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("callback returned non-200", "status", resp.StatusCode)
		return false
	}
	return true
}

// sleepCtx waits for d or until the context is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
