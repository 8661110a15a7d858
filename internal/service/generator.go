// Package service contains application services.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pagesmith/pagesmith/internal/adapter/otel"
	"github.com/pagesmith/pagesmith/internal/domain/site"
	"github.com/pagesmith/pagesmith/internal/domain/task"
	"github.com/pagesmith/pagesmith/internal/port/cache"
	"github.com/pagesmith/pagesmith/internal/port/llmprovider"
)

// GeneratorService turns a brief and its acceptance checks into a complete
// static-site file set by walking an ordered provider fallback chain.
// The chain never fails: the worst case is degraded placeholder content.
type GeneratorService struct {
	chain    []llmprovider.Provider
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *otel.Metrics
}

// NewGeneratorService creates a GeneratorService over the given provider
// chain, tried strictly in order. The cache is optional; when set, raw
// provider output is reused for identical prompts.
func NewGeneratorService(chain []llmprovider.Provider, c cache.Cache, cacheTTL time.Duration) *GeneratorService {
	return &GeneratorService{
		chain:    chain,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// SetMetrics enables fallback counting. metrics may be nil.
func (s *GeneratorService) SetMetrics(m *otel.Metrics) {
	s.metrics = m
}

// BuildPrompt renders the single enhancement prompt every provider in the
// chain receives. Attachments are never embedded; providers only ever see
// the fixed integration instruction (a known limitation).
func BuildPrompt(brief string, checks []string) string {
	var reqs strings.Builder
	for _, check := range checks {
		fmt.Fprintf(&reqs, "- %s\n", check)
	}

	return fmt.Sprintf(`
Create a complete, production-ready web application based on this brief:

BRIEF: %s

REQUIREMENTS:
%s
The application should be:
1. Fully functional and production-ready
2. Responsive and mobile-friendly
3. SEO-optimized with proper meta tags
4. Accessible with proper ARIA labels
5. Fast-loading with optimized assets
6. Secure with proper input validation

Include:
- Complete HTML structure with semantic elements
- Modern CSS with responsive design
- JavaScript for interactivity
- Professional README.md with setup instructions
- MIT LICENSE file
- Proper error handling and user feedback

If attachments are provided, integrate them appropriately into the application.

Generate clean, well-commented, and maintainable code.
`, brief, reqs.String())
}

// Generate walks the fallback chain and assembles the file set.
// The returned set always contains exactly the five site file keys.
func (s *GeneratorService) Generate(ctx context.Context, brief string, checks []string, _ []task.Attachment) (site.FileSet, error) {
	prompt := BuildPrompt(brief, checks)

	content, cached := s.cachedContent(ctx, prompt)
	if !cached {
		content = s.runChain(ctx, prompt)
		s.storeContent(ctx, prompt, content)
	}

	return site.Build(content, prompt, brief, checks), nil
}

// runChain tries each provider in order and returns the first accepted
// content. Provider errors and rejections are logged and absorbed; if the
// whole chain is exhausted the placeholder document is the final answer.
func (s *GeneratorService) runChain(ctx context.Context, prompt string) string {
	for _, provider := range s.chain {
		content, err := provider.Generate(ctx, prompt)
		if err != nil {
			switch {
			case errors.Is(err, llmprovider.ErrNotConfigured):
				slog.Info("provider not configured, skipping", "provider", provider.Name())
			case llmprovider.IsQuotaError(err):
				slog.Warn("provider quota exceeded, falling back", "provider", provider.Name(), "error", err)
			default:
				slog.Warn("provider failed, falling back", "provider", provider.Name(), "error", err)
			}
			s.countFallback(ctx)
			continue
		}

		if err := provider.Accept(content); err != nil {
			slog.Info("provider output rejected, falling back", "provider", provider.Name(), "reason", err)
			s.countFallback(ctx)
			continue
		}

		slog.Debug("provider output accepted", "provider", provider.Name(), "bytes", len(content))
		return content
	}

	// The last provider degrades to a placeholder rather than failing, so
	// this is reachable only with an empty or misbehaving chain.
	slog.Error("generation chain exhausted, using placeholder")
	return llmprovider.PlaceholderDocument(prompt)
}

func (s *GeneratorService) countFallback(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.ProviderFallbacks.Add(ctx, 1)
	}
}

func (s *GeneratorService) cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "gen:" + hex.EncodeToString(sum[:])
}

func (s *GeneratorService) cachedContent(ctx context.Context, prompt string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	data, ok, err := s.cache.Get(ctx, s.cacheKey(prompt))
	if err != nil || !ok {
		return "", false
	}
	slog.Debug("generation cache hit")
	return string(data), true
}

func (s *GeneratorService) storeContent(ctx context.Context, prompt, content string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(prompt), []byte(content), s.cacheTTL); err != nil {
		slog.Warn("generation cache store failed", "error", err)
	}
}
