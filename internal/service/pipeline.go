package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagesmith/pagesmith/internal/adapter/otel"
	"github.com/pagesmith/pagesmith/internal/domain/site"
	"github.com/pagesmith/pagesmith/internal/domain/task"
)

// PipelineService runs one accepted request through generate, publish and
// notify in order. Steps are strictly sequential; a failure in
// generation or publishing terminates the task and the callback is never
// invoked. Retries exist only inside callback delivery.
//
// There is deliberately no per-repository mutual exclusion: two concurrent
// revisions of the same (task, nonce) interleave their file updates
// last-write-wins, matching the behavior this service replaces.
type PipelineService struct {
	generator *GeneratorService
	publisher *PublisherService
	callback  *CallbackService
	metrics   *otel.Metrics
}

// NewPipelineService creates a PipelineService. metrics may be nil.
func NewPipelineService(g *GeneratorService, p *PublisherService, c *CallbackService, m *otel.Metrics) *PipelineService {
	return &PipelineService{
		generator: g,
		publisher: p,
		callback:  c,
		metrics:   m,
	}
}

// Build processes a round-1 request: generate the site, create the
// repository, and notify the evaluation callback.
func (s *PipelineService) Build(ctx context.Context, taskID string, req task.Request) {
	s.run(ctx, taskID, "build", req, func(ctx context.Context, name string, files site.FileSet) (PublishResult, error) {
		return s.publisher.Publish(ctx, name, files)
	})
}

// Revise processes a round-2+ request against the repository derived from
// the same (task, nonce) pair as the original build.
func (s *PipelineService) Revise(ctx context.Context, taskID string, req task.Request) {
	s.run(ctx, taskID, "revise", req, func(ctx context.Context, name string, files site.FileSet) (PublishResult, error) {
		return s.publisher.Update(ctx, name, files, req.Round)
	})
}

func (s *PipelineService) run(
	ctx context.Context,
	taskID, kind string,
	req task.Request,
	publish func(ctx context.Context, name string, files site.FileSet) (PublishResult, error),
) {
	started := time.Now()
	ctx, span := otel.StartTaskSpan(ctx, taskID, kind)
	defer span.End()

	slog.Info("task processing started", "task_id", taskID, "kind", kind, "task", req.Task)

	files, err := s.generateStep(ctx, req)
	if err != nil {
		s.fail(ctx, taskID, "generating", err)
		return
	}

	name := task.RepoName(req.Task, req.Nonce)
	result, err := s.publishStep(ctx, name, files, publish)
	if err != nil {
		s.fail(ctx, taskID, "publishing", err)
		return
	}

	payload := task.Result{
		Email:   req.Email,
		Task:    req.Task,
		Round:   req.Round,
		Nonce:   req.Nonce,
		RepoURL: result.RepoURL,
		// The pipeline reports the default-branch pointer label, not a
		// commit-specific identifier.
		CommitSHA: DefaultBranch,
		PagesURL:  result.PagesURL,
	}

	if s.notifyStep(ctx, req.EvaluationURL, payload) {
		slog.Info("task completed", "task_id", taskID, "repo_url", result.RepoURL)
	} else {
		slog.Error("task completed but callback delivery failed", "task_id", taskID)
		if s.metrics != nil {
			s.metrics.CallbackFailures.Add(ctx, 1)
		}
	}

	if s.metrics != nil {
		s.metrics.TasksCompleted.Add(ctx, 1)
		s.metrics.TaskDuration.Record(ctx, time.Since(started).Seconds())
	}
}

func (s *PipelineService) generateStep(ctx context.Context, req task.Request) (site.FileSet, error) {
	ctx, span := otel.StartStepSpan(ctx, "generate")
	defer span.End()
	return s.generator.Generate(ctx, req.Brief, req.Checks, req.Attachments)
}

func (s *PipelineService) publishStep(
	ctx context.Context,
	name string,
	files site.FileSet,
	publish func(ctx context.Context, name string, files site.FileSet) (PublishResult, error),
) (PublishResult, error) {
	ctx, span := otel.StartStepSpan(ctx, "publish")
	defer span.End()
	return publish(ctx, name, files)
}

func (s *PipelineService) notifyStep(ctx context.Context, url string, payload task.Result) bool {
	ctx, span := otel.StartStepSpan(ctx, "notify")
	defer span.End()
	return s.callback.Notify(ctx, url, payload)
}

// fail terminates the task. No retry, no callback: downstream failures are
// observable only through logs.
func (s *PipelineService) fail(ctx context.Context, taskID, step string, err error) {
	slog.Error("task failed", "task_id", taskID, "step", step, "error", err)
	if s.metrics != nil {
		s.metrics.TasksFailed.Add(ctx, 1)
	}
}
