package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pagesmith"

// Metrics holds all pagesmith metric instruments.
type Metrics struct {
	TasksAccepted     metric.Int64Counter
	TasksCompleted    metric.Int64Counter
	TasksFailed       metric.Int64Counter
	ProviderFallbacks metric.Int64Counter
	CallbackFailures  metric.Int64Counter
	TaskDuration      metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksAccepted, err = meter.Int64Counter("pagesmith.tasks.accepted",
		metric.WithDescription("Number of tasks accepted for processing"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("pagesmith.tasks.completed",
		metric.WithDescription("Number of tasks completed"))
	if err != nil {
		return nil, err
	}

	m.TasksFailed, err = meter.Int64Counter("pagesmith.tasks.failed",
		metric.WithDescription("Number of tasks failed"))
	if err != nil {
		return nil, err
	}

	m.ProviderFallbacks, err = meter.Int64Counter("pagesmith.provider.fallbacks",
		metric.WithDescription("Number of generation provider fallthroughs"))
	if err != nil {
		return nil, err
	}

	m.CallbackFailures, err = meter.Int64Counter("pagesmith.callback.failures",
		metric.WithDescription("Number of exhausted callback deliveries"))
	if err != nil {
		return nil, err
	}

	m.TaskDuration, err = meter.Float64Histogram("pagesmith.task.duration_seconds",
		metric.WithDescription("Task pipeline duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
