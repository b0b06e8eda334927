// Package gamemetrics records game module metrics.
package gamemetrics

import (
	"context"
	"time"
)

// GameMetrics is implemented by the Prometheus recorder and by NoOp.
type GameMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	RecordCalculationDuration(ctx context.Context, format string, duration time.Duration)
	RecordScoreRecorded(ctx context.Context, format string)
	RecordStandingsPublished(ctx context.Context, format string)

	RecordHandlerAttempt(ctx context.Context, handlerName string)
	RecordHandlerSuccess(ctx context.Context, handlerName string)
	RecordHandlerFailure(ctx context.Context, handlerName string)
	RecordHandlerDuration(ctx context.Context, handlerName string, duration time.Duration)

	RecordJobEnqueued(ctx context.Context, kind string)
	RecordJobCompleted(ctx context.Context, kind string, success bool)
}

// NoOp discards everything.
type NoOp struct{}

func NewNoop() GameMetrics { return NoOp{} }

func (NoOp) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoOp) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoOp) RecordOperationFailure(context.Context, string, string)                 {}
func (NoOp) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOp) RecordCalculationDuration(context.Context, string, time.Duration)       {}
func (NoOp) RecordScoreRecorded(context.Context, string)                            {}
func (NoOp) RecordStandingsPublished(context.Context, string)                       {}
func (NoOp) RecordHandlerAttempt(context.Context, string)                           {}
func (NoOp) RecordHandlerSuccess(context.Context, string)                           {}
func (NoOp) RecordHandlerFailure(context.Context, string)                           {}
func (NoOp) RecordHandlerDuration(context.Context, string, time.Duration)           {}
func (NoOp) RecordJobEnqueued(context.Context, string)                              {}
func (NoOp) RecordJobCompleted(context.Context, string, bool)                       {}
