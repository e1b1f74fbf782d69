package scope

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Observer       Observer
	MaxConcurrency int
	RecoverPanics  bool
	Strict         bool
}

func defaultOptions() Options { return Options{RecoverPanics: true} }

// WithObserver installs an instrumentation observer on the scope.
func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// WithMaxConcurrency bounds the number of concurrently running task bodies.
// Zero or negative means unbounded.
func WithMaxConcurrency(n int) Option { return func(o *Options) { o.MaxConcurrency = n } }

// WithPanicRecovery controls whether a panic inside a task body is recovered
// (and reported through the observer) or allowed to propagate. Recovery is
// on by default.
func WithPanicRecovery(v bool) Option { return func(o *Options) { o.RecoverPanics = v } }

// WithStrict makes a Deactivate without a matching Activate panic instead of
// clamping the observer count to zero. Intended for tests and debug builds.
func WithStrict(v bool) Option { return func(o *Options) { o.Strict = v } }

// Mode selects how Submit dispatches a task.
type Mode int

const (
	// ModeNormal runs the task on its own goroutine with a context derived
	// from the scope's parent context.
	ModeNormal Mode = iota
	// ModeDetached derives the task context from context.Background instead
	// of the scope's parent, so parent cancellation does not reach the task.
	ModeDetached
	// ModeImmediate is ModeNormal, but Submit returns only after the task
	// goroutine has begun executing.
	ModeImmediate
)

func (m Mode) String() string {
	switch m {
	case ModeDetached:
		return "detached"
	case ModeImmediate:
		return "immediate"
	default:
		return "normal"
	}
}

// Priority is an advisory scheduling hint carried on a task. The scope does
// not reorder work by priority; the hint is surfaced to observers.
type Priority int

const (
	PriorityLow    Priority = -1
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 1
)

func (p Priority) String() string {
	switch {
	case p < 0:
		return "low"
	case p > 0:
		return "high"
	default:
		return "normal"
	}
}

type SubmitOption func(*SubmitOptions)

type SubmitOptions struct {
	Key      any
	Mode     Mode
	Priority Priority
	Base     context.Context
}

// WithKey associates the task with a caller-supplied identity. A scope holds
// at most one live task per key; submitting under an occupied key cancels
// the prior task before the replacement dispatches. Keys must be comparable.
func WithKey(key any) SubmitOption { return func(o *SubmitOptions) { o.Key = key } }

// WithMode selects the dispatch mode.
func WithMode(m Mode) SubmitOption { return func(o *SubmitOptions) { o.Mode = m } }

// WithPriority attaches an advisory priority hint.
func WithPriority(p Priority) SubmitOption { return func(o *SubmitOptions) { o.Priority = p } }

// WithBaseContext derives the task context from ctx instead of the scope's
// parent context. Ignored by ModeDetached.
func WithBaseContext(ctx context.Context) SubmitOption {
	return func(o *SubmitOptions) { o.Base = ctx }
}

// TaskInfo identifies a task to observers.
type TaskInfo struct {
	ID       string
	Key      any
	Mode     Mode
	Priority Priority
}

// Observer receives instrumentation hooks from a scope. Implementations must
// be safe for concurrent use and must not call back into the scope.
type Observer interface {
	ScopeActivated(ctx context.Context, observers int)
	ScopeDeactivated(ctx context.Context, observers int)
	ScopeFlushed(ctx context.Context, cancelled int)
	CountUnderflow(ctx context.Context)
	TaskStarted(ctx context.Context, info TaskInfo)
	TaskDiscarded(ctx context.Context, info TaskInfo)
	TaskSuperseded(ctx context.Context, prev, next TaskInfo)
	TaskFinished(ctx context.Context, info TaskInfo, dur time.Duration, panicked bool)
}
