package otel

import (
	"context"
	"time"

	"github.com/NetPo4ki/go-refscope/scope"
)

// Nop is a no-op implementation of the scope.Observer interface.
// It serves as a placeholder for an OpenTelemetry-backed observer without
// adding dependencies.
type Nop struct{}

// NewNop returns a no-op observer.
func NewNop() *Nop { return &Nop{} }

func (*Nop) ScopeActivated(context.Context, int)                               {}
func (*Nop) ScopeDeactivated(context.Context, int)                             {}
func (*Nop) ScopeFlushed(context.Context, int)                                 {}
func (*Nop) CountUnderflow(context.Context)                                    {}
func (*Nop) TaskStarted(context.Context, scope.TaskInfo)                       {}
func (*Nop) TaskDiscarded(context.Context, scope.TaskInfo)                     {}
func (*Nop) TaskSuperseded(context.Context, scope.TaskInfo, scope.TaskInfo)    {}
func (*Nop) TaskFinished(context.Context, scope.TaskInfo, time.Duration, bool) {}
