package scope

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// task is a handle to already-dispatched asynchronous work. Cancellation is
// request-only: cancel signals the task's context and returns without
// waiting for the body to stop.
type task struct {
	info    TaskInfo
	ctx     context.Context
	cancel  context.CancelFunc
	running chan struct{}
}

func newTask(base context.Context, cfg SubmitOptions) *task {
	ctx, cancel := context.WithCancel(base)
	return &task{
		info: TaskInfo{
			ID:       ulid.Make().String(),
			Key:      cfg.Key,
			Mode:     cfg.Mode,
			Priority: cfg.Priority,
		},
		ctx:     ctx,
		cancel:  cancel,
		running: make(chan struct{}),
	}
}

// Cancel is idempotent; cancelling twice is safe.
func (t *task) Cancel() { t.cancel() }

func (t *task) start(s *Scope, fn func(ctx context.Context)) {
	go func() {
		defer s.remove(t)
		close(t.running)
		if s.lim != nil {
			if err := s.lim.Acquire(t.ctx); err != nil {
				return
			}
			defer s.lim.Release()
		}
		// A flush may have cancelled t between insertion and here. The work
		// was dispatched while observed, so it still runs; a cooperative
		// body sees the cancelled context and returns at once.
		start := time.Now()
		if s.obs != nil {
			s.obs.TaskStarted(t.ctx, t.info)
		}
		defer func() {
			if r := recover(); r != nil {
				if s.obs != nil {
					s.obs.TaskFinished(t.ctx, t.info, time.Since(start), true)
				}
				if !s.opts.RecoverPanics {
					panic(r)
				}
				return
			}
			if s.obs != nil {
				s.obs.TaskFinished(t.ctx, t.info, time.Since(start), false)
			}
		}()
		fn(t.ctx)
	}()
}
