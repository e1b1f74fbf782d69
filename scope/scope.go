package scope

import (
	"context"
	"sync"
)

// Scope is a reference-counted cancellation scope. It is Unobserved while
// its observer count is zero and Observed otherwise; only an Observed scope
// holds live tasks. All methods are safe for concurrent use.
//
// A Scope must be created with New and must not be copied.
type Scope struct {
	base context.Context

	mu        sync.Mutex
	observers int
	anon      []*task
	keyed     map[any]*task

	opts Options
	obs  Observer
	lim  Limiter
}

// New creates an empty, Unobserved scope. Task contexts derive from parent
// unless a submission overrides that.
func New(parent context.Context, optFns ...Option) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	s := &Scope{base: parent, keyed: make(map[any]*task), opts: defaultOptions()}
	for _, fn := range optFns {
		fn(&s.opts)
	}
	s.obs = s.opts.Observer
	if s.opts.MaxConcurrency > 0 {
		s.lim = newSemaphoreLimiter(s.opts.MaxConcurrency)
	}
	return s
}

// Observers reports the current observer count.
func (s *Scope) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observers
}

// Tasks reports the number of task handles the scope currently holds,
// anonymous and keyed combined.
func (s *Scope) Tasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.anon) + len(s.keyed)
}

// Activate records one observer becoming active. The count only grows here,
// so the flush check is a no-op.
func (s *Scope) Activate() {
	s.mu.Lock()
	s.observers++
	n := s.observers
	s.mu.Unlock()
	if s.obs != nil {
		s.obs.ScopeActivated(s.base, n)
	}
}

// Deactivate records one observer becoming inactive. When the count reaches
// zero every held task is cancelled and both collections are cleared,
// synchronously with the count change. A Deactivate without a matching
// Activate clamps the count to zero; under WithStrict it panics instead.
func (s *Scope) Deactivate() {
	s.mu.Lock()
	s.observers--
	underflow := s.observers < 0
	if underflow {
		s.observers = 0
	}
	n := s.observers
	var cancelled int
	if n == 0 {
		cancelled = s.flushLocked()
	}
	s.mu.Unlock()

	if s.obs != nil {
		s.obs.ScopeDeactivated(s.base, n)
		if underflow {
			s.obs.CountUnderflow(s.base)
		} else if n == 0 {
			s.obs.ScopeFlushed(s.base, cancelled)
		}
	}
	if underflow && s.opts.Strict {
		panic("scope: Deactivate without matching Activate")
	}
}

// Submit dispatches fn as an owned asynchronous task. While the scope is
// Unobserved the work is discarded without dispatch; submitting against a
// deactivation is a legitimate race, not an error. With WithKey, any prior
// task under the same key is cancelled strictly before the replacement
// dispatches. Submit is fire-and-forget: completion and failure of fn are
// not observable through the scope.
func (s *Scope) Submit(fn func(ctx context.Context), optFns ...SubmitOption) {
	if fn == nil {
		return
	}
	var cfg SubmitOptions
	for _, o := range optFns {
		o(&cfg)
	}

	s.mu.Lock()
	if s.observers == 0 {
		s.mu.Unlock()
		if s.obs != nil {
			s.obs.TaskDiscarded(s.base, TaskInfo{Key: cfg.Key, Mode: cfg.Mode, Priority: cfg.Priority})
		}
		return
	}
	var superseded *task
	if cfg.Key != nil {
		if prev, ok := s.keyed[cfg.Key]; ok {
			// Cancel before the replacement exists, let alone dispatches.
			prev.Cancel()
			superseded = prev
		}
	}
	t := newTask(s.taskBase(cfg), cfg)
	if cfg.Key != nil {
		s.keyed[cfg.Key] = t
	} else {
		s.anon = append(s.anon, t)
	}
	s.mu.Unlock()

	if superseded != nil && s.obs != nil {
		s.obs.TaskSuperseded(s.base, superseded.info, t.info)
	}
	t.start(s, fn)
	if cfg.Mode == ModeImmediate {
		<-t.running
	}
}

func (s *Scope) taskBase(cfg SubmitOptions) context.Context {
	if cfg.Mode == ModeDetached {
		return context.Background()
	}
	if cfg.Base != nil {
		return cfg.Base
	}
	return s.base
}

// flushLocked cancels and drops every held task. Caller holds s.mu.
func (s *Scope) flushLocked() int {
	n := len(s.anon) + len(s.keyed)
	for _, t := range s.anon {
		t.Cancel()
	}
	s.anon = nil
	for _, t := range s.keyed {
		t.Cancel()
	}
	clear(s.keyed)
	return n
}

// remove drops a finished task's handle so a long-lived Observed scope does
// not accumulate dead entries. Keyed removal is identity-checked: a handle
// already superseded under its key must not evict its replacement.
func (s *Scope) remove(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.info.Key != nil {
		if cur, ok := s.keyed[t.info.Key]; ok && cur == t {
			delete(s.keyed, t.info.Key)
		}
		return
	}
	for i, a := range s.anon {
		if a == t {
			s.anon = append(s.anon[:i], s.anon[i+1:]...)
			return
		}
	}
}
