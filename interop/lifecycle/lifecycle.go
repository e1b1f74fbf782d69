// Package lifecycle binds observer lifetimes to a scope. It is the glue
// between an external visibility signal (a context, a UI appearance, a
// session) and the scope's Activate/Deactivate protocol, guaranteeing the
// calls stay strictly paired even when release paths race.
package lifecycle

import (
	"context"
	"sync"

	"github.com/NetPo4ki/go-refscope/scope"
)

// Attach activates s on behalf of one observer and returns a release
// function that deactivates it. The observer is also released automatically
// when ctx ends. Release is idempotent: no matter how many of these paths
// fire, s sees exactly one Deactivate per Attach.
func Attach(ctx context.Context, s *scope.Scope) (release func()) {
	var once sync.Once
	s.Activate()
	deactivate := func() { once.Do(s.Deactivate) }
	if ctx == nil {
		return deactivate
	}
	stop := context.AfterFunc(ctx, deactivate)
	return func() {
		stop()
		deactivate()
	}
}

// While runs fn with s observed: it activates s, invokes fn, and
// deactivates on the way out even if fn panics.
func While(s *scope.Scope, fn func()) {
	s.Activate()
	defer s.Deactivate()
	fn()
}
