// Package scope provides a reference-counted cancellation scope for Go.
// A Scope counts activation signals from external observers and owns the
// asynchronous tasks submitted to it. While at least one observer is
// active, submitted tasks run. When the last observer deactivates, every
// owned task is cancelled and the set is cleared. Tasks submitted while no
// observer is active are discarded without ever running.
package scope
