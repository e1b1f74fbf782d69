// Package scopelog logs scope activity through logrus. Logger implements
// the scope.Observer interface.
package scopelog

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NetPo4ki/go-refscope/scope"
)

// Logger is a scope.Observer that emits structured log entries. Routine
// events log at debug level; count underflow logs at warn and task panics
// at error.
type Logger struct {
	log logrus.FieldLogger
}

// New wraps log as an observer. A nil log falls back to the logrus
// standard logger.
func New(log logrus.FieldLogger) *Logger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{log: log}
}

func taskFields(info scope.TaskInfo) logrus.Fields {
	f := logrus.Fields{
		"task_id":  info.ID,
		"mode":     info.Mode.String(),
		"priority": info.Priority.String(),
	}
	if info.Key != nil {
		f["key"] = info.Key
	}
	return f
}

func (l *Logger) ScopeActivated(_ context.Context, observers int) {
	l.log.WithField("observers", observers).Debug("scope activated")
}

func (l *Logger) ScopeDeactivated(_ context.Context, observers int) {
	l.log.WithField("observers", observers).Debug("scope deactivated")
}

func (l *Logger) ScopeFlushed(_ context.Context, cancelled int) {
	l.log.WithField("cancelled", cancelled).Debug("scope flushed")
}

func (l *Logger) CountUnderflow(_ context.Context) {
	l.log.Warn("deactivate without matching activate; observer count clamped to zero")
}

func (l *Logger) TaskStarted(_ context.Context, info scope.TaskInfo) {
	l.log.WithFields(taskFields(info)).Debug("task started")
}

func (l *Logger) TaskDiscarded(_ context.Context, info scope.TaskInfo) {
	l.log.WithFields(taskFields(info)).Debug("task discarded while unobserved")
}

func (l *Logger) TaskSuperseded(_ context.Context, prev, next scope.TaskInfo) {
	l.log.WithFields(logrus.Fields{
		"key":          next.Key,
		"prev_task_id": prev.ID,
		"task_id":      next.ID,
	}).Debug("keyed task superseded")
}

func (l *Logger) TaskFinished(_ context.Context, info scope.TaskInfo, dur time.Duration, panicked bool) {
	entry := l.log.WithFields(taskFields(info)).WithField("duration", dur)
	if panicked {
		entry.Error("task panicked")
		return
	}
	entry.Debug("task finished")
}
