package oqpi

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured-logging facade worker events (priority-mismatch
// re-enqueues, hints that could not be applied) are emitted through: a
// logiface.Logger parameterized over stumpy's Event type. Because the
// alias fixes the event type to *stumpy.Event, a logger built on another
// logiface backend does not have this type.
type Logger = *logiface.Logger[*stumpy.Event]

var defaultLogger atomic.Pointer[Logger]
var defaultLoggerOnce sync.Once

// newDisabledLogger builds a logger whose level is LevelDisabled, so every
// call site's Debug()/Warning()/etc returns a builder that short-circuits
// on Enabled() without ever touching stumpy's writer. This is oqpi's
// zero-cost default: logging costs nothing until a host opts in.
func newDisabledLogger() Logger {
	return stumpy.L.New(stumpy.L.WithLevel(logiface.LevelDisabled))
}

func defaultLoggerInstance() Logger {
	defaultLoggerOnce.Do(func() {
		l := newDisabledLogger()
		defaultLogger.Store(&l)
	})
	return *defaultLogger.Load()
}

// SetDefaultLogger swaps the package-wide default logger used by
// schedulers constructed without an explicit WithSchedulerLogger option. It must
// be called before any affected Scheduler is constructed.
func SetDefaultLogger(l Logger) {
	defaultLoggerOnce.Do(func() {})
	defaultLogger.Store(&l)
}

// logger returns s's configured logger, falling back to the package
// default. Never nil.
func (s *Scheduler) logger() Logger {
	if s.log != nil {
		return s.log
	}
	return defaultLoggerInstance()
}
