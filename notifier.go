package oqpi

import (
	"time"

	"github.com/oqpi-go/oqpi/oqsync"
)

// notifier is the completion signal a task carries, chosen once at
// construction by task type. Fire-and-forget tasks carry a no-op
// notifier; waitable tasks carry one backed by a manual-reset event,
// whose semantics guarantee that late waiters still observe completion.
type notifier interface {
	notify()
	wait() error
	waitFor(d time.Duration) (bool, error)
}

// noopNotifier is used by fire-and-forget tasks. Waiting on one is a
// programmer error.
type noopNotifier struct{}

func (noopNotifier) notify()                             {}
func (noopNotifier) wait() error                         { return ErrWaitOnFireAndForget }
func (noopNotifier) waitFor(time.Duration) (bool, error) { return false, ErrWaitOnFireAndForget }

// eventNotifier backs waitable tasks with a manual-reset event.
type eventNotifier struct {
	event *oqsync.ManualResetEvent
}

func newEventNotifier() *eventNotifier {
	e, _ := oqsync.NewManualResetEvent("", oqsync.CreateIfNonexistent)
	return &eventNotifier{event: e}
}

func (n *eventNotifier) notify() {
	n.event.Notify()
}

func (n *eventNotifier) wait() error {
	n.event.Wait()
	return nil
}

func (n *eventNotifier) waitFor(d time.Duration) (bool, error) {
	return n.event.WaitFor(d), nil
}
