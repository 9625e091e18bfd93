// Package oqpi is a task-scheduling library for compute-heavy applications
// that need to saturate CPU cores with short-lived work.
//
// # Architecture
//
// Clients submit individual units of work ([NewTask]) or composite structures
// ([ParallelGroup], [SequenceGroup]) to a [Scheduler], which owns a pool of
// [Worker] goroutines draining a shared, priority-matched queue. A
// [ParallelFor] construct layers data-parallel iteration over integer ranges
// on top of the scheduler, using a [partition.Partitioner] to split work.
//
// # Task lifecycle
//
//	created -> (added to group) -> queued -> grabbed -> executing -> done
//
// A task executes at most once: workers race to grab it via an atomic
// compare-and-swap, and the loser silently skips execution. Completion is
// observed through a [Handle], which may be waited on (waitable tasks only)
// or queried for its typed result.
//
// # Priority
//
// Tasks carry a [Priority]; workers carry a [WorkerPriorityMask] describing
// which priorities they accept. The scheduler does not maintain per-priority
// queues — a worker that pops a task it cannot run re-enqueues it and wakes
// a peer, per the design in [Scheduler.Add].
//
// # Usage
//
//	sched := oqpi.NewScheduler()
//	sched.RegisterWorker(oqpi.WorkerConfig{
//	    ThreadAttributes: oqpi.ThreadAttributes{Name: "worker"},
//	    PriorityMask:     oqpi.WorkerPriorityAny,
//	    Count:            4,
//	})
//	sched.Start()
//	defer sched.Stop()
//
//	h := oqpi.Schedule(sched, oqpi.NewTask("fib", oqpi.PriorityNormal, func(ctx context.Context) (int, error) {
//	    return fib(30), nil
//	}))
//	result, err := oqpi.WaitForResult(h)
//
// # Thread safety
//
//   - [Scheduler.Add], [Worker] wake-up, and the shared queue are safe to use
//     from any goroutine.
//   - A task executes on whichever worker grabs it (or, via
//     [Handle.ActiveWait], on the waiting caller's own goroutine).
//   - Groups are not safe for concurrent [ParallelGroup.AddTask] /
//     [SequenceGroup.AddTask] calls; composition must complete before
//     scheduling.
package oqpi
