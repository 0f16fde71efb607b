package review

import (
	"context"
	"sync"

	"github.com/smith3v/study-scheduler/pkg/config"
	"github.com/smith3v/study-scheduler/pkg/logger"
)

// Dispatcher runs reconciliation tasks on background workers with their own
// database access, decoupled from the request that enqueued them. The config
// it was built with decides whether background work happens at all.
type Dispatcher struct {
	cfg   config.ReconcileConfig
	tasks chan ReconcileContext
	wg    sync.WaitGroup
}

func NewDispatcher(cfg config.ReconcileConfig) *Dispatcher {
	d := &Dispatcher{cfg: cfg}
	if cfg.Enabled {
		size := cfg.QueueSize
		if size <= 0 {
			size = 256
		}
		d.tasks = make(chan ReconcileContext, size)
	}
	return d
}

func (d *Dispatcher) Start(ctx context.Context) {
	if d == nil || !d.cfg.Enabled {
		return
	}
	workers := d.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
}

// Enqueue hands a task to the workers without blocking. A disabled
// dispatcher or a full queue drops the task; the drift-correction sweep is
// the safety net for dropped work, so this only logs.
func (d *Dispatcher) Enqueue(rc ReconcileContext) bool {
	if d == nil || !d.cfg.Enabled {
		logger.Debug("reconciliation disabled, dropping task", "event_id", rc.EventID)
		return false
	}
	select {
	case d.tasks <- rc:
		// Per-answer, so skip building the attrs unless debug is on.
		if logger.Enabled(logger.DEBUG) {
			logger.Debug("reconciliation task enqueued",
				"event_id", rc.EventID, "queued", len(d.tasks), "capacity", cap(d.tasks))
		}
		return true
	default:
		logger.Error("reconciliation queue full, dropping task",
			"event_id", rc.EventID, "user_id", rc.UserID)
		return false
	}
}

// Wait blocks until all workers have exited. Call after cancelling the
// context passed to Start.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case rc := <-d.tasks:
			runTask(rc)
		}
	}
}

// drain runs whatever is still buffered when the context is cancelled. An
// accepted enqueue either runs or fails loudly inside runTask; it is never
// discarded at shutdown.
func (d *Dispatcher) drain() {
	for {
		select {
		case rc := <-d.tasks:
			runTask(rc)
		default:
			return
		}
	}
}

// runTask swallows all errors: by the time a task runs the user-visible
// response is long gone, so there is no one to propagate to.
func runTask(rc ReconcileContext) {
	if err := Reconcile(rc); err != nil {
		logger.Error("reconciliation task failed",
			"event_id", rc.EventID,
			"user_id", rc.UserID,
			"domain", rc.Domain,
			"item_id", rc.ItemID,
			"error", err)
	}
}
