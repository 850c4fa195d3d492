package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

const queueSize = 1000

// ErrStopped is returned by Process once Stop has been called.
var ErrStopped = errors.New("operator: stopped")

// OperatorDelegator owns the write queue and the Operators draining it. All account and
// transaction writes go through Process.
type OperatorDelegator struct {
	storage    *storage.Storage
	logger     logrus.FieldLogger
	queue      chan ActionItem
	numWorkers int
	writeMu    sync.Mutex
	wg         sync.WaitGroup

	// mu guards stopped and the queue close against concurrent sends.
	mu      sync.RWMutex
	stopped bool
}

func NewOperatorDelegator(s *storage.Storage, numWorkers int, logger logrus.FieldLogger) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OperatorDelegator{
		storage:    s,
		logger:     logger,
		queue:      make(chan ActionItem, queueSize),
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queue, &d.writeMu, d.logger.WithField("worker", i))
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
	d.logger.WithField("workers", d.numWorkers).Info("OperatorDelegator.Start.Running")
}

// Stop closes the queue and waits for queued items to finish. Safe to call more than once.
func (d *OperatorDelegator) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("OperatorDelegator.Stop.Drained")
}

// Process queues action and waits for its outcome. If ctx ends before a worker picks the action
// up, the action is skipped and ctx.Err() is returned. Once a worker has it, Process waits for
// the real outcome regardless of ctx, so a nil error always means the write committed.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item := newActionItem(ctx, action)

	if err := d.enqueue(ctx, item); err != nil {
		return err
	}

	select {
	case resp := <-item.response:
		return resp.err
	case <-ctx.Done():
		if item.abandon() {
			return ctx.Err()
		}
		resp := <-item.response
		return resp.err
	}
}

func (d *OperatorDelegator) enqueue(ctx context.Context, item ActionItem) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
