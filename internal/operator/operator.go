package operator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// Operator is a worker draining the shared queue. Balance updates are read-modify-write, so
// every operator of a delegator holds writeMu for the lifetime of its writer.
type Operator struct {
	storage *storage.Storage
	queue   <-chan ActionItem
	writeMu *sync.Mutex
	logger  logrus.FieldLogger
}

func NewOperator(s *storage.Storage, queue <-chan ActionItem, writeMu *sync.Mutex, logger logrus.FieldLogger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		writeMu: writeMu,
		logger:  logger,
	}
}

// Run processes items until the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) error {
	// The caller may have given up while the item sat in the queue. Once claimed the item runs to
	// completion and the caller waits for it.
	if item.ctx.Err() != nil {
		item.abandon()
	}
	if !item.claim() {
		return item.ctx.Err()
	}
	ctx := context.WithoutCancel(item.ctx)

	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	start := time.Now()
	entry := o.logger.WithField("action", actionName(item.action))

	writer, err := o.storage.Write(ctx)
	if err != nil {
		entry.WithError(err).Error("Operator.Write.Error")
		return err
	}

	if err := item.action.Perform(ctx, writer); err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			entry.WithError(rbErr).Error("Operator.Rollback.Error")
			return errors.Join(err, rbErr)
		}
		entry.WithError(err).Debug("Operator.Action.RolledBack")
		return err
	}

	if err := writer.Commit(); err != nil {
		entry.WithError(err).Error("Operator.Commit.Error")
		return fmt.Errorf("commit %s: %w", actionName(item.action), err)
	}

	entry.WithFields(logrus.Fields{
		"version":    o.storage.Version(),
		"durationMs": time.Since(start).Milliseconds(),
	}).Debug("Operator.Action.Committed")
	return nil
}

func actionName(a actions.IAction) string {
	name := fmt.Sprintf("%T", a)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

const (
	itemQueued int32 = iota
	itemClaimed
	itemAbandoned
)

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
	state    *atomic.Int32
}

func newActionItem(ctx context.Context, action actions.IAction) ActionItem {
	return ActionItem{
		ctx:      ctx,
		action:   action,
		response: make(chan ActionItemResponse, 1),
		state:    new(atomic.Int32),
	}
}

// claim marks the item as taken by a worker. It fails if the caller abandoned it first.
func (i ActionItem) claim() bool {
	return i.state.CompareAndSwap(itemQueued, itemClaimed)
}

// abandon marks the item as given up by its caller. It fails if a worker claimed it first.
func (i ActionItem) abandon() bool {
	return i.state.CompareAndSwap(itemQueued, itemAbandoned)
}

type ActionItemResponse struct {
	err error
}
