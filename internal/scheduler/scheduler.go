// Package scheduler runs the periodic gold price refresh and zakat reminder sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 2 * time.Minute

// Job is one periodic unit of work.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	logger logrus.FieldLogger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(logger logrus.FieldLogger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	cronLogger := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under a standard cron spec or @descriptor.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s with %q: %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	entry := s.logger.WithFields(logrus.Fields{
		"job":      name,
		"duration": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("Scheduler.Job.Error")
		return
	}
	entry.Info("Scheduler.Job.Complete")
}

// RunAll runs every registered job once, in registration order.
func (s *Scheduler) RunAll() {
	for _, e := range s.cron.Entries() {
		e.WrappedJob.Run()
	}
}

func (s *Scheduler) Start() {
	s.logger.WithField("jobs", len(s.cron.Entries())).Info("Scheduler.Start")
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler.Stop")
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	logger logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug("Scheduler.Cron." + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).WithError(err).Error("Scheduler.Cron." + msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
