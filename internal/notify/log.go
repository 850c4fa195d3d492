package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/zakat"
)

// LogNotifier writes reminders to the log. Used when no broker is configured.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyObligated(_ context.Context, a zakat.Assessment) error {
	n.logger.WithFields(logrus.Fields{
		"owner":  a.Owner,
		"wealth": a.Wealth.StringFixed(2),
		"nisab":  a.Nisab.StringFixed(2),
		"due":    a.Due.StringFixed(2),
	}).Warn("Zakat.Reminder.Obligated")
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
