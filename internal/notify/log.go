package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, att := range msg.Attachments {
		names = append(names, att.Filename)
	}
	n.logger.WithFields(logrus.Fields{
		"from":        msg.From,
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": names,
	}).Infof("notification (log driver):\n%s", msg.Body)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
