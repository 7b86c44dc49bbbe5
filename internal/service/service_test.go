package service

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"talent-portal/internal/notify"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	ctxs []context.Context
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	n.ctxs = append(n.ctxs, ctx)
	return n.err
}

func (n *recordingNotifier) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.sent...)
}

type recordingScheduler struct {
	mu    sync.Mutex
	paths []string
}

func (s *recordingScheduler) Schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

func (s *recordingScheduler) scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

func (s *recordingScheduler) Shutdown() {}
