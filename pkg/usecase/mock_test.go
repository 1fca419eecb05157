package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/m-mizutani/webship/pkg/domain/interfaces"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

// MockShell records commands and fails those matching failOn
type MockShell struct {
	mu       sync.Mutex
	commands []model.Command
	failOn   string
}

func (m *MockShell) Run(ctx context.Context, cmd model.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	if m.failOn != "" && strings.Contains(cmd.Line, m.failOn) {
		return errors.New("exit status 1")
	}
	return nil
}

func (m *MockShell) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.commands))
	for i, c := range m.commands {
		lines[i] = c.Line
	}
	return lines
}

// MockDialer hands out MockSessions and records every dial
type MockDialer struct {
	dialed   []model.Host
	options  []model.SSHOptions
	sessions []*MockSession
	failOn   string
	dialErr  error
}

func (m *MockDialer) Dial(ctx context.Context, host model.Host, opt model.SSHOptions) (interfaces.RemoteSession, error) {
	m.dialed = append(m.dialed, host)
	m.options = append(m.options, opt)
	if m.dialErr != nil {
		return nil, m.dialErr
	}
	s := &MockSession{host: host, failOn: m.failOn, uploads: map[string]string{}}
	m.sessions = append(m.sessions, s)
	return s, nil
}

type MockSession struct {
	host     model.Host
	commands []string
	uploads  map[string]string
	failOn   string
	closed   bool
}

func (m *MockSession) Run(ctx context.Context, line string) error {
	m.commands = append(m.commands, line)
	if m.failOn != "" && strings.Contains(line, m.failOn) {
		return errors.New("remote exit status 2")
	}
	return nil
}

func (m *MockSession) Upload(ctx context.Context, src io.Reader, dst string) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	m.uploads[dst] = string(data)
	return nil
}

func (m *MockSession) Close() error {
	m.closed = true
	return nil
}

// MockPrompter answers questions in order; missing answers are "yes"
type MockPrompter struct {
	answers   []bool
	questions []string
}

func (m *MockPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	m.questions = append(m.questions, question)
	if len(m.answers) == 0 {
		return true, nil
	}
	answer := m.answers[0]
	m.answers = m.answers[1:]
	return answer, nil
}

type MockNotifier struct {
	notifications []*model.Notification
}

func (m *MockNotifier) Notify(ctx context.Context, n *model.Notification) error {
	m.notifications = append(m.notifications, n)
	return nil
}

type MockRevisionReader struct {
	revision *model.Revision
	err      error
	dirs     []string
}

func (m *MockRevisionReader) Head(ctx context.Context, dir string) (*model.Revision, error) {
	m.dirs = append(m.dirs, dir)
	if m.err != nil {
		return nil, m.err
	}
	return m.revision, nil
}
