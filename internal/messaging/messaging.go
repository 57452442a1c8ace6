// Package messaging drives the conversation screen: the thread list, the
// active thread's messages and the send path.
//
// The backend is authoritative throughout. Threads keep their server order,
// sent messages are appended only once the server has assigned them an id, and
// read-state fixups are one-way notifications the client does not wait on.
package messaging

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mentra-app/mentra-cli/internal/apperror"
	"github.com/mentra-app/mentra-cli/internal/model"
)

// Backend is the slice of the API this screen consumes. *api.Client satisfies
// it.
type Backend interface {
	Threads(ctx context.Context) ([]model.Thread, error)
	ThreadMessages(ctx context.Context, threadID string) ([]model.Message, error)
	MarkThreadRead(ctx context.Context, threadID string) error
	SendMessage(ctx context.Context, threadID, body string, media []string) (*model.Message, error)
}

// Session is the state of one visit to the messages screen.
type Session struct {
	backend Backend
	logger  *slog.Logger

	mu       sync.Mutex
	threads  []model.Thread
	loaded   bool
	pending  string // thread id requested before the list arrived
	active   *model.Thread
	messages []model.Message
}

// NewSession creates an empty messaging session.
func NewSession(backend Backend, logger *slog.Logger) *Session {
	return &Session{backend: backend, logger: logger}
}

// LoadThreads fetches the thread list in backend order. If a selection arrived
// before the list (a deep link), it is resolved now.
func (s *Session) LoadThreads(ctx context.Context) error {
	threads, err := s.backend.Threads(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.threads = threads
	s.loaded = true
	pending := s.pending
	s.pending = ""
	s.mu.Unlock()

	if pending != "" {
		_, err = s.Select(ctx, pending)
	}
	return err
}

// Threads returns the loaded thread list, in the order the backend sent it.
func (s *Session) Threads() []model.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threads
}

// Active returns the selected thread, or nil.
func (s *Session) Active() *model.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Messages returns the active thread's messages, oldest first.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages
}

// Select activates the thread with the given id and loads its messages. If
// the thread list has not loaded yet the selection is parked until it does.
// An id absent from the loaded list is silently ignored; selected reports
// whether a thread was actually activated.
func (s *Session) Select(ctx context.Context, threadID string) (selected bool, err error) {
	s.mu.Lock()
	if !s.loaded {
		s.pending = threadID
		s.mu.Unlock()
		return false, nil
	}
	var thread *model.Thread
	for i := range s.threads {
		if s.threads[i].ID == threadID {
			thread = &s.threads[i]
			break
		}
	}
	s.mu.Unlock()

	if thread == nil {
		return false, nil
	}

	messages, err := s.backend.ThreadMessages(ctx, threadID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.active = thread
	s.messages = messages
	s.mu.Unlock()

	// Fire-and-forget: the conversation is usable whether or not the
	// read receipt lands.
	go func() {
		if err := s.backend.MarkThreadRead(context.WithoutCancel(ctx), threadID); err != nil {
			s.logger.Debug("mark thread read failed", "thread", threadID, "error", err)
		}
	}()

	return true, nil
}

// Send posts body to the active thread and appends the server's echo, which
// carries the authoritative id and timestamp. On failure nothing is appended,
// so the caller can keep the compose input intact and retry.
func (s *Session) Send(ctx context.Context, body string) (*model.Message, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, apperror.ValidationFailed("message body is empty")
	}

	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active == nil {
		return nil, apperror.ValidationFailed("no thread selected")
	}

	msg, err := s.backend.SendMessage(ctx, active.ID, trimmed, nil)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.messages = append(s.messages, *msg)
	s.mu.Unlock()
	return msg, nil
}
