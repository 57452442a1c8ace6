// Package notify keeps the unread badge and notification list current while a
// session is authenticated.
//
// The poller owns one background ticker. It is started when the session
// becomes authenticated and must be stopped on logout or teardown; a stopped
// poller issues no further requests. All read-state mutations follow the same
// discipline: call the endpoint, then re-fetch both the list and the count —
// the server's answer is authoritative and no local arithmetic is trusted.
package notify

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/mentra-app/mentra-cli/internal/model"
)

// DefaultInterval is how often the unread count is refreshed.
const DefaultInterval = 30 * time.Second

// Backend is the slice of the API the poller consumes. *api.Client satisfies
// it.
type Backend interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	UnreadNotificationCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// NavTarget tells the caller where opening a notification should lead.
type NavTarget struct {
	// Kind is "post", "profile" or "feed".
	Kind string
	// ID is the post id or the actor's username, empty for the feed.
	ID string
}

// Poller fetches notifications once up front and the unread count on a fixed
// interval thereafter.
type Poller struct {
	backend  Backend
	logger   *slog.Logger
	interval time.Duration

	mu    sync.Mutex
	list  []model.Notification
	count int

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides the refresh interval. Tests use millisecond values.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// New creates a stopped poller.
func New(backend Backend, logger *slog.Logger, opts ...Option) *Poller {
	p := &Poller{
		backend:  backend,
		logger:   logger,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start fetches the list and count immediately, then refreshes the count every
// interval until Stop is called or ctx is cancelled. Start is not re-entrant;
// a poller is started at most once per session.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	p.refreshList(ctx)
	p.refreshCount(ctx)

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refreshCount(ctx)
			}
		}
	}()
}

// Stop cancels the background refresh and waits for it to wind down. After
// Stop returns, no further request will be issued.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// Notifications returns the most recently fetched list.
func (p *Poller) Notifications() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list
}

// Unread returns the most recently fetched unread count.
func (p *Poller) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// BadgeText renders the unread count for display: hidden at zero, the literal
// number through nine, "9+" beyond.
func (p *Poller) BadgeText() string {
	return BadgeText(p.Unread())
}

// BadgeText is the pure rendering rule for an unread count.
func BadgeText(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 9:
		return "9+"
	default:
		return strconv.Itoa(count)
	}
}

// MarkRead marks one notification read and returns where to navigate: the
// referenced post when one is attached, the actor's profile for a follow, the
// feed otherwise. The returned target is usable immediately; the list/count
// refresh runs concurrently and is not gated on navigation.
func (p *Poller) MarkRead(ctx context.Context, n model.Notification) (NavTarget, error) {
	target := navTarget(n)
	if err := p.backend.MarkNotificationRead(ctx, n.ID); err != nil {
		return target, err
	}
	go func() {
		p.refreshList(ctx)
		p.refreshCount(ctx)
	}()
	return target, nil
}

// MarkAllRead marks everything read and re-fetches both resources before
// returning, so the caller observes the converged state.
func (p *Poller) MarkAllRead(ctx context.Context) error {
	if err := p.backend.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	p.refreshList(ctx)
	p.refreshCount(ctx)
	return nil
}

func navTarget(n model.Notification) NavTarget {
	if n.PostID != nil && *n.PostID != "" {
		return NavTarget{Kind: "post", ID: *n.PostID}
	}
	if n.Type == model.NotifyFollow && n.ActorUsername != nil {
		return NavTarget{Kind: "profile", ID: *n.ActorUsername}
	}
	return NavTarget{Kind: "feed"}
}

func (p *Poller) refreshList(ctx context.Context) {
	list, err := p.backend.Notifications(ctx)
	if err != nil {
		// A missed refresh is not user-visible; the next one catches up.
		p.logger.Debug("notification list refresh failed", "error", err)
		return
	}
	p.mu.Lock()
	p.list = list
	p.mu.Unlock()
}

func (p *Poller) refreshCount(ctx context.Context) {
	count, err := p.backend.UnreadNotificationCount(ctx)
	if err != nil {
		p.logger.Debug("unread count refresh failed", "error", err)
		return
	}
	p.mu.Lock()
	p.count = count
	p.mu.Unlock()
}
