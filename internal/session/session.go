// Package session owns the authenticated identity for the lifetime of the
// process.
//
// The store is the single writer of the persisted token: login and token
// adoption write it, logout removes it, and a failed restore discards it. All
// other packages read authentication state through Snapshot or the
// api.TokenSource implementation and never touch persistence directly.
//
// WHY IS RESTORE SINGLE-FLIGHT?
// Several components may ask for the session at startup (routing, the
// notification poller, the first command). If each triggered its own
// GET /auth/me the backend would see a burst of identical probes and the
// callers could observe different answers. A sync.Once plus a "restored"
// channel means the first caller does the work, everyone else blocks on the
// channel, and all of them wake to the same settled phase.
//
// WHY CHECK THE JWT LOCALLY BEFORE CALLING THE BACKEND?
// The token's exp claim is readable without the signing key (ParseUnverified
// decodes, it does not authenticate). A token that is already expired cannot
// possibly restore a session, so spending a network round trip on it only
// delays the anonymous verdict. This is an optimization, never a grant:
// a token that passes the local check still has to survive GET /auth/me.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mentra-app/mentra-cli/internal/api"
	"github.com/mentra-app/mentra-cli/internal/apperror"
	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/store"
)

// Service is the slice of the backend the session store needs. *api.Client
// satisfies it; tests plug in fakes.
type Service interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	// Probe resolves a candidate token into an identity (GET /auth/me with
	// that token), without touching the client's usual token source.
	Probe(ctx context.Context, token string) (*model.Identity, error)
}

// Phase is the lifecycle state of the session.
type Phase int

const (
	// PhaseUnknown means Restore has not been called yet. Routing must not
	// make authentication decisions in this phase.
	PhaseUnknown Phase = iota
	// PhaseRestoring means a restore is in flight.
	PhaseRestoring
	// PhaseAuthenticated means a verified identity is held.
	PhaseAuthenticated
	// PhaseAnonymous means there is no usable session.
	PhaseAnonymous
)

// Snapshot is an immutable view of the session for routing decisions.
type Snapshot struct {
	Phase    Phase
	Identity *model.Identity
}

// Authenticated reports whether the snapshot carries a verified identity.
func (s Snapshot) Authenticated() bool { return s.Phase == PhaseAuthenticated }

// Store holds the current identity and keeps the persisted token in sync.
type Store struct {
	svc    Service
	kv     *store.Store
	logger *slog.Logger

	mu       sync.Mutex
	phase    Phase
	identity *model.Identity
	token    string
	restored chan struct{} // closed when the first Restore resolves
	once     sync.Once
}

// New creates a session store in PhaseUnknown. Call Restore before routing.
func New(svc Service, kv *store.Store, logger *slog.Logger) *Store {
	return &Store{
		svc:      svc,
		kv:       kv,
		logger:   logger,
		phase:    PhaseUnknown,
		restored: make(chan struct{}),
	}
}

// Token implements api.TokenSource.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Phase: s.phase, Identity: s.identity}
}

// Current returns the authenticated identity, or nil when anonymous.
func (s *Store) Current() *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Restore resolves the persisted token into a session exactly once per
// process. The first caller performs the work; concurrent and later callers
// wait for that resolution and share its outcome. A rejected or expired token
// is discarded so the next start skips the probe.
func (s *Store) Restore(ctx context.Context) error {
	var runErr error
	first := false
	s.once.Do(func() {
		first = true
		runErr = s.restore(ctx)
		close(s.restored)
	})
	if first {
		return runErr
	}

	select {
	case <-s.restored:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) restore(ctx context.Context) error {
	s.mu.Lock()
	s.phase = PhaseRestoring
	s.mu.Unlock()

	token, ok, err := s.kv.Get(store.KeyToken)
	if err != nil {
		s.settle(PhaseAnonymous, nil, "")
		return err
	}
	if !ok || token == "" {
		s.settle(PhaseAnonymous, nil, "")
		return nil
	}

	// Expired tokens are discarded locally. The signature is not checked
	// here; only the backend can vouch for the token.
	if tokenExpired(token, time.Now()) {
		s.logger.Debug("session: persisted token expired, discarding")
		_ = s.kv.Delete(store.KeyToken)
		s.settle(PhaseAnonymous, nil, "")
		return nil
	}

	identity, err := s.svc.Probe(ctx, token)
	switch {
	case err == nil:
		s.settle(PhaseAuthenticated, identity, token)
		s.logger.Info("session restored", "user", identity.Username)
		return nil
	case errors.Is(err, apperror.ErrUnauthorized):
		// The backend rejected the token. Drop it so the next start goes
		// straight to anonymous.
		_ = s.kv.Delete(store.KeyToken)
		s.settle(PhaseAnonymous, nil, "")
		return nil
	default:
		// Backend unreachable or broken. Keep the token on disk for the
		// next attempt but run this process anonymously.
		s.logger.Warn("session restore probe failed", "error", err)
		s.settle(PhaseAnonymous, nil, "")
		return err
	}
}

func (s *Store) settle(phase Phase, identity *model.Identity, token string) {
	s.mu.Lock()
	s.phase = phase
	s.identity = identity
	s.token = token
	s.mu.Unlock()
}

// Establish persists an already-validated token and its identity. No network
// call happens here; whatever produced the pair has vouched for it.
func (s *Store) Establish(token string, identity *model.Identity) error {
	if err := s.kv.Set(store.KeyToken, token); err != nil {
		return err
	}
	s.settle(PhaseAuthenticated, identity, token)
	return nil
}

// Login authenticates with credentials and persists the issued token.
func (s *Store) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	resp, err := s.svc.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.Establish(resp.Token, &resp.User); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", "user", resp.User.Username)
	return &resp.User, nil
}

// AdoptToken takes an externally issued token (the Google redirect), verifies
// it against the backend and persists it on success.
func (s *Store) AdoptToken(ctx context.Context, token string) (*model.Identity, error) {
	identity, err := s.svc.Probe(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.Establish(token, identity); err != nil {
		return nil, err
	}
	s.logger.Info("logged in via google", "user", identity.Username)
	return identity, nil
}

// Logout drops the session and every per-user flag, so the next user on this
// machine starts clean.
func (s *Store) Logout() error {
	err := s.kv.Delete(store.KeyToken, store.KeyLandingSeen)
	s.settle(PhaseAnonymous, nil, "")
	s.logger.Info("logged out")
	return err
}

// SetIdentity replaces the cached identity after a profile mutation. The
// session must already be authenticated.
func (s *Store) SetIdentity(identity *model.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAuthenticated {
		s.identity = identity
	}
}

// tokenExpired decodes the claims without verifying the signature and reports
// whether exp is in the past. Unparseable tokens are treated as live and left
// to the backend probe.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
