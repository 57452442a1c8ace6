package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentra-app/mentra-cli/internal/api"
	"github.com/mentra-app/mentra-cli/internal/apperror"
	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/store"
)

type fakeService struct {
	mu         sync.Mutex
	probeCalls int32
	probeFn    func(token string) (*model.Identity, error)
	loginFn    func(email, password string) (*api.AuthResponse, error)
}

func (f *fakeService) Probe(_ context.Context, token string) (*model.Identity, error) {
	atomic.AddInt32(&f.probeCalls, 1)
	f.mu.Lock()
	fn := f.probeFn
	f.mu.Unlock()
	if fn == nil {
		return nil, apperror.ErrUnauthorized
	}
	return fn(token)
}

func (f *fakeService) Login(_ context.Context, email, password string) (*api.AuthResponse, error) {
	if f.loginFn == nil {
		return nil, apperror.ErrUnauthorized
	}
	return f.loginFn(email, password)
}

func teacher(username string) *model.Identity {
	return &model.Identity{ID: "u1", Username: username, FullName: "Ali Hoca", Role: model.RoleTeacher}
}

func newTestStore(t *testing.T, svc *fakeService) (*Store, *store.Store) {
	t.Helper()
	kv, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(svc, kv, logger), kv
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestRestore_NoPersistedToken(t *testing.T) {
	svc := &fakeService{}
	s, _ := newTestStore(t, svc)

	err := s.Restore(context.Background())

	require.NoError(t, err)
	assert.Equal(t, PhaseAnonymous, s.Snapshot().Phase)
	assert.Zero(t, atomic.LoadInt32(&svc.probeCalls), "no token, no probe")
}

func TestRestore_ValidToken(t *testing.T) {
	svc := &fakeService{probeFn: func(token string) (*model.Identity, error) {
		assert.Equal(t, "tok-1", token)
		return teacher("ali"), nil
	}}
	s, kv := newTestStore(t, svc)
	require.NoError(t, kv.Set(store.KeyToken, "tok-1"))

	err := s.Restore(context.Background())

	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, PhaseAuthenticated, snap.Phase)
	assert.Equal(t, "ali", snap.Identity.Username)

	got, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", got)
}

func TestRestore_RunsOnce(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeService{probeFn: func(string) (*model.Identity, error) {
		<-release
		return teacher("ali"), nil
	}}
	s, kv := newTestStore(t, svc)
	require.NoError(t, kv.Set(store.KeyToken, "tok-1"))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Restore(context.Background())
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&svc.probeCalls), "restore must resolve exactly once")
	assert.Equal(t, PhaseAuthenticated, s.Snapshot().Phase)
}

func TestRestore_RejectedTokenIsDiscarded(t *testing.T) {
	svc := &fakeService{probeFn: func(string) (*model.Identity, error) {
		return nil, apperror.FromStatus(401, "Geçersiz token")
	}}
	s, kv := newTestStore(t, svc)
	require.NoError(t, kv.Set(store.KeyToken, "stale"))

	err := s.Restore(context.Background())

	require.NoError(t, err)
	assert.Equal(t, PhaseAnonymous, s.Snapshot().Phase)

	_, ok, err := kv.Get(store.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "rejected token must be removed from persistence")
}

func TestRestore_BackendDownKeepsToken(t *testing.T) {
	svc := &fakeService{probeFn: func(string) (*model.Identity, error) {
		return nil, apperror.Unavailable(errors.New("connection refused"))
	}}
	s, kv := newTestStore(t, svc)
	require.NoError(t, kv.Set(store.KeyToken, "tok-1"))

	err := s.Restore(context.Background())

	assert.Error(t, err)
	assert.Equal(t, PhaseAnonymous, s.Snapshot().Phase)

	got, ok, err := kv.Get(store.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok, "token survives an outage for the next start")
	assert.Equal(t, "tok-1", got)
}

func TestRestore_ExpiredTokenSkipsProbe(t *testing.T) {
	svc := &fakeService{}
	s, kv := newTestStore(t, svc)
	require.NoError(t, kv.Set(store.KeyToken, signedToken(t, time.Now().Add(-time.Hour))))

	err := s.Restore(context.Background())

	require.NoError(t, err)
	assert.Equal(t, PhaseAnonymous, s.Snapshot().Phase)
	assert.Zero(t, atomic.LoadInt32(&svc.probeCalls), "expired token must not hit the network")

	_, ok, err := kv.Get(store.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestore_LiveJWTIsProbed(t *testing.T) {
	svc := &fakeService{probeFn: func(string) (*model.Identity, error) {
		return teacher("ali"), nil
	}}
	s, kv := newTestStore(t, svc)
	require.NoError(t, kv.Set(store.KeyToken, signedToken(t, time.Now().Add(time.Hour))))

	require.NoError(t, s.Restore(context.Background()))

	assert.Equal(t, PhaseAuthenticated, s.Snapshot().Phase)
	assert.Equal(t, int32(1), atomic.LoadInt32(&svc.probeCalls))
}

func TestLogin_PersistsToken(t *testing.T) {
	svc := &fakeService{loginFn: func(email, password string) (*api.AuthResponse, error) {
		return &api.AuthResponse{Token: "fresh", User: *teacher("ali")}, nil
	}}
	s, kv := newTestStore(t, svc)

	identity, err := s.Login(context.Background(), "ali@mentra.app", "secret")

	require.NoError(t, err)
	assert.Equal(t, "ali", identity.Username)
	assert.Equal(t, PhaseAuthenticated, s.Snapshot().Phase)

	got, ok, err := kv.Get(store.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", got)
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	svc := &fakeService{loginFn: func(string, string) (*api.AuthResponse, error) {
		return nil, apperror.FromStatus(401, "Email veya şifre hatalı")
	}}
	s, kv := newTestStore(t, svc)

	_, err := s.Login(context.Background(), "ali@mentra.app", "wrong")

	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	_, ok, kvErr := kv.Get(store.KeyToken)
	require.NoError(t, kvErr)
	assert.False(t, ok)
}

func TestAdoptToken_VerifiesBeforePersisting(t *testing.T) {
	svc := &fakeService{probeFn: func(token string) (*model.Identity, error) {
		if token != "google-tok" {
			return nil, apperror.ErrUnauthorized
		}
		return teacher("ali"), nil
	}}
	s, kv := newTestStore(t, svc)

	identity, err := s.AdoptToken(context.Background(), "google-tok")

	require.NoError(t, err)
	assert.Equal(t, "ali", identity.Username)

	got, _, err := kv.Get(store.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "google-tok", got)
}

func TestLogout_ClearsTokenAndLandingFlag(t *testing.T) {
	svc := &fakeService{probeFn: func(string) (*model.Identity, error) {
		return teacher("ali"), nil
	}}
	s, kv := newTestStore(t, svc)
	require.NoError(t, kv.Set(store.KeyToken, "tok-1"))
	require.NoError(t, kv.Set(store.KeyLandingSeen, "true"))
	require.NoError(t, s.Restore(context.Background()))

	require.NoError(t, s.Logout())

	assert.Equal(t, PhaseAnonymous, s.Snapshot().Phase)
	assert.Nil(t, s.Current())
	_, hasToken, err := kv.Get(store.KeyToken)
	require.NoError(t, err)
	_, hasLanding, err2 := kv.Get(store.KeyLandingSeen)
	require.NoError(t, err2)
	assert.False(t, hasToken)
	assert.False(t, hasLanding)
}
