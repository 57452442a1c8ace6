package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentra-app/mentra-cli/internal/apperror"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"u1","email":"a@b.c","full_name":"A","username":"a","role":"teacher","created_at":"2026-01-01"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("tok-123"), testLogger())
	_, err := client.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDo_NoTokenMeansNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil, testLogger())
	_, err := client.Posts(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_MapsStatusToSentinel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Geçersiz token"}`, apperror.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"detail":"Admin yetkisi gerekli"}`, apperror.ErrForbidden},
		{"not found", http.StatusNotFound, `{"detail":"Öğrenci bulunamadı"}`, apperror.ErrNotFound},
		{"conflict", http.StatusConflict, `{"detail":"Bu ders için bu haftada zaten bir erteleme yapılmış"}`, apperror.ErrConflict},
		{"validation", http.StatusUnprocessableEntity, `{"detail":"invalid"}`, apperror.ErrValidation},
		{"server error", http.StatusInternalServerError, ``, apperror.ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, StaticToken("t"), testLogger())
			_, err := client.Me(context.Background())

			assert.True(t, errors.Is(err, tt.want), "status %d should map to %v, got %v", tt.status, tt.want, err)
		})
	}
}

func TestDo_SurfacesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Ders bulunamadı"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("t"), testLogger())
	_, err := client.Me(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ders bulunamadı")
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := New(srv.URL, StaticToken("t"), testLogger())
	_, err := client.Me(context.Background())

	assert.True(t, errors.Is(err, apperror.ErrUnavailable))
}

func TestUpdateProfile_SendsQueryParameters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/teacher/profile", r.URL.Path)
		w.Write([]byte(`{"id":"u1","email":"a@b.c","full_name":"Ali Hoca","username":"ali","role":"teacher","created_at":"2026-01-01"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("t"), testLogger())
	identity, err := client.UpdateProfile(context.Background(), "Ali Hoca", 35, "Matematik")

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "full_name=Ali+Hoca")
	assert.Contains(t, gotQuery, "age=35")
	assert.Contains(t, gotQuery, "subject=Matematik")
	assert.Equal(t, "Ali Hoca", identity.FullName)
}

func TestOpenThread_RecipientAsQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u2", r.URL.Query().Get("recipient_id"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.Write([]byte(`{"id":"t1","participants":["u1","u2"],"created_at":"2026-01-01"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("t"), testLogger())
	thread, err := client.OpenThread(context.Background(), "u2")

	require.NoError(t, err)
	assert.Equal(t, "t1", thread.ID)
}

func TestSendMessage_RejectsEmptyBodyBeforeRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("t"), testLogger())
	_, err := client.SendMessage(context.Background(), "t1", "", nil)

	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.False(t, called, "empty message must not reach the network")
}

func TestReportNotAttended_ValidatesReasonLength(t *testing.T) {
	client := New("http://unused.invalid", StaticToken("t"), testLogger())

	_, err := client.ReportNotAttended(context.Background(), "l1", NotAttendedRequest{
		OriginalDate: "2026-08-24",
		Reason:       strings.Repeat("x", 501),
	})

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestLikePost_EmptyPostReturnsToggleState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.Write([]byte(`{"liked":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("t"), testLogger())
	liked, err := client.LikePost(context.Background(), "p1")

	require.NoError(t, err)
	assert.True(t, liked)
}

func TestRequestIDHeaderIsStamped(t *testing.T) {
	var gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, StaticToken("t"), testLogger())
	_, err := client.Threads(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, gotRequestID)
}
