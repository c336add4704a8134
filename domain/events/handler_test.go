package events

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// lockedRecorder is a flushable ResponseWriter safe to read while a stream is open.
type lockedRecorder struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
	code   int
}

func newLockedRecorder() *lockedRecorder {
	return &lockedRecorder{header: make(http.Header)}
}

func (r *lockedRecorder) Header() http.Header { return r.header }

func (r *lockedRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *lockedRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
}

func (r *lockedRecorder) Flush() {}

func (r *lockedRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func TestHandleStream_AdminTopicRequiresAuth(t *testing.T) {
	h := NewHandler(NewService(newTestLogger()), newTestLogger())
	defer h.Stop()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/events/stream?topic=admin", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.HandleStream(c)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestHandleStream_UnknownTopic(t *testing.T) {
	h := NewHandler(NewService(newTestLogger()), newTestLogger())
	defer h.Stop()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/events/stream?topic=payroll", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set(string(auth.UserContextKey), &auth.AuthUser{ID: auth.AdminSubject, Method: auth.MethodAPIKey})

	err := h.HandleStream(c)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestHandleStream_DeliversConfigUpdates(t *testing.T) {
	svc := NewService(newTestLogger())
	h := NewHandler(svc, newTestLogger())
	defer h.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/events/stream", nil).WithContext(ctx)
	rec := newLockedRecorder()
	c := e.NewContext(req, rec)

	done := make(chan error, 1)
	go func() { done <- h.HandleStream(c) }()

	require.Eventually(t, func() bool {
		return svc.GetSubscriberCount(TopicContent) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, h.ConnectionCount())

	svc.EmitConfigUpdated("site_home", &Options{Revision: 7})

	require.Eventually(t, func() bool {
		return strings.Contains(rec.String(), "event: techsafi_config_updated")
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not close after client disconnect")
	}

	body := rec.String()
	assert.Contains(t, body, "retry: 3000")
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `"topic":"content"`)
	assert.Contains(t, body, `"id":"site_home"`)
	assert.Contains(t, body, "id: site_home\nevent: techsafi_config_updated")
	assert.Contains(t, body, `"revision":7`)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, 0, h.ConnectionCount())
	assert.Equal(t, 0, svc.GetSubscriberCount(TopicContent))
}

func TestHandleStream_HeartbeatAndServerStop(t *testing.T) {
	prev := HeartbeatInterval
	HeartbeatInterval = 10 * time.Millisecond
	t.Cleanup(func() { HeartbeatInterval = prev })

	h := NewHandler(NewService(newTestLogger()), newTestLogger())

	e := echo.New()
	rec := newLockedRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/events/stream", nil), rec)

	done := make(chan error, 1)
	go func() { done <- h.HandleStream(c) }()

	require.Eventually(t, func() bool {
		return strings.Contains(rec.String(), "event: heartbeat")
	}, time.Second, 5*time.Millisecond)

	h.Stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not close on Stop")
	}
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestStream_OfferDropsWhenFull(t *testing.T) {
	s := &stream{out: make(chan Event, 1), done: make(chan struct{})}
	assert.True(t, s.offer(Event{ID: "a"}))
	assert.False(t, s.offer(Event{ID: "b"}))

	<-s.out
	s.close()
	s.close()
	assert.False(t, s.offer(Event{ID: "c"}))
}

func TestHandleConnectionsCount(t *testing.T) {
	h := NewHandler(NewService(newTestLogger()), newTestLogger())
	defer h.Stop()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/events/connections/count", nil), rec)

	require.NoError(t, h.HandleConnectionsCount(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"byTopic":{}}`, rec.Body.String())
}
