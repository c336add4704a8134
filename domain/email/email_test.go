package email

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSender struct {
	mu       sync.Mutex
	failures int
	sent     []SendOptions
	calls    int
	done     chan struct{}
}

func (f *fakeSender) Send(_ context.Context, opts SendOptions) (*SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("temporary failure")
	}
	f.sent = append(f.sent, opts)
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
	return &SendResult{MessageID: "id-1"}, nil
}

func TestTemplateService_RendersEmbeddedNotification(t *testing.T) {
	ts, err := NewTemplateService(testLogger())
	require.NoError(t, err)
	assert.Contains(t, ts.ListTemplates(), "contact_notification")

	out, err := ts.Render("contact_notification", TemplateContext{
		"siteName": "tech.safi",
		"title":    "New enquiry from Amina",
		"message":  "We need a booking app.",
		"lead": map[string]any{
			"name":    "Amina",
			"email":   "amina@example.com",
			"company": "Safari Co",
		},
	}, "default")
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "<!DOCTYPE html>")
	assert.Contains(t, out.HTML, "amina@example.com")
	assert.Contains(t, out.HTML, "Safari Co")
	assert.NotContains(t, out.HTML, "Phone")
	assert.Contains(t, out.Text, "New enquiry from Amina")
	assert.Contains(t, out.Text, "We need a booking app.")
}

func TestTemplateService_EscapesValues(t *testing.T) {
	ts, err := NewTemplateService(testLogger())
	require.NoError(t, err)

	out, err := ts.Render("contact_notification", TemplateContext{
		"message": "<script>alert(1)</script>",
		"lead":    map[string]any{"name": "x", "email": "x@example.com"},
	}, "")
	require.NoError(t, err)
	assert.NotContains(t, out.HTML, "<script>")
}

func TestTemplateService_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"hello.hbs":         {Data: []byte(`Hi {{> name}}`)},
		"partials/name.hbs": {Data: []byte(`<b>{{who}}</b>`)},
		"layouts/plain.hbs": {Data: []byte(`[{{content}}]`)},
	}
	ts, err := NewTemplateServiceFS(fsys, testLogger())
	require.NoError(t, err)

	out, err := ts.Render("hello", TemplateContext{"who": "Juma", "plainText": "Hi Juma"}, "plain")
	require.NoError(t, err)
	assert.Equal(t, "[Hi <b>Juma</b>]", out.HTML)
	assert.Equal(t, "Hi Juma", out.Text)

	_, err = ts.Render("missing", nil, "")
	assert.Error(t, err)
	assert.False(t, ts.HasTemplate("missing"))
}

func TestNewSender_NoOpWhenUnconfigured(t *testing.T) {
	s := NewSender(testLogger(), &Config{Enabled: true})
	_, ok := s.(*noOpSender)
	require.True(t, ok)

	res, err := s.Send(context.Background(), SendOptions{To: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "noop-a@example.com", res.MessageID)

	s = NewSender(testLogger(), &Config{Enabled: true, MailgunDomain: "mg.example.com", MailgunAPIKey: "key"})
	_, ok = s.(*MailgunSender)
	assert.True(t, ok)
}

func newTestWorker(t *testing.T, sender Sender, cfg *Config) *Worker {
	t.Helper()
	ts, err := NewTemplateService(testLogger())
	require.NoError(t, err)
	return NewWorker(sender, ts, cfg, testLogger())
}

func testMessage() Message {
	return Message{
		Template: "contact_notification",
		To:       "team@example.com",
		ReplyTo:  "amina@example.com",
		Subject:  "New enquiry",
		Data: TemplateContext{
			"title": "New enquiry",
			"lead":  map[string]any{"name": "Amina", "email": "amina@example.com"},
		},
	}
}

func TestWorker_RetriesUntilSent(t *testing.T) {
	sender := &fakeSender{failures: 2, done: make(chan struct{})}
	w := newTestWorker(t, sender, &Config{MaxRetries: 3, RetryDelay: time.Millisecond, QueueSize: 4})

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Enqueue(testMessage()))

	select {
	case <-sender.done:
	case <-time.After(5 * time.Second):
		t.Fatal("message was not delivered")
	}
	require.NoError(t, w.Stop(context.Background()))

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, 3, sender.calls)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "amina@example.com", sender.sent[0].ReplyTo)
	assert.Equal(t, "contact_notification", sender.sent[0].Tag)
	assert.Contains(t, sender.sent[0].HTML, "Amina")
	assert.Equal(t, int64(1), w.Metrics().Sent)
}

func TestWorker_GivesUpAfterMaxRetries(t *testing.T) {
	sender := &fakeSender{failures: 10}
	w := newTestWorker(t, sender, &Config{MaxRetries: 2, RetryDelay: time.Millisecond, QueueSize: 4})

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Enqueue(testMessage()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, 2, sender.calls)
	assert.Empty(t, sender.sent)
	assert.Equal(t, int64(1), w.Metrics().Failed)
}

func TestWorker_EnqueueRequiresRunning(t *testing.T) {
	w := newTestWorker(t, &fakeSender{}, &Config{QueueSize: 1})
	assert.ErrorIs(t, w.Enqueue(testMessage()), ErrNotRunning)

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsRunning())
	require.NoError(t, w.Stop(context.Background()))
	assert.False(t, w.IsRunning())
	assert.ErrorIs(t, w.Enqueue(testMessage()), ErrNotRunning)
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "team@techsafi.co.ke", address("", "team@techsafi.co.ke"))
	assert.Equal(t, `"tech.safi" <noreply@techsafi.co.ke>`, address("tech.safi", "noreply@techsafi.co.ke"))
	assert.Equal(t, `"Amina Otieno" <amina@example.com>`, address("Amina Otieno", "amina@example.com"))
}
