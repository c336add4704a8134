package events

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// collect subscribes to topic and returns a channel of received events.
func collect(t *testing.T, svc *Service, topic string) <-chan Event {
	t.Helper()
	ch := make(chan Event, 8)
	t.Cleanup(svc.Subscribe(topic, func(ev Event) { ch <- ev }))
	return ch
}

func next(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestSubscribe_Counts(t *testing.T) {
	svc := NewService(newTestLogger())

	a := svc.Subscribe(TopicAdmin, func(Event) {})
	b := svc.Subscribe(TopicAdmin, func(Event) {})
	c := svc.Subscribe(TopicContent, func(Event) {})
	assert.Equal(t, 2, svc.GetSubscriberCount(TopicAdmin))
	assert.Equal(t, 3, svc.GetTotalSubscriberCount())

	a()
	a()
	assert.Equal(t, 1, svc.GetSubscriberCount(TopicAdmin))

	b()
	c()
	assert.Equal(t, 0, svc.GetTotalSubscriberCount())
	assert.Empty(t, svc.topics)
}

func TestEmit_OnlyMatchingTopic(t *testing.T) {
	svc := NewService(newTestLogger())
	admin := collect(t, svc, TopicAdmin)
	public := collect(t, svc, TopicContent)

	svc.EmitCreated(EntityLead, "lead-1", TopicAdmin, &Options{
		Actor: &Actor{Kind: ActorVisitor},
		Data:  map[string]any{"service": "Web Development"},
	})

	ev := next(t, admin)
	assert.Equal(t, Created, ev.Type)
	assert.Equal(t, EntityLead, ev.Entity)
	assert.Equal(t, "lead-1", ev.ID)
	assert.Equal(t, ActorVisitor, ev.Actor.Kind)
	assert.Equal(t, "Web Development", ev.Data["service"])
	assert.False(t, ev.Timestamp.IsZero())

	select {
	case ev := <-public:
		t.Fatalf("unexpected event on content topic: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEmit_Types(t *testing.T) {
	svc := NewService(newTestLogger())
	ch := collect(t, svc, TopicAdmin)

	svc.EmitUpdated(EntityMedia, "m1", TopicAdmin, &Options{Revision: 4})
	ev := next(t, ch)
	assert.Equal(t, Updated, ev.Type)
	assert.Equal(t, int64(4), ev.Revision)

	svc.EmitDeleted(EntityPost, "hello-world", TopicAdmin, nil)
	ev = next(t, ch)
	assert.Equal(t, Deleted, ev.Type)
	assert.Nil(t, ev.Actor)

	svc.EmitBatch(EntityContent, []string{"site_home", "site_about"}, TopicAdmin, map[string]any{"source": "import"})
	ev = next(t, ch)
	assert.Equal(t, Batch, ev.Type)
	assert.Empty(t, ev.ID)
	assert.Equal(t, []string{"site_home", "site_about"}, ev.IDs)
}

func TestEmitConfigUpdated_MirrorsToAdmin(t *testing.T) {
	svc := NewService(newTestLogger())
	public := collect(t, svc, TopicContent)
	admin := collect(t, svc, TopicAdmin)

	svc.EmitConfigUpdated("layout", &Options{Revision: 2, Actor: &Actor{Kind: ActorAdmin, ID: "admin"}})

	for _, ch := range []<-chan Event{public, admin} {
		ev := next(t, ch)
		assert.Equal(t, ConfigUpdated, ev.Type)
		assert.Equal(t, EntityContent, ev.Entity)
		assert.Equal(t, "layout", ev.ID)
		assert.Equal(t, int64(2), ev.Revision)
	}
}

func TestEmit_NoSubscribers(t *testing.T) {
	svc := NewService(newTestLogger())
	assert.NotPanics(t, func() { svc.EmitUpdated(EntityContent, "x", TopicAdmin, nil) })
}

func TestEmit_PanickingSubscriberIsIsolated(t *testing.T) {
	svc := NewService(newTestLogger())
	svc.Subscribe(TopicAdmin, func(Event) { panic("boom") })
	ch := collect(t, svc, TopicAdmin)

	svc.EmitUpdated(EntityContent, "site_home", TopicAdmin, nil)
	assert.Equal(t, "site_home", next(t, ch).ID)
}

func TestEmit_Concurrent(t *testing.T) {
	svc := NewService(newTestLogger())

	var mu sync.Mutex
	got := 0
	svc.Subscribe(TopicContent, func(Event) {
		mu.Lock()
		got++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.EmitConfigUpdated("site_home", nil)
			unsub := svc.Subscribe(TopicAdmin, func(Event) {})
			unsub()
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got == 20
	}, time.Second, 5*time.Millisecond)
}
