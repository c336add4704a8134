package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/listops"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	svc    *Service
	store  docstore.Store
	events *events.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := docstore.OpenBunt(":memory:", 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ev := events.NewService(newTestLogger())
	return &testEnv{
		svc:    NewService(store, ev, newTestLogger()),
		store:  store,
		events: ev,
	}
}

func roundTrip[T any](t *testing.T, svc *Service, def *Def[T], v T) {
	t.Helper()
	ctx := context.Background()
	acc := For(svc, def)

	require.NoError(t, acc.Save(ctx, v, "admin"))
	got, err := acc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, v, got, "round trip of %s", def.Name())
}

func TestAccessor_RoundTripEveryDomain(t *testing.T) {
	env := newTestEnv(t)

	layout := defaultLayout()
	layout.Navbar.CTA.Label = "Hire us"
	layout.Navbar.Links[0].Children = []Link{}
	roundTrip(t, env.svc, Layout, layout)

	home := defaultHome()
	home.Hero.TypewriterWords = append(home.Hero.TypewriterWords, "data pipelines")
	home.Estimator.BasePrices["api"] = 300000
	roundTrip(t, env.svc, Home, home)

	services := defaultServices()
	services.Services[0].Highlights = nil
	roundTrip(t, env.svc, Services, services)

	roundTrip(t, env.svc, Pricing, defaultPricing()[:2])
	roundTrip(t, env.svc, Portfolio, defaultPortfolio())

	about := defaultAbout()
	about.Visionaries[0].LinkedIn = "https://linkedin.com/in/wanjiru"
	roundTrip(t, env.svc, About, about)

	roundTrip(t, env.svc, Careers, defaultCareers())
	roundTrip(t, env.svc, AiSolutions, defaultAiSolutions())
	roundTrip(t, env.svc, ContactSubmissions, []ContactSubmission{{
		ID:        "lead-1",
		Name:      "Jane",
		Email:     "jane@example.com",
		Message:   "Need an app",
		Status:    StatusNew,
		Priority:  PriorityMedium,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}})
	roundTrip(t, env.svc, Contact, defaultContact())
	roundTrip(t, env.svc, Blog, defaultBlog())
	roundTrip(t, env.svc, Legal, defaultLegal())
	roundTrip(t, env.svc, Media, []MediaAsset{{ID: "m1", Key: "media/m1.png", Filename: "m1.png", Size: 42}})
}

func TestAccessor_FetchDefaultWhenEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := For(env.svc, Home)

	first, err := acc.Fetch(ctx)
	require.NoError(t, err)
	second, err := acc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, defaultHome(), first)

	// Mutating a fetched value must not leak into the default.
	first.Hero.Title = "changed"
	first.Partners[0].Name = "changed"
	first.Estimator.BasePrices["website"] = 1

	third, err := acc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultHome(), third)

	// Fetch never writes.
	metas, err := env.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestAccessor_PricingScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := For(env.svc, Pricing)

	require.NoError(t, acc.Save(ctx, []PricingPlan{{
		ID:           listops.NewID(),
		Name:         "Starter",
		Category:     PricingWeb,
		DisplayOrder: 1,
	}}, "admin"))

	plans, err := acc.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Starter", plans[0].Name)
}

func TestAccessor_CareersNoticeScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := For(env.svc, Careers)

	cfg, err := acc.Fetch(ctx)
	require.NoError(t, err)
	require.True(t, cfg.Notice.IsActive)

	cfg.Notice.IsActive = false
	require.NoError(t, acc.Save(ctx, cfg, "admin"))

	got, err := acc.Fetch(ctx)
	require.NoError(t, err)
	assert.False(t, got.Notice.IsActive)

	want := defaultCareers()
	want.Notice.IsActive = false
	assert.Equal(t, want, got)
}

func TestAccessor_MigratesOldSchema(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v1 := `{"hero":{"title":"Old"},"visionaries":[
		{"id":"a","name":"Ann"},
		{"id":"b","name":"Ben","tier":"founder"}
	]}`
	_, err := env.store.Put(ctx, About.Key(), json.RawMessage(v1), docstore.PutOptions{SchemaVersion: 1})
	require.NoError(t, err)

	got, err := For(env.svc, About).Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, got.Visionaries, 2)
	assert.Equal(t, TierLeadership, got.Visionaries[0].Tier)
	assert.Equal(t, TierFounder, got.Visionaries[1].Tier)
	assert.Equal(t, "Old", got.Hero.Title)

	doc, err := env.svc.Get(ctx, DomainAbout)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.SchemaVersion)
}

func TestAccessor_FutureSchemaIsCorrupt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.store.Put(ctx, Home.Key(), json.RawMessage(`{}`), docstore.PutOptions{SchemaVersion: 9})
	require.NoError(t, err)

	_, err = For(env.svc, Home).Fetch(ctx)
	assert.ErrorIs(t, err, apperror.ErrCorruptDocument)
}

func TestAccessor_CorruptDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.store.Put(ctx, Careers.Key(), json.RawMessage(`{"notice":"yes"}`), docstore.PutOptions{SchemaVersion: 1})
	require.NoError(t, err)

	_, err = For(env.svc, Careers).Fetch(ctx)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "corrupt_document", appErr.Code)
	assert.Equal(t, 500, appErr.HTTPStatus)

	// The public renderer path falls back to defaults.
	assert.Equal(t, defaultCareers(), For(env.svc, Careers).FetchOrDefault(ctx))

	// Reset recovers.
	require.NoError(t, env.svc.Reset(ctx, DomainCareers, "admin"))
	got, err := For(env.svc, Careers).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultCareers(), got)
}

func TestAccessor_MutateIsSerialized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := For(env.svc, Pricing)
	ops := listops.Accessors[PricingPlan]{
		ID:    func(p *PricingPlan) *string { return &p.ID },
		Order: func(p *PricingPlan) *int { return &p.DisplayOrder },
	}

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := acc.Mutate(ctx, "admin", func(plans *[]PricingPlan) error {
				*plans, _ = ops.Append(*plans, PricingPlan{Name: "New plan", Category: PricingWeb})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	plans, err := acc.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, len(defaultPricing())+workers)

	doc, err := env.svc.Get(ctx, DomainPricing)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), doc.Revision)
}

func TestAccessor_MutateErrorWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := For(env.svc, Pricing).Mutate(ctx, "admin", func(*[]PricingPlan) error {
		return listops.ErrNotFound
	})
	assert.ErrorIs(t, err, listops.ErrNotFound)

	doc, err := env.svc.Get(ctx, DomainPricing)
	require.NoError(t, err)
	assert.True(t, doc.Default)
}

func TestService_GetUnknownDomain(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperror.ErrUnknownDomain)
}

func TestService_PutValidatesShape(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Put(ctx, DomainPricing, json.RawMessage(`{"name":"not a list"}`), "admin")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	doc, err := env.svc.Put(ctx, DomainPricing, json.RawMessage(`[{"id":"p1","name":"Solo","category":"Web","displayOrder":1,"extra":true}]`), "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Revision)
	assert.NotContains(t, string(doc.Data), "extra")
	assert.Equal(t, "admin", doc.UpdatedBy)
}

func TestService_HistoryAndRestore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := For(env.svc, Careers)

	cfg := defaultCareers()
	for _, title := range []string{"one", "two", "three"} {
		cfg.Hero.Title = title
		require.NoError(t, acc.Save(ctx, cfg, "admin"))
	}

	history, err := env.svc.History(ctx, DomainCareers)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(2), history[0].Revision)
	assert.Equal(t, int64(1), history[1].Revision)

	old, err := env.svc.Revision(ctx, DomainCareers, 1)
	require.NoError(t, err)
	assert.Contains(t, string(old.Data), `"title":"one"`)

	restored, err := env.svc.Restore(ctx, DomainCareers, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(4), restored.Revision)

	got, err := acc.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", got.Hero.Title)

	_, err = env.svc.Revision(ctx, DomainCareers, 99)
	assert.ErrorIs(t, err, apperror.ErrRevisionMissing)
}

func TestService_ResetRestoresDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Put(ctx, DomainContact, json.RawMessage(`{"hero":{"title":"Custom"}}`), "admin")
	require.NoError(t, err)

	require.NoError(t, env.svc.Reset(ctx, DomainContact, "admin"))
	// Resetting twice is fine.
	require.NoError(t, env.svc.Reset(ctx, DomainContact, "admin"))

	got, err := For(env.svc, Contact).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultContact(), got)

	// Revision numbers keep counting after a reset.
	doc, err := env.svc.Put(ctx, DomainContact, json.RawMessage(`{}`), "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Revision)
}

func TestService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, For(env.svc, Home).Save(ctx, defaultHome(), "admin"))

	infos, err := env.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, len(Domains()))

	var home, careers DomainInfo
	for _, info := range infos {
		switch info.Name {
		case DomainHome:
			home = info
		case DomainCareers:
			careers = info
		}
	}
	assert.True(t, home.Stored)
	assert.Equal(t, int64(1), home.Revision)
	assert.Equal(t, "techsafi_home_config", home.Key)
	assert.False(t, careers.Stored)
}

func TestService_SaveEmitsConfigUpdated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got := make(chan events.Event, 4)
	env.events.Subscribe(events.TopicContent, func(e events.Event) { got <- e })

	require.NoError(t, For(env.svc, Layout).Save(ctx, defaultLayout(), "admin"))

	select {
	case e := <-got:
		assert.Equal(t, events.ConfigUpdated, e.Type)
		assert.Equal(t, DomainLayout, e.ID)
		assert.Equal(t, int64(1), e.Revision)
		require.NotNil(t, e.Actor)
		assert.Equal(t, events.ActorAdmin, e.Actor.Kind)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestService_PrivateDomainsStayOffPublicTopic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	public := make(chan events.Event, 1)
	admin := make(chan events.Event, 1)
	env.events.Subscribe(events.TopicContent, func(e events.Event) { public <- e })
	env.events.Subscribe(events.TopicAdmin, func(e events.Event) { admin <- e })

	require.NoError(t, For(env.svc, ContactSubmissions).Save(ctx, []ContactSubmission{}, "anonymous"))

	select {
	case e := <-admin:
		assert.Equal(t, events.Updated, e.Type)
		assert.Equal(t, events.ActorVisitor, e.Actor.Kind)
	case <-time.After(time.Second):
		t.Fatal("no admin event received")
	}
	select {
	case <-public:
		t.Fatal("private domain leaked to the public topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestService_ExportImport(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()

	cfg := defaultCareers()
	cfg.Notice.IsActive = false
	require.NoError(t, For(src.svc, Careers).Save(ctx, cfg, "admin"))

	bundle, err := src.svc.Export(ctx, false)
	require.NoError(t, err)
	require.Len(t, bundle.Documents, 1)
	assert.Equal(t, DomainCareers, bundle.Documents[0].Domain)

	full, err := src.svc.Export(ctx, true)
	require.NoError(t, err)
	assert.Len(t, full.Documents, len(Domains()))

	dst := newTestEnv(t)
	batches := make(chan events.Event, 1)
	dst.events.Subscribe(events.TopicAdmin, func(e events.Event) {
		if e.Type == events.Batch {
			batches <- e
		}
	})
	n, err := dst.svc.Import(ctx, bundle, "system")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	select {
	case e := <-batches:
		assert.Equal(t, events.EntityContent, e.Entity)
		assert.Equal(t, []string{DomainCareers}, e.IDs)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch event after import")
	}

	got, err := For(dst.svc, Careers).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = dst.svc.Import(ctx, &Bundle{Format: 99}, "system")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestRegistry(t *testing.T) {
	keys := map[string]bool{}
	for _, d := range Domains() {
		assert.False(t, keys[d.Key()], "duplicate key %s", d.Key())
		keys[d.Key()] = true

		found, ok := LookupKey(d.Key())
		require.True(t, ok)
		assert.Equal(t, d.Name(), found.Name())
	}
	assert.Equal(t, 2, About.SchemaVersion())
	assert.Equal(t, 1, Home.SchemaVersion())
	assert.False(t, ContactSubmissions.Public())

	_, ok := Lookup("missing")
	assert.False(t, ok)
}
