package offline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquiz/internal/store"
)

func TestWorker_InstallPrecaches(t *testing.T) {
	o := newTestOrigin(t)
	storage := store.NewMemory()
	w := newTestWorker(t, o, storage, "v6")
	ctx := context.Background()

	require.NoError(t, w.Install(ctx))
	assert.Equal(t, StateInstalled, w.State())
	assert.False(t, w.Router().Active(), "installed worker does not intercept yet")

	c, err := storage.Open(ctx, "math-quiz-v6")
	require.NoError(t, err)
	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, len(DefaultPrecache("questions.json")))
	assert.Contains(t, keys, o.url("/questions.json?v=v6"))
	assert.Contains(t, keys, o.url("/index.html"))
}

func TestWorker_InstallIsAllOrNothing(t *testing.T) {
	o := newTestOrigin(t)
	o.remove("/icons/icon-512.png")
	storage := store.NewMemory()
	w := newTestWorker(t, o, storage, "v6")
	ctx := context.Background()

	err := w.Install(ctx)
	var ie *InstallError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Contains(t, ie.Failed, "/icons/icon-512.png")
	assert.Len(t, ie.Failed, 1)
	assert.Equal(t, StateRedundant, w.State())

	ok, err := storage.Has(ctx, "math-quiz-v6")
	require.NoError(t, err)
	assert.False(t, ok, "failed install must not create the store")

	assert.ErrorIs(t, w.Activate(ctx), ErrRedundant)
}

func TestWorker_ActivateRequiresInstall(t *testing.T) {
	o := newTestOrigin(t)
	w := newTestWorker(t, o, store.NewMemory(), "v6")
	assert.ErrorIs(t, w.Activate(context.Background()), ErrNotInstalled)
	assert.Equal(t, StateNew, w.State())
}

func TestWorker_ActivationEvictsOldVersion(t *testing.T) {
	o := newTestOrigin(t)
	storage := store.NewMemory()
	ctx := context.Background()

	v5 := newTestWorker(t, o, storage, "v5")
	require.NoError(t, v5.Start(ctx))
	unrelated, err := storage.Open(ctx, "scratch")
	require.NoError(t, err)
	require.NoError(t, unrelated.Put(ctx, "k", &store.CachedResponse{URL: "u", Status: 200}))

	v6 := newTestWorker(t, o, storage, "v6")
	require.NoError(t, v6.Install(ctx))

	// Both versions coexist until the new worker activates.
	names, err := storage.Names(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"math-quiz-v5", "scratch", "math-quiz-v6"}, names)

	require.NoError(t, v6.Activate(ctx))
	assert.Equal(t, StateActivated, v6.State())
	assert.True(t, v6.Router().Active())

	ok, err := storage.Has(ctx, "math-quiz-v5")
	require.NoError(t, err)
	assert.False(t, ok, "math-quiz-v5 must be deleted")

	names, err = storage.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"math-quiz-v6"}, names)

	// Activating again is a no-op.
	require.NoError(t, v6.Activate(ctx))
}

func TestWorker_Status(t *testing.T) {
	o := newTestOrigin(t)
	storage := store.NewMemory()
	w := newTestWorker(t, o, storage, "21")
	ctx := context.Background()
	require.NoError(t, w.Start(ctx))

	st, err := w.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, Status{
		Version: "v21",
		Store:   "math-quiz-v21",
		State:   "activated",
		Stores:  []string{"math-quiz-v21"},
	}, st)
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateNew:        "new",
		StateInstalling: "installing",
		StateInstalled:  "installed",
		StateActivating: "activating",
		StateActivated:  "activated",
		StateRedundant:  "redundant",
		State(99):       "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestWorker_RestartOfflineReusesStore(t *testing.T) {
	o := newTestOrigin(t)
	storage := store.NewMemory()
	ctx := context.Background()

	first := newTestWorker(t, o, storage, "v6")
	require.NoError(t, first.Start(ctx))

	o.down.Store(true)
	second := newTestWorker(t, o, storage, "v6")
	require.NoError(t, second.Start(ctx))
	assert.Equal(t, StateActivated, second.State())
	assert.True(t, second.Router().Active())

	got := get(t, second.Router(), o.url("/questions.json"))
	assert.Equal(t, 200, got.status)
	assert.Equal(t, SourceCache, got.source)
	assert.Contains(t, got.body, "2+2?")
}

func TestWorker_RestartOfflineIncompleteStoreIsRedundant(t *testing.T) {
	o := newTestOrigin(t)
	storage := store.NewMemory()
	ctx := context.Background()

	partial, err := storage.Open(ctx, "math-quiz-v6")
	require.NoError(t, err)
	require.NoError(t, partial.Put(ctx, o.url("/index.html"), &store.CachedResponse{URL: o.url("/index.html"), Status: 200}))

	o.down.Store(true)
	w := newTestWorker(t, o, storage, "v6")
	var ie *InstallError
	require.ErrorAs(t, w.Start(ctx), &ie)
	assert.Equal(t, StateRedundant, w.State())
	assert.False(t, w.Router().Active())
}
