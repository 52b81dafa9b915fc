package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/Dev-Dhanush-hub/portfolio/internal/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDisplay struct {
	dark  bool
	calls int
}

func (d *recordingDisplay) SetDarkMode(on bool) {
	d.dark = on
	d.calls++
}

type failingStore struct {
	sets int
}

func (s *failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("storage disabled")
}

func (s *failingStore) Set(context.Context, string, string) error {
	s.sets++
	return errors.New("storage disabled")
}

func newStore(t *testing.T, stored string) prefs.Store {
	t.Helper()
	store := prefs.NewMemoryBackend().ForVisitor("visitor")
	if stored != "" {
		require.NoError(t, store.Set(context.Background(), StoreKey, stored))
	}
	return store
}

func storedTheme(t *testing.T, store prefs.Store) string {
	t.Helper()
	value, err := store.Get(context.Background(), StoreKey)
	require.NoError(t, err)
	return value
}

func TestNewControllerDefaultsToDark(t *testing.T) {
	store := newStore(t, "")
	display := &recordingDisplay{}

	c := NewController(context.Background(), store, display)

	assert.Equal(t, Dark, c.Current())
	assert.True(t, c.IsDark())
	assert.True(t, display.dark)
	assert.Equal(t, "dark", storedTheme(t, store))
}

func TestNewControllerReadsStoredLight(t *testing.T) {
	store := newStore(t, "light")
	display := &recordingDisplay{dark: true}

	c := NewController(context.Background(), store, display)

	assert.Equal(t, Light, c.Current())
	assert.False(t, display.dark)
	assert.Equal(t, "light", storedTheme(t, store))
}

func TestNewControllerUnrecognizedValue(t *testing.T) {
	for _, stored := range []string{"Light", "DARK", "sepia", " light"} {
		t.Run(stored, func(t *testing.T) {
			store := newStore(t, stored)

			c := NewController(context.Background(), store, nil)

			assert.Equal(t, Dark, c.Current())
			assert.Equal(t, "dark", storedTheme(t, store))
		})
	}
}

func TestToggleParity(t *testing.T) {
	store := newStore(t, "")
	display := &recordingDisplay{}
	c := NewController(context.Background(), store, display)

	for n := 1; n <= 7; n++ {
		got := c.Toggle(context.Background())

		want := Dark
		if n%2 == 1 {
			want = Light
		}
		assert.Equal(t, want, got, "after %d toggles", n)
		assert.Equal(t, want, c.Current())
		assert.Equal(t, want == Dark, display.dark)
		assert.Equal(t, want.String(), storedTheme(t, store))
	}
}

func TestToggleWithoutStore(t *testing.T) {
	display := &recordingDisplay{}
	c := NewController(context.Background(), nil, display)

	assert.Equal(t, Dark, c.Current())
	assert.Equal(t, Light, c.Toggle(context.Background()))
	assert.False(t, display.dark)
}

func TestFailingStoreDegradesToMemory(t *testing.T) {
	store := &failingStore{}
	display := &recordingDisplay{}

	c := NewController(context.Background(), store, display)
	assert.Equal(t, Dark, c.Current())
	assert.Zero(t, store.sets, "an unreadable store is not overwritten on load")

	assert.Equal(t, Light, c.Toggle(context.Background()))
	assert.Equal(t, Light, c.Current())
	assert.False(t, display.dark)
	assert.Equal(t, 1, store.sets)
}

func TestNewControllerSkipsRedundantWrite(t *testing.T) {
	store := &countingStore{Store: newStore(t, "light")}

	NewController(context.Background(), store, nil)

	assert.Zero(t, store.sets)
}

type countingStore struct {
	prefs.Store
	sets int
}

func (s *countingStore) Set(ctx context.Context, key, value string) error {
	s.sets++
	return s.Store.Set(ctx, key, value)
}

func TestNewControllerWithoutWriteBack(t *testing.T) {
	for _, stored := range []string{"", "solarized"} {
		store := &countingStore{Store: newStore(t, stored)}
		display := &recordingDisplay{}

		c := NewController(context.Background(), store, display, WithoutWriteBack())

		assert.Equal(t, Dark, c.Current(), "stored %q", stored)
		assert.True(t, display.dark)
		assert.Zero(t, store.sets, "stored %q", stored)

		c.Toggle(context.Background())
		assert.Equal(t, 1, store.sets, "toggle still persists")
	}
}
