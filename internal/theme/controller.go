package theme

import (
	"context"
	"errors"
	"log"

	"github.com/Dev-Dhanush-hub/portfolio/internal/prefs"
)

// Display receives the document-level dark mode flag.
type Display interface {
	SetDarkMode(on bool)
}

// Controller owns one visitor's theme for the lifetime of a request. It is
// not safe for concurrent use.
//
// Store failures never reach the caller: the controller logs them and keeps
// working from memory.
type Controller struct {
	store     prefs.Store
	display   Display
	current   Preference
	writeBack bool
}

// Option adjusts how a Controller is built.
type Option func(*Controller)

// WithoutWriteBack leaves the store untouched at construction. Use it for
// read-only requests and for visitors the store has never seen.
func WithoutWriteBack() Option {
	return func(c *Controller) { c.writeBack = false }
}

// NewController resolves the stored theme, falling back to Default, and
// pushes it to display. When the stored value was missing or unrecognized the
// resolved theme is written back so store and display agree. store and
// display may be nil. An unreadable store is never overwritten.
func NewController(ctx context.Context, store prefs.Store, display Display, opts ...Option) *Controller {
	c := &Controller{store: store, display: display, current: Default, writeBack: true}
	for _, opt := range opts {
		opt(c)
	}

	raw, readable := c.load(ctx)
	if p, ok := Parse(raw); ok {
		c.current = p
	}
	c.sync()

	if c.writeBack && readable && raw != c.current.String() {
		c.persist(ctx)
	}
	return c
}

// Current returns the active theme.
func (c *Controller) Current() Preference {
	return c.current
}

func (c *Controller) IsDark() bool {
	return c.current == Dark
}

// Toggle flips the theme, persists it and updates the display flag.
func (c *Controller) Toggle(ctx context.Context) Preference {
	c.current = c.current.Toggled()
	c.persist(ctx)
	c.sync()
	return c.current
}

// load reports whether the store answered, with or without a value.
func (c *Controller) load(ctx context.Context) (string, bool) {
	if c.store == nil {
		return "", false
	}

	raw, err := c.store.Get(ctx, StoreKey)
	if errors.Is(err, prefs.ErrNotFound) {
		return "", true
	}
	if err != nil {
		log.Printf("Theme preference unavailable, using default: %v", err)
		return "", false
	}
	return raw, true
}

func (c *Controller) persist(ctx context.Context) {
	if c.store == nil {
		return
	}

	if err := c.store.Set(ctx, StoreKey, c.current.String()); err != nil {
		log.Printf("Theme preference not saved: %v", err)
	}
}

func (c *Controller) sync() {
	if c.display != nil {
		c.display.SetDarkMode(c.current == Dark)
	}
}
