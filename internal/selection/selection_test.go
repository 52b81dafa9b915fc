package selection

import (
	"testing"

	"github.com/Dev-Dhanush-hub/portfolio/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsEmpty(t *testing.T) {
	var s State

	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.Showing())
}

func TestSelectThenClearEveryRecord(t *testing.T) {
	for _, r := range catalog.Default().All() {
		var s State

		s.Select(r)
		got, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, r, got)
		assert.True(t, s.Showing())

		s.Clear()
		got, ok = s.Current()
		assert.False(t, ok)
		assert.Equal(t, catalog.Record{}, got)
		assert.False(t, s.Showing())
	}
}

func TestReselectReplaces(t *testing.T) {
	c := catalog.Default()
	a, _ := c.At(1)
	b, _ := c.At(2)

	var s State
	s.Select(a)
	s.Select(b)

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, b, got)
}

func TestClearWhenEmpty(t *testing.T) {
	var s State
	s.Clear()
	assert.False(t, s.Showing())
}
