package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	require.Equal(t, 5, c.Len())

	first, ok := c.At(1)
	require.True(t, ok)
	assert.Equal(t, "3D Stereo Vision Reconstruction", first.Name)

	third, ok := c.At(3)
	require.True(t, ok)
	assert.Equal(t, "Road Condition Detection", third.Name)
	assert.Equal(t, "Live road hazard detection using CNNs for safer driving.", third.Description)
	assert.Equal(t, "https://github.com/Dev-Dhanush-hub/road-safety-detection", third.Link)

	last, ok := c.At(5)
	require.True(t, ok)
	assert.Equal(t, "AI Face Detector", last.Name)
}

func TestAtOutOfRange(t *testing.T) {
	c := Default()
	for _, pos := range []int{-1, 0, 6, 100} {
		_, ok := c.At(pos)
		assert.False(t, ok, "At(%d)", pos)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	c := Default()
	for pos := 1; pos <= c.Len(); pos++ {
		r, ok := c.At(pos)
		require.True(t, ok)

		got, ok := c.Position(r)
		require.True(t, ok)
		assert.Equal(t, pos, got)
	}

	_, ok := c.Position(Record{Name: "Unknown", Description: "x", Link: "https://example.com"})
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()

	records := c.All()
	records[0].Name = "mutated"

	first, _ := c.At(1)
	assert.Equal(t, "3D Stereo Vision Reconstruction", first.Name)
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	tests := map[string]string{
		"not yaml":     "projects: [",
		"empty":        "projects: []",
		"missing name": "projects:\n  - description: d\n    link: https://example.com\n",
		"bad link":     "projects:\n  - name: n\n    description: d\n    link: example\n",
		"non-http":     "projects:\n  - name: n\n    description: d\n    link: ftp://example.com/x\n",
		"duplicate": "projects:\n" +
			"  - {name: n, description: d, link: 'https://example.com/a'}\n" +
			"  - {name: n, description: e, link: 'https://example.com/b'}\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	doc := "projects:\n  - name: Only\n    description: One project.\n    link: https://example.com/only\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
