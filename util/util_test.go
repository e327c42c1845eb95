package util

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantise(t *testing.T) {
	cases := []struct {
		value, grid, want uint32
	}{
		{0, 120, 0},
		{59, 120, 0},
		{61, 120, 120},
		{60, 120, 0},    // half, 0 is even
		{180, 120, 240}, // half, 1 is odd
		{300, 120, 240}, // half, 2 is even
		{479, 480, 480},
		{480, 480, 480},
		{7, 1, 7},
	}

	for _, c := range cases {
		name := fmt.Sprintf("quantise %v to %v", c.value, c.grid)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.want, Quantise(c.value, c.grid))
		})
	}
}

func TestQuantiseIsIdempotent(t *testing.T) {
	for v := 0; v < 1000; v++ {
		q := Quantise(v, 120)
		assert.Equal(t, q, Quantise(q, 120))
	}
}

func TestQuantisePanicsOnZeroGrid(t *testing.T) {
	assert.Panics(t, func() { Quantise(10, 0) })
}

func TestGatherMidiPaths(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	for _, p := range []string{
		filepath.Join(dir, "one.mid"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(nested, "two.MIDI"),
	} {
		require.NoError(t, os.WriteFile(p, []byte{}, 0644))
	}

	assert := assert.New(t)

	paths, err := GatherMidiPaths([]string{dir}, 0)
	assert.NoError(err)
	assert.Equal([]string{filepath.Join(nested, "two.MIDI"), filepath.Join(dir, "one.mid")}, paths)

	paths, err = GatherMidiPaths([]string{filepath.Join(dir, "*.mid"), filepath.Join(dir, "one.mid")}, 0)
	assert.NoError(err)
	assert.Equal([]string{filepath.Join(dir, "one.mid")}, paths)

	paths, err = GatherMidiPaths([]string{dir}, 1)
	assert.NoError(err)
	assert.Len(paths, 1)

	_, err = GatherMidiPaths([]string{filepath.Join(dir, "missing-*.mid")}, 0)
	assert.Error(err)
}

func TestSortedKeys(t *testing.T) {
	m := map[int]string{3: "c", 1: "a", 2: "b"}
	assert.Equal(t, []int{1, 2, 3}, SortedKeys(m))
}
