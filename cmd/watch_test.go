package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/earworm/batch"
	"github.com/jsphweid/earworm/midi"
	"github.com/jsphweid/earworm/sample"
	"github.com/jsphweid/earworm/simplify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWantsEvent(t *testing.T) {
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "in/song.mid", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "in/song.MIDI", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "in/song.mid", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "in/song.wav", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "in/song_beginner.mid", Op: fsnotify.Create}, false},
	}
	for _, c := range cases {
		t.Run(c.ev.String(), func(t *testing.T) {
			assert.Equal(t, c.want, wantsEvent(c.ev))
		})
	}
}

func TestPendingFlushesOncePerPath(t *testing.T) {
	dir := t.TempDir()
	data, err := midi.EncodeBytes(sample.Demo())
	require.NoError(t, err)
	src := filepath.Join(dir, "song.mid")
	require.NoError(t, os.WriteFile(src, data, 0644))

	runner, err := batch.New(simplify.DefaultConfig(), 1, logger)
	require.NoError(t, err)
	out := new(bytes.Buffer)
	q := newPending(out, runner, filepath.Join(dir, "out"))

	q.add(src)
	q.add(src)
	results := q.flush(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Produced())
	assert.Contains(t, out.String(), "song_advanced.mid")

	// nothing new since the last flush
	assert.Empty(t, q.flush(context.Background()))
}
