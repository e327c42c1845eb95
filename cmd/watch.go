package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/earworm/batch"
	"github.com/jsphweid/earworm/file"
	"github.com/jsphweid/earworm/simplify"
	"github.com/jsphweid/earworm/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Simplifies midi files as they appear in a directory",
	Long: `Watches a directory and simplifies every midi file that is created or
rewritten in it. Bursts of writes to the same file are handled once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Add(args[0]); err != nil {
			return fmt.Errorf("could not watch %v: %w", args[0], err)
		}
		logger.Info("watching", "dir", args[0], "output", cfg.Output)

		q := newPending(cmd.OutOrStdout(), runner, cfg.Output)
		return watch(cmd.Context(), w, debounce.New(cfg.Watch.Debounce), q)
	},
}

// pending collects changed paths until the debouncer fires.
type pending struct {
	mu     sync.Mutex
	paths  map[string]bool
	out    io.Writer
	runner *batch.Runner
	outDir string
}

func newPending(out io.Writer, runner *batch.Runner, outDir string) *pending {
	return &pending{paths: make(map[string]bool), out: out, runner: runner, outDir: outDir}
}

func (p *pending) add(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths[path] = true
}

func (p *pending) flush(ctx context.Context) []batch.Result {
	p.mu.Lock()
	paths := util.SortedKeys(p.paths)
	p.paths = make(map[string]bool)
	p.mu.Unlock()

	if len(paths) == 0 {
		return nil
	}
	jobs := make([]batch.Job, len(paths))
	for i, path := range paths {
		jobs[i] = batch.Job{Source: path, OutDir: p.outDir}
	}
	results := p.runner.RunAll(ctx, jobs)
	for _, res := range results {
		printResult(p.out, res)
	}
	return results
}

func levelNames() []string {
	res := make([]string, len(simplify.Levels))
	for i, l := range simplify.Levels {
		res[i] = l.String()
	}
	return res
}

// wantsEvent skips our own artifacts, which may land in the watched
// directory.
func wantsEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	return util.IsMidiPath(ev.Name) && !file.IsArtifact(ev.Name, levelNames())
}

func watch(ctx context.Context, w *fsnotify.Watcher, debounced func(func()), q *pending) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !wantsEvent(ev) {
				continue
			}
			logger.Debug("changed", "path", ev.Name, "op", ev.Op.String())
			q.add(ev.Name)
			debounced(func() { q.flush(ctx) })
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
