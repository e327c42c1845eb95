// Package batch turns source files into one artifact per difficulty level.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/earworm/difficulty"
	"github.com/jsphweid/earworm/file"
	"github.com/jsphweid/earworm/midi"
	"github.com/jsphweid/earworm/model"
	"github.com/jsphweid/earworm/simplify"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/sync/errgroup"
)

type Job struct {
	Source string
	OutDir string
}

type LevelResult struct {
	Level simplify.Level
	Path  string
	Bytes int
	Err   error
}

type Result struct {
	ID      string
	Source  string
	Report  difficulty.Report
	Levels  []LevelResult
	Elapsed time.Duration

	// Err is set when the source itself could not be processed; Levels
	// is empty then.
	Err error
}

// Produced counts the levels that were written.
func (r Result) Produced() int {
	var n int
	for _, l := range r.Levels {
		if l.Err == nil {
			n++
		}
	}
	return n
}

// ReportSink receives the analysis of every source that decodes.
type ReportSink interface {
	Put(ctx context.Context, source string, r difficulty.Report) error
}

type Runner struct {
	strategies  []simplify.Strategy
	concurrency int
	logger      *slog.Logger

	// Sink is optional. A failing sink is logged and does not fail the
	// source.
	Sink ReportSink
}

func New(cfg simplify.Config, concurrency int, logger *slog.Logger) (*Runner, error) {
	strategies, err := simplify.All(cfg)
	if err != nil {
		return nil, err
	}
	return NewRunner(strategies, concurrency, logger), nil
}

func NewRunner(strategies []simplify.Strategy, concurrency int, logger *slog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{strategies: strategies, concurrency: concurrency, logger: logger}
}

// Run decodes one source, analyses it and writes every level. Strategies run
// concurrently and fail independently.
func (r *Runner) Run(ctx context.Context, job Job) Result {
	start := time.Now()
	res := Result{ID: uuid.New().String(), Source: job.Source}
	log := r.logger.With("run", res.ID, "source", job.Source)

	s, err := midi.ReadMidiFile(job.Source)
	if err != nil {
		log.Error("skipping source", "err", err)
		res.Err = err
		return res
	}

	res.Report = difficulty.Analyse(s)
	log.Info("analysed", "level", res.Report.Level, "label", res.Report.Label, "notes", res.Report.TotalNotes)
	if r.Sink != nil {
		if err := r.Sink.Put(ctx, job.Source, res.Report); err != nil {
			log.Warn("could not store report", "err", err)
		}
	}

	if err := os.MkdirAll(job.OutDir, 0755); err != nil {
		res.Err = fmt.Errorf("could not create output dir %v: %w", job.OutDir, err)
		log.Error("skipping source", "err", res.Err)
		return res
	}

	res.Levels = r.simplifyAll(ctx, s, job, log)
	res.Elapsed = time.Since(start)
	log.Info("done", "produced", res.Produced(), "of", len(res.Levels), "elapsed", res.Elapsed)
	return res
}

func (r *Runner) simplifyAll(ctx context.Context, s model.Stream, job Job, log *slog.Logger) []LevelResult {
	results := make([]LevelResult, len(r.strategies))
	var g errgroup.Group
	for i, st := range r.strategies {
		i, st := i, st
		g.Go(func() error {
			results[i] = r.runLevel(ctx, s, st, job)
			if err := results[i].Err; err != nil {
				log.Error("level failed", "level", st.Level(), "err", err)
			} else {
				log.Debug("level written", "level", st.Level(), "path", results[i].Path, "bytes", results[i].Bytes)
			}
			return nil
		})
	}
	g.Wait()
	return results
}

func (r *Runner) runLevel(ctx context.Context, s model.Stream, st simplify.Strategy, job Job) (res LevelResult) {
	res.Level = st.Level()
	res.Path = file.ArtifactPath(job.Source, job.OutDir, st.Level().String())

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("%v strategy panicked: %v", st.Level(), p)
		}
	}()

	out, err := st.Transform(s)
	if err != nil {
		res.Err = fmt.Errorf("%v strategy failed: %w", st.Level(), err)
		return res
	}
	data, err := midi.EncodeBytes(out)
	if err != nil {
		res.Err = fmt.Errorf("could not encode %v: %w", st.Level(), err)
		return res
	}
	if err := file.WriteAtomic(res.Path, data); err != nil {
		res.Err = err
		return res
	}
	res.Bytes = len(data)
	return res
}

// RunAll processes every job with at most concurrency sources in flight.
// Results are in job order.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	wg := sizedwaitgroup.New(r.concurrency)
	for i, job := range jobs {
		if err := wg.AddWithContext(ctx); err != nil {
			results[i] = Result{Source: job.Source, Err: err}
			continue
		}
		r.logger.Info(fmt.Sprintf("Processing %v of %v midi files", i+1, len(jobs)), "source", job.Source)
		go func(i int, job Job) {
			defer wg.Done()
			results[i] = r.Run(ctx, job)
		}(i, job)
	}
	wg.Wait()
	return results
}
