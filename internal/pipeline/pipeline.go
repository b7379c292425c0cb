package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leonardotrapani/longscribe/internal/chunk"
	"github.com/leonardotrapani/longscribe/internal/deps"
	"github.com/leonardotrapani/longscribe/internal/logging"
	"github.com/leonardotrapani/longscribe/internal/media"
	"github.com/leonardotrapani/longscribe/internal/merge"
	"github.com/leonardotrapani/longscribe/internal/notify"
	"github.com/leonardotrapani/longscribe/internal/transcriber"
)

type Status string

const (
	Init         Status = "init"
	Planned      Status = "planned"
	Extracting   Status = "extracting"
	Transcribing Status = "transcribing"
	Merging      Status = "merging"
	Done         Status = "done"
	Failed       Status = "failed"
)

// ErrOutputLocked is returned when another run holds the output lock.
var ErrOutputLocked = errors.New("output is locked by another run")

type Prober interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

type Extractor interface {
	Extract(ctx context.Context, input string, start, length float64, output string) error
	// Ext is the extension of extracted chunks, including the dot.
	Ext() string
}

type Merger interface {
	Merge(prev, next string) merge.Result
}

// Components are the collaborators a Driver calls, one per phase.
type Components struct {
	Prober      Prober
	Extractor   Extractor
	Transcriber transcriber.Client
	Merger      Merger
	Notifier    notify.Notifier
	// Progress receives the user-facing progress lines, nil discards them.
	Progress io.Writer
}

type Options struct {
	ChunkSeconds   float64
	OverlapSeconds float64
	// ScratchDir is the parent of the per-run scratch dir, empty = os.TempDir.
	ScratchDir string
	KeepChunks bool
	// Tools must resolve before probing; nil skips the check.
	Tools []deps.Tool
}

// Result describes a finished run.
type Result struct {
	RunID      string
	Output     string
	Plan       chunk.Plan
	ScratchDir string
	Outcomes   []merge.Outcome
	// Empty counts chunks whose transcript was blank.
	Empty   int
	Elapsed time.Duration
}

// Driver runs probe, plan, per-chunk extract/transcribe/merge and persist,
// one chunk at a time.
type Driver struct {
	c    Components
	opts Options
	log  zerolog.Logger

	mu     sync.RWMutex
	status Status
}

func New(c Components, opts Options) *Driver {
	if c.Merger == nil {
		c.Merger = merge.New(merge.DefaultOptions())
	}
	if c.Notifier == nil {
		c.Notifier = notify.Nop{}
	}
	if c.Progress == nil {
		c.Progress = io.Discard
	}
	return &Driver{
		c:      c,
		opts:   opts,
		log:    logging.Component("pipeline"),
		status: Init,
	}
}

func (d *Driver) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

func (d *Driver) setStatus(s Status) {
	d.mu.Lock()
	d.status = s
	d.mu.Unlock()
}

// Plan probes input and computes its chunk plan without extracting anything.
func (d *Driver) Plan(ctx context.Context, input string) (chunk.Plan, error) {
	if len(d.opts.Tools) > 0 {
		if err := deps.Require(d.opts.Tools...); err != nil {
			return chunk.Plan{}, &media.ProbeError{Path: input, Err: err}
		}
	}

	duration, err := d.c.Prober.ProbeDuration(ctx, input)
	if err != nil {
		return chunk.Plan{}, err
	}
	return chunk.New(duration, d.opts.ChunkSeconds, d.opts.OverlapSeconds)
}

// Run transcribes input into output. On failure no output is written and the
// scratch dir is left in place.
func (d *Driver) Run(ctx context.Context, input, output string) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), Output: output}
	log := d.log.With().Str(logging.FieldRunID, result.RunID).Logger()
	begin := time.Now()

	d.setStatus(Init)
	log.Info().Str("input", input).Str("output", output).Msg("run started")

	err := d.run(ctx, log, input, output, result)
	result.Elapsed = time.Since(begin)
	if err != nil {
		d.setStatus(Failed)
		ev := log.Error().Err(err).Dur("elapsed", result.Elapsed)
		if result.ScratchDir != "" {
			ev = ev.Str("scratch_dir", result.ScratchDir)
		}
		ev.Msg("run failed")
		d.c.Notifier.RunFailed(err)
		return result, err
	}

	d.setStatus(Done)
	log.Info().Int("chunks", result.Plan.Len()).Int("empty", result.Empty).Dur("elapsed", result.Elapsed).Msg("run finished")
	d.c.Notifier.RunFinished(output, result.Plan.Len())
	return result, nil
}

func (d *Driver) run(ctx context.Context, log zerolog.Logger, input, output string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(output + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("%s: %w", output, ErrOutputLocked)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn().Err(err).Str("lock", lock.Path()).Msg("failed to release output lock")
		}
		os.Remove(lock.Path())
	}()

	plan, err := d.Plan(ctx, input)
	if err != nil {
		return err
	}
	result.Plan = plan
	d.setStatus(Planned)
	fmt.Fprintf(d.c.Progress, "Audio duration: %.3fs\n", plan.Duration)

	scratch, err := os.MkdirTemp(d.opts.ScratchDir, "longscribe-"+result.RunID[:8]+"-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	result.ScratchDir = scratch
	fmt.Fprintf(d.c.Progress, "Creating %d chunks in: %s\n", plan.Len(), scratch)
	log.Debug().Float64("duration", plan.Duration).Int("chunks", plan.Len()).Str("scratch_dir", scratch).Msg("plan ready")

	merged := ""
	for _, w := range plan.Windows {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunkLog := log.With().Int(logging.FieldChunk, w.Index).Logger()

		d.setStatus(Extracting)
		artifact := filepath.Join(scratch, fmt.Sprintf("chunk_%04d%s", w.Index, d.c.Extractor.Ext()))
		fmt.Fprintf(d.c.Progress, "Cutting chunk %d @ %.1fs for %.1fs\n", w.Index, w.Start, w.Length)
		if err := d.c.Extractor.Extract(ctx, input, w.Start, w.Length, artifact); err != nil {
			return err
		}

		d.setStatus(Transcribing)
		fmt.Fprintf(d.c.Progress, "Transcribing chunk %d/%d...\n", w.Index, plan.Len()-1)
		text, err := d.c.Transcriber.Transcribe(ctx, artifact)
		if err != nil {
			if !transcriber.IsTranscriptionError(err) {
				err = &transcriber.TranscriptionError{Path: artifact, Attempts: 1, Err: err}
			}
			return err
		}

		d.setStatus(Merging)
		merged = d.merge(chunkLog, merged, strings.TrimSpace(text), result)
	}

	if err := writeAtomic(output, strings.TrimSpace(merged)+"\n"); err != nil {
		return err
	}

	if !d.opts.KeepChunks {
		if err := os.RemoveAll(scratch); err != nil {
			log.Warn().Err(err).Str("scratch_dir", scratch).Msg("failed to remove scratch dir")
		}
	}

	fmt.Fprintf(d.c.Progress, "\nSaved transcription to: %s\n", output)
	return nil
}

func (d *Driver) merge(log zerolog.Logger, merged, text string, result *Result) string {
	if text == "" {
		result.Empty++
		log.Warn().Msg("empty transcript, chunk skipped")
		return merged
	}

	res := d.c.Merger.Merge(merged, text)
	result.Outcomes = append(result.Outcomes, res.Outcome)

	switch res.Outcome {
	case merge.Appended, merge.ScanAborted:
		log.Warn().Stringer("outcome", res.Outcome).Msg("no confident overlap, transcripts appended")
	default:
		log.Debug().Stringer("outcome", res.Outcome).Int("overlap_chars", len([]rune(res.Overlap))).Msg("chunk merged")
	}
	return res.Text
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path, data string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save output: %w", err)
	}
	return nil
}
