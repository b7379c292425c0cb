package chunk

import (
	"errors"
	"fmt"
	"math"
)

// ConfigurationError reports a setting that cannot produce a valid run, such
// as chunking parameters that cannot produce a plan.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Window is one time-bounded slice of the source audio.
type Window struct {
	Index  int
	Start  float64
	Length float64
}

// End returns the exclusive end of the window in seconds.
func (w Window) End() float64 {
	return w.Start + w.Length
}

func (w Window) String() string {
	return fmt.Sprintf("chunk %d @ %.1fs for %.1fs", w.Index, w.Start, w.Length)
}

// Plan is the ordered, immutable list of windows for one run.
type Plan struct {
	Duration float64
	Chunk    float64
	Overlap  float64
	Windows  []Window
}

// Len returns the number of windows.
func (p Plan) Len() int {
	return len(p.Windows)
}

// Validate checks chunk and overlap lengths without needing a duration.
func Validate(chunkSeconds, overlapSeconds float64) error {
	if !isFinite(chunkSeconds) || chunkSeconds <= 0 {
		return &ConfigurationError{Field: "chunk_seconds", Reason: fmt.Sprintf("must be > 0, got %v", chunkSeconds)}
	}
	if !isFinite(overlapSeconds) || overlapSeconds < 0 {
		return &ConfigurationError{Field: "overlap_seconds", Reason: fmt.Sprintf("must be >= 0, got %v", overlapSeconds)}
	}
	if chunkSeconds-overlapSeconds <= 0 {
		return &ConfigurationError{
			Field:  "overlap_seconds",
			Reason: fmt.Sprintf("must be smaller than chunk_seconds (%v >= %v)", overlapSeconds, chunkSeconds),
		}
	}
	return nil
}

// New computes the chunk plan covering [0, duration).
func New(duration, chunkSeconds, overlapSeconds float64) (Plan, error) {
	if err := Validate(chunkSeconds, overlapSeconds); err != nil {
		return Plan{}, err
	}
	if !isFinite(duration) || duration <= 0 {
		return Plan{}, &ConfigurationError{Field: "duration", Reason: fmt.Sprintf("must be finite and > 0, got %v", duration)}
	}

	step := chunkSeconds - overlapSeconds
	plan := Plan{
		Duration: duration,
		Chunk:    chunkSeconds,
		Overlap:  overlapSeconds,
		Windows:  make([]Window, 0, int(math.Ceil(duration/step))),
	}

	// start is derived from the index rather than accumulated so long plans
	// don't drift. A window that already reaches the end closes the plan: any
	// later start would only repeat audio the previous window covered.
	for i := 0; ; i++ {
		start := float64(i) * step
		if start >= duration {
			break
		}
		w := Window{
			Index:  i,
			Start:  start,
			Length: math.Min(chunkSeconds, duration-start),
		}
		plan.Windows = append(plan.Windows, w)
		if w.End() >= duration {
			break
		}
	}

	return plan, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
