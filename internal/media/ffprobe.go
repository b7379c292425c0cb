package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/longscribe/internal/logging"
)

// DefaultFFprobe is the binary used when none is configured.
const DefaultFFprobe = "ffprobe"

// Prober reads container metadata with ffprobe.
type Prober struct {
	binary string
	log    zerolog.Logger
}

// probeResult is the subset of `ffprobe -show_format -of json` we read.
type probeResult struct {
	Format struct {
		Filename   string `json:"filename"`
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
}

// NewProber creates a Prober. An empty binary means DefaultFFprobe.
func NewProber(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultFFprobe
	}
	return &Prober{
		binary: binary,
		log:    logging.Component("ffprobe"),
	}
}

// ProbeDuration returns the total duration of path in seconds.
func (p *Prober) ProbeDuration(ctx context.Context, path string) (float64, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, &ProbeError{Err: errors.New("empty path")}
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-of", "json",
		"--", path,
	)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, &ProbeError{Path: path, Err: ctx.Err()}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, &ProbeError{Path: path, Err: fmt.Errorf("%s: %w: %s", p.binary, err, strings.TrimSpace(string(exitErr.Stderr)))}
		}
		return 0, &ProbeError{Path: path, Err: fmt.Errorf("%s: %w", p.binary, err)}
	}

	duration, err := parseDuration(output)
	if err != nil {
		return 0, &ProbeError{Path: path, Err: err}
	}

	p.log.Debug().Str("path", path).Float64("duration", duration).Msg("probed duration")
	return duration, nil
}

func parseDuration(output []byte) (float64, error) {
	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}

	raw := strings.TrimSpace(result.Format.Duration)
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("could not read duration from ffprobe output: %q", raw)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, fmt.Errorf("invalid duration from ffprobe output: %q", raw)
	}
	return duration, nil
}
