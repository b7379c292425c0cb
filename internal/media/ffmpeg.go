package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/longscribe/internal/logging"
)

const (
	// DefaultFFmpeg is the binary used when none is configured.
	DefaultFFmpeg = "ffmpeg"

	DefaultSampleRate = 16000
	DefaultChannels   = 1
	DefaultQuality    = 4

	FormatMP3 = "mp3"
	FormatWAV = "wav"
)

// ExtractorConfig describes the re-encoding applied to each chunk.
type ExtractorConfig struct {
	Binary     string
	SampleRate int
	Channels   int
	// Format is FormatMP3 (VBR libmp3lame) or FormatWAV (16-bit PCM).
	Format  string
	Quality int
}

// DefaultExtractorConfig returns mono 16 kHz VBR MP3 output.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Binary:     DefaultFFmpeg,
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		Format:     FormatMP3,
		Quality:    DefaultQuality,
	}
}

// Extractor cuts time windows out of an input file with ffmpeg.
type Extractor struct {
	config ExtractorConfig
	log    zerolog.Logger
}

// NewExtractor creates an Extractor; zero fields fall back to defaults.
func NewExtractor(config ExtractorConfig) *Extractor {
	defaults := DefaultExtractorConfig()
	if strings.TrimSpace(config.Binary) == "" {
		config.Binary = defaults.Binary
	}
	if config.SampleRate <= 0 {
		config.SampleRate = defaults.SampleRate
	}
	if config.Channels <= 0 {
		config.Channels = defaults.Channels
	}
	if config.Format != FormatWAV {
		config.Format = FormatMP3
	}
	if config.Quality <= 0 {
		config.Quality = defaults.Quality
	}
	return &Extractor{
		config: config,
		log:    logging.Component("ffmpeg"),
	}
}

// Ext returns the file extension of extracted chunks, including the dot.
func (e *Extractor) Ext() string {
	return "." + e.config.Format
}

// Args returns the ffmpeg arguments used to cut one window.
func (e *Extractor) Args(input string, start, length float64, output string) []string {
	// re-encode rather than stream copy: cuts land on arbitrary timestamps
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(length),
		"-i", input,
		"-vn",
		"-ac", strconv.Itoa(e.config.Channels),
		"-ar", strconv.Itoa(e.config.SampleRate),
	}
	if e.config.Format == FormatWAV {
		args = append(args, "-c:a", "pcm_s16le")
	} else {
		args = append(args, "-c:a", "libmp3lame", "-q:a", strconv.Itoa(e.config.Quality))
	}
	return append(args, output)
}

// Extract writes [start, start+length) of input to output.
func (e *Extractor) Extract(ctx context.Context, input string, start, length float64, output string) error {
	fail := func(err error) error {
		return &ExtractionError{Output: output, Start: start, Length: length, Err: err}
	}

	if length <= 0 {
		return fail(fmt.Errorf("non-positive length %v", length))
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fail(fmt.Errorf("create output dir: %w", err))
	}

	cmd := exec.CommandContext(ctx, e.config.Binary, e.Args(input, start, length, output)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	begin := time.Now()
	err := cmd.Run()
	elapsed := time.Since(begin)

	if err != nil {
		if ctx.Err() != nil {
			return fail(ctx.Err())
		}
		e.log.Error().Err(err).Dur("elapsed", elapsed).Str("stderr", strings.TrimSpace(stderr.String())).Msg("ffmpeg failed")
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fail(fmt.Errorf("%s exited with code %d: %s", e.config.Binary, exitErr.ExitCode(), strings.TrimSpace(stderr.String())))
		}
		return fail(fmt.Errorf("%s: %w", e.config.Binary, err))
	}

	info, err := os.Stat(output)
	if err != nil {
		return fail(fmt.Errorf("missing output: %w", err))
	}

	e.log.Debug().Str("output", output).Int64("bytes", info.Size()).Dur("elapsed", elapsed).Msg("chunk extracted")
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
