package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/longscribe/internal/language"
	"github.com/leonardotrapani/longscribe/internal/logging"
	"github.com/leonardotrapani/longscribe/internal/models/whisper"
	"github.com/leonardotrapani/longscribe/internal/provider"
)

// WhisperCppAdapter implements Client for local whisper-cpp transcription.
// Chunks must be 16 kHz WAV.
type WhisperCppAdapter struct {
	binary    string
	modelPath string
	language  string
	prompt    string
	threads   int
	log       zerolog.Logger
}

// NewWhisperCppAdapter resolves the model (ID or file path) up front so a
// missing model fails the run before any audio is cut.
func NewWhisperCppAdapter(config Config) (*WhisperCppAdapter, error) {
	modelPath, err := whisper.ResolveModelPath(config.Model)
	if err != nil {
		return nil, err
	}

	binary := strings.TrimSpace(config.WhisperBinary)
	if binary == "" {
		binary = "whisper-cli"
	}

	return &WhisperCppAdapter{
		binary:    binary,
		modelPath: modelPath,
		language:  language.ToProviderFormat(config.Language, provider.ProviderWhisperCpp),
		prompt:    config.Prompt,
		threads:   config.Threads,
		log:       logging.Component("whisper-cpp"),
	}, nil
}

// Args returns the whisper-cli arguments for one file.
func (a *WhisperCppAdapter) Args(path string) []string {
	args := []string{
		"-m", a.modelPath,
		"-l", a.language,
		"-nt", // no timestamps
		"-np", // no progress
		"-f", path,
	}
	if a.prompt != "" {
		args = append(args, "--prompt", a.prompt)
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}
	return args
}

func (a *WhisperCppAdapter) Transcribe(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", NewPermanentError(fmt.Errorf("open audio: %w", err))
	}
	if info.Size() == 0 {
		return "", nil
	}

	if _, err := os.Stat(a.modelPath); err != nil {
		return "", NewPermanentError(fmt.Errorf("model file not found: %s", a.modelPath))
	}

	cmd := exec.CommandContext(ctx, a.binary, a.Args(path)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		a.log.Error().Err(err).Dur("elapsed", duration).Str("stderr", stderr.String()).Msg("command failed")
		if _, lookErr := exec.LookPath(a.binary); lookErr != nil {
			return "", NewPermanentError(fmt.Errorf("%s not found: install whisper.cpp first", a.binary))
		}
		return "", fmt.Errorf("whisper-cli failed: %w", err)
	}

	// with -nt whisper-cli prints one segment per line
	text := strings.Join(strings.Fields(stdout.String()), " ")

	a.log.Debug().Int64("bytes", info.Size()).Dur("elapsed", duration).Int("chars", len(text)).Msg("transcribed")
	return text, nil
}
