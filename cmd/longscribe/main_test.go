package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/leonardotrapani/longscribe/internal/chunk"
	"github.com/leonardotrapani/longscribe/internal/config"
	"github.com/leonardotrapani/longscribe/internal/logging"
	"github.com/leonardotrapani/longscribe/internal/media"
	"github.com/leonardotrapani/longscribe/internal/testutil"
	"github.com/leonardotrapani/longscribe/internal/transcriber"
)

const (
	overlapA = "и поэтому комитет решил отложить голосование до следующей недели."
	overlapB = "После перерыва мы обсудим бюджет на следующий год подробно."
)

var chunkTexts = []string{
	"Доброе утро всем. Сегодня мы рассмотрим квартальные результаты, " + overlapA,
	overlapA + " Затем мы перешли к планам найма. " + overlapB,
	overlapB + " Спасибо всем, что пришли.",
}

type env struct {
	dir     string
	ffmpeg  string
	ffprobe string
	input   string
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.EnvDotenvPath, "")
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "missing.toml"))
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LONGSCRIBE_MODELS_DIR", filepath.Join(dir, "models"))
	t.Cleanup(logging.Reset)

	e := &env{
		dir:     dir,
		ffprobe: writeTool(t, dir, "ffprobe", `echo '{"format":{"duration":"1900.000000"}}'`),
		// writes its arguments to the output file (last argument)
		ffmpeg: writeTool(t, dir, "ffmpeg", "for last; do :; done\necho \"$@\" > \"$last\""),
		input:  filepath.Join(dir, "meeting.m4a"),
	}
	if err := os.WriteFile(e.input, []byte("not really audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return e
}

func writeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, "bin", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeConfig points the tools at the fakes and the OpenAI adapter at baseURL.
func (e *env) writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	content := fmt.Sprintf(`
[chunking]
scratch_dir = %q

[transcription]
base_url = %q
timeout = "5s"

[retry]
max_attempts = 2
initial_backoff = "1ms"
max_backoff = "2ms"

[tools]
ffmpeg = %q
ffprobe = %q
`, e.dir, baseURL, e.ffmpeg, e.ffprobe)

	return testutil.CreateTempConfigFile(t, content)
}

// fakeOpenAI answers transcription requests with texts in order.
func fakeOpenAI(t *testing.T, status int, texts ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("language") != "ru" {
			t.Errorf("language = %q, want ru", r.FormValue("language"))
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"denied","type":"invalid_request_error"}}`))
			return
		}
		text := ""
		if n < len(texts) {
			text = texts[n]
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_EndToEnd(t *testing.T) {
	e := setupEnv(t)
	srv, calls := fakeOpenAI(t, http.StatusOK, chunkTexts...)
	cfgPath := e.writeConfig(t, srv.URL+"/v1")

	stdout, stderr, err := execute(t, "--config", cfgPath, e.input)
	if err != nil {
		t.Fatalf("execute error = %v\nstderr: %s", err, stderr)
	}

	output := filepath.Join(e.dir, defaultOutput)
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("default output not written: %v", err)
	}
	want := chunkTexts[0] + "\n" +
		"Затем мы перешли к планам найма. " + overlapB + "\n" +
		"Спасибо всем, что пришли.\n"
	if string(data) != want {
		t.Errorf("output =\n%q\nwant\n%q", data, want)
	}

	if calls.Load() != 3 {
		t.Errorf("API calls = %d, want 3", calls.Load())
	}
	for _, line := range []string{"Audio duration: 1900.000s", "Creating 3 chunks in: ", "Transcribing chunk 2/2..."} {
		if !strings.Contains(stdout, line) {
			t.Errorf("stdout missing %q:\n%s", line, stdout)
		}
	}
	if !strings.HasSuffix(stdout, "Saved transcription to: "+defaultOutput+"\n") {
		t.Errorf("stdout should end with the output path:\n%s", stdout)
	}
}

func TestRoot_ExplicitOutputAndFlags(t *testing.T) {
	e := setupEnv(t)
	srv, calls := fakeOpenAI(t, http.StatusOK, "Короткая запись.")
	cfgPath := e.writeConfig(t, srv.URL+"/v1")
	output := filepath.Join(e.dir, "out", "talk.txt")

	_, stderr, err := execute(t, "--config", cfgPath, "--chunk-seconds", "3600", "--keep-chunks", e.input, output)
	if err != nil {
		t.Fatalf("execute error = %v\nstderr: %s", err, stderr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "Короткая запись.\n" {
		t.Errorf("output = %q", data)
	}
	if calls.Load() != 1 {
		t.Errorf("one chunk expected with --chunk-seconds 3600, got %d calls", calls.Load())
	}

	kept, _ := filepath.Glob(filepath.Join(e.dir, "longscribe-*", "chunk_0000.mp3"))
	if len(kept) != 1 {
		t.Errorf("--keep-chunks should keep the chunk, found %v", kept)
	}
}

func TestRoot_TranscriptionFailureWritesNothing(t *testing.T) {
	e := setupEnv(t)
	srv, calls := fakeOpenAI(t, http.StatusUnauthorized)
	cfgPath := e.writeConfig(t, srv.URL+"/v1")
	output := filepath.Join(e.dir, "out.txt")

	_, stderr, err := execute(t, "--config", cfgPath, e.input, output)
	if !transcriber.IsTranscriptionError(err) {
		t.Fatalf("error = %v, want TranscriptionError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("401 should not be retried, got %d calls", calls.Load())
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output written despite failure")
	}
	if !strings.Contains(stderr, "Chunks kept in: ") {
		t.Errorf("stderr should point at the scratch dir:\n%s", stderr)
	}
}

func TestRoot_Usage(t *testing.T) {
	setupEnv(t)

	tests := [][]string{
		{},
		{"a.mp3", "b.txt", "c"},
	}
	for _, args := range tests {
		_, stderr, err := execute(t, args...)
		if !errors.Is(err, errUsage) {
			t.Errorf("args %v: error = %v, want usage error", args, err)
		}
		if !strings.Contains(stderr, "Usage:") {
			t.Errorf("args %v: usage not printed to stderr:\n%s", args, stderr)
		}
	}
}

func TestRoot_InvalidChunking(t *testing.T) {
	e := setupEnv(t)

	_, _, err := execute(t, "--chunk-seconds", "10", "--overlap-seconds", "10", e.input)
	if !chunk.IsConfigurationError(err) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
}

func TestRoot_MissingAPIKey(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, _, err := execute(t, e.input)
	if !chunk.IsConfigurationError(err) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
}

func TestRoot_MissingInput(t *testing.T) {
	e := setupEnv(t)
	srv, calls := fakeOpenAI(t, http.StatusOK)
	cfgPath := e.writeConfig(t, srv.URL+"/v1")

	_, _, err := execute(t, "--config", cfgPath, filepath.Join(e.dir, "nope.mp3"))
	if !media.IsProbeError(err) {
		t.Fatalf("error = %v, want ProbeError", err)
	}
	if calls.Load() != 0 {
		t.Error("no API call expected")
	}
}

func TestPlanCmd(t *testing.T) {
	e := setupEnv(t)
	cfgPath := e.writeConfig(t, "")

	stdout, _, err := execute(t, "plan", "--config", cfgPath, e.input)
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}
	for _, want := range []string{"meeting.m4a", "3 chunks", "chunk_0002.mp3", "0:29:30.0", "130.0s", "overlap 15.0s"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("plan output missing %q:\n%s", want, stdout)
		}
	}
}

func TestDoctorCmd(t *testing.T) {
	e := setupEnv(t)
	cfgPath := e.writeConfig(t, "")

	stdout, _, err := execute(t, "doctor", "--config", cfgPath)
	if err != nil {
		t.Fatalf("doctor error = %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "Everything looks good.") {
		t.Errorf("doctor output:\n%s", stdout)
	}

	t.Setenv("OPENAI_API_KEY", "")
	stdout, _, err = execute(t, "doctor", "--config", cfgPath)
	if err == nil || !strings.Contains(stdout, "Problem:") {
		t.Errorf("doctor should report the missing key, err=%v\n%s", err, stdout)
	}
}

func TestModelsList(t *testing.T) {
	setupEnv(t)

	stdout, _, err := execute(t, "models", "list")
	if err != nil {
		t.Fatalf("models list error = %v", err)
	}
	for _, want := range []string{"gpt-4o-mini-transcribe *", "whisper-large-v3-turbo *", "scribe_v1 *", "English (en)", "not installed"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("models list missing %q:\n%s", want, stdout)
		}
	}

	if _, _, err := execute(t, "models", "list", "--provider", "deepgram"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelsDownloadAndRemove_CloudModel(t *testing.T) {
	setupEnv(t)

	stdout, _, err := execute(t, "models", "download", "whisper-1")
	if err != nil || !strings.Contains(stdout, "cloud model") {
		t.Errorf("download cloud model: err=%v out=%q", err, stdout)
	}
	stdout, _, err = execute(t, "models", "remove", "scribe_v1")
	if err != nil || !strings.Contains(stdout, "cloud model") {
		t.Errorf("remove cloud model: err=%v out=%q", err, stdout)
	}
	if _, _, err := execute(t, "models", "remove", "base"); err == nil {
		t.Error("expected error removing a model that is not installed")
	}
	if _, _, err := execute(t, "models", "download", "huge-v9"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil || stdout != "longscribe dev\n" {
		t.Errorf("version = %q, %v", stdout, err)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "unset flags keep config",
			args: []string{"in.mp3"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Chunking.ChunkSeconds != 600 || cfg.Transcription.Language != "ru" {
					t.Errorf("config changed: %+v", cfg.Chunking)
				}
			},
		},
		{
			name: "provider switches to its default model",
			args: []string{"--provider", "groq", "in.mp3"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Transcription.Provider != "groq" || cfg.Transcription.Model != "whisper-large-v3-turbo" {
					t.Errorf("transcription = %+v", cfg.Transcription)
				}
			},
		},
		{
			name: "explicit model wins",
			args: []string{"--provider", "groq", "--model", "whisper-large-v3", "in.mp3"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Transcription.Model != "whisper-large-v3" {
					t.Errorf("model = %q", cfg.Transcription.Model)
				}
			},
		},
		{
			name: "auto language",
			args: []string{"-l", "auto", "--prompt", "", "in.mp3"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Transcription.Language != "" || cfg.Transcription.Prompt != "" {
					t.Errorf("transcription = %+v", cfg.Transcription)
				}
			},
		},
		{
			name: "verbose and chunking",
			args: []string{"-v", "--overlap-seconds", "30", "--keep-chunks", "in.mp3"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Log.Level != "debug" || cfg.Chunking.OverlapSeconds != 30 || !cfg.Chunking.KeepChunks {
					t.Errorf("cfg = %+v %+v", cfg.Log, cfg.Chunking)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &options{}
			cmd := newRootCmdWithOptions(opts)

			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			cfg := config.DefaultConfig()
			cfg.Chunking.ChunkSeconds = 600
			applyFlags(cmd, opts, cfg)
			tt.check(t, cfg)
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[float64]string{
		0:      "0:00:00.0",
		885:    "0:14:45.0",
		1770.5: "0:29:30.5",
		3725.2: "1:02:05.2",
	}
	for in, want := range tests {
		if got := formatClock(in); got != want {
			t.Errorf("formatClock(%v) = %q, want %q", in, got, want)
		}
	}
}
