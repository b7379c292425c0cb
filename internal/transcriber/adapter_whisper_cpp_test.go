package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func fakeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-fake.bin")
	if err := os.WriteFile(path, []byte("ggml"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fakeWhisperCli(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "whisper-cli")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWhisperCppAdapter_Args(t *testing.T) {
	model := fakeModel(t)

	adapter, err := NewWhisperCppAdapter(Config{Model: model, Language: "ru", Prompt: "hint", Threads: 4})
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(adapter.Args("chunk.wav"), " ")
	want := "-m " + model + " -l ru -nt -np -f chunk.wav --prompt hint -t 4"
	if got != want {
		t.Errorf("Args() = %q, want %q", got, want)
	}

	adapter, _ = NewWhisperCppAdapter(Config{Model: model})
	got = strings.Join(adapter.Args("chunk.wav"), " ")
	if !strings.Contains(got, "-l auto") || strings.Contains(got, "-t ") || strings.Contains(got, "--prompt") {
		t.Errorf("Args() without options = %q", got)
	}
}

func TestWhisperCppAdapter_Transcribe(t *testing.T) {
	bin := fakeWhisperCli(t, "echo ' first segment'\necho ' second segment'\n")

	adapter, err := NewWhisperCppAdapter(Config{Model: fakeModel(t), WhisperBinary: bin, Language: "en"})
	if err != nil {
		t.Fatal(err)
	}

	text, err := adapter.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "first segment second segment" {
		t.Errorf("text = %q", text)
	}
}

func TestWhisperCppAdapter_CommandFails(t *testing.T) {
	bin := fakeWhisperCli(t, "echo 'failed to read audio' >&2\nexit 2\n")

	adapter, err := NewWhisperCppAdapter(Config{Model: fakeModel(t), WhisperBinary: bin})
	if err != nil {
		t.Fatal(err)
	}

	_, err = adapter.Transcribe(context.Background(), writeAudio(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if IsPermanent(err) {
		t.Errorf("command failure should be retryable, got %v", err)
	}
}

func TestWhisperCppAdapter_MissingBinary(t *testing.T) {
	adapter, err := NewWhisperCppAdapter(Config{Model: fakeModel(t), WhisperBinary: filepath.Join(t.TempDir(), "whisper-cli")})
	if err != nil {
		t.Fatal(err)
	}

	_, err = adapter.Transcribe(context.Background(), writeAudio(t))
	if !IsPermanent(err) {
		t.Errorf("missing binary should be permanent, got %v", err)
	}
}

func TestWhisperCppAdapter_MissingModel(t *testing.T) {
	_, err := NewWhisperCppAdapter(Config{Model: "/nonexistent/path/model.bin"})
	if err == nil || !strings.Contains(err.Error(), "model file not found") {
		t.Errorf("expected 'model file not found' error, got: %v", err)
	}
}
