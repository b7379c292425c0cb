package transcriber

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenAIAdapter_Transcribe(t *testing.T) {
	var got struct {
		path, auth, model, language, prompt, filename, file string
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got.model = r.FormValue("model")
		got.language = r.FormValue("language")
		got.prompt = r.FormValue("prompt")
		if f, header, err := r.FormFile("file"); err == nil {
			data, _ := io.ReadAll(f)
			got.file = string(data)
			got.filename = header.Filename
			f.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"привет мир"}`)
	}))
	defer srv.Close()

	adapter := NewOpenAIAdapter(Config{
		Provider: "openai",
		APIKey:   "sk-test",
		Model:    "gpt-4o-mini-transcribe",
		Language: "ru",
		Prompt:   DefaultPrompt,
	}, srv.URL+"/v1")

	audio := writeAudio(t)
	text, err := adapter.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "привет мир" {
		t.Errorf("text = %q", text)
	}

	if got.path != "/v1/audio/transcriptions" {
		t.Errorf("path = %q", got.path)
	}
	if got.auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got.auth)
	}
	if got.model != "gpt-4o-mini-transcribe" {
		t.Errorf("model = %q", got.model)
	}
	if got.language != "ru" {
		t.Errorf("language = %q", got.language)
	}
	if got.prompt != DefaultPrompt {
		t.Errorf("prompt = %q", got.prompt)
	}
	if got.file != "ID3fake-audio" {
		t.Errorf("file content = %q", got.file)
	}
	if got.filename != filepath.Base(audio) {
		t.Errorf("filename = %q", got.filename)
	}
}

func TestOpenAIAdapter_ErrorClassification(t *testing.T) {
	tests := []struct {
		status        int
		wantPermanent bool
	}{
		{http.StatusUnauthorized, true},
		{http.StatusBadRequest, true},
		{http.StatusRequestTimeout, false},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"test"}}`)
			}))
			defer srv.Close()

			adapter := NewOpenAIAdapter(Config{Provider: "openai", APIKey: "sk-test", Model: "whisper-1"}, srv.URL+"/v1")
			_, err := adapter.Transcribe(context.Background(), writeAudio(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if IsPermanent(err) != tt.wantPermanent {
				t.Errorf("IsPermanent(%v) = %v, want %v", err, IsPermanent(err), tt.wantPermanent)
			}
		})
	}
}

func TestOpenAIAdapter_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mp3")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	adapter := NewOpenAIAdapter(Config{Provider: "openai", APIKey: "sk-test"}, "http://127.0.0.1:1")
	text, err := adapter.Transcribe(context.Background(), path)
	if err != nil || text != "" {
		t.Errorf("Transcribe(empty) = %q, %v; want empty, nil", text, err)
	}
}

func TestOpenAIAdapter_MissingFile(t *testing.T) {
	adapter := NewOpenAIAdapter(Config{Provider: "openai", APIKey: "sk-test"}, "http://127.0.0.1:1")
	_, err := adapter.Transcribe(context.Background(), "/no/such/chunk.mp3")
	if !IsPermanent(err) {
		t.Errorf("missing file should be permanent, got %v", err)
	}
}
