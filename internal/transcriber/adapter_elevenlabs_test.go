package transcriber

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leonardotrapani/longscribe/internal/provider"
)

func TestElevenLabsAdapter_Transcribe(t *testing.T) {
	var apiKey, model, lang, file string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/speech-to-text" {
			http.NotFound(w, r)
			return
		}
		apiKey = r.Header.Get("xi-api-key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		model = r.FormValue("model_id")
		lang = r.FormValue("language_code")
		if f, _, err := r.FormFile("file"); err == nil {
			data, _ := io.ReadAll(f)
			file = string(data)
			f.Close()
		}
		_, _ = io.WriteString(w, `{"text":"hello from scribe"}`)
	}))
	defer srv.Close()

	adapter := NewElevenLabsAdapter(
		&provider.EndpointConfig{BaseURL: srv.URL, Path: "/v1/speech-to-text"},
		Config{APIKey: "xi-test", Model: "scribe_v1", Language: "ru"},
	)

	text, err := adapter.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello from scribe" {
		t.Errorf("text = %q", text)
	}
	if apiKey != "xi-test" {
		t.Errorf("xi-api-key = %q", apiKey)
	}
	if model != "scribe_v1" {
		t.Errorf("model_id = %q", model)
	}
	if lang != "rus" {
		t.Errorf("language_code = %q, want rus", lang)
	}
	if file != "ID3fake-audio" {
		t.Errorf("file = %q", file)
	}
}

func TestElevenLabsAdapter_NoLanguage(t *testing.T) {
	sawLanguage := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		_, sawLanguage = r.MultipartForm.Value["language_code"]
		_, _ = io.WriteString(w, `{"text":""}`)
	}))
	defer srv.Close()

	adapter := NewElevenLabsAdapter(&provider.EndpointConfig{BaseURL: srv.URL}, Config{APIKey: "k", Model: "scribe_v1"})
	if _, err := adapter.Transcribe(context.Background(), writeAudio(t)); err != nil {
		t.Fatal(err)
	}
	if sawLanguage {
		t.Error("language_code sent without a hint")
	}
}

func TestElevenLabsAdapter_Status(t *testing.T) {
	tests := []struct {
		status        int
		wantPermanent bool
	}{
		{http.StatusUnauthorized, true},
		{http.StatusUnprocessableEntity, true},
		{http.StatusTooManyRequests, false},
		{http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				http.Error(w, `{"detail":"nope"}`, tt.status)
			}))
			defer srv.Close()

			adapter := NewElevenLabsAdapter(&provider.EndpointConfig{BaseURL: srv.URL}, Config{APIKey: "k", Model: "scribe_v1"})
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
