package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/longscribe/internal/language"
	"github.com/leonardotrapani/longscribe/internal/logging"
	"github.com/leonardotrapani/longscribe/internal/provider"
)

// ElevenLabsAdapter implements Client for the ElevenLabs Scribe API
type ElevenLabsAdapter struct {
	client   *http.Client
	endpoint *provider.EndpointConfig
	apiKey   string
	model    string
	language string
	log      zerolog.Logger
}

// ElevenLabsResponse represents the API response
type ElevenLabsResponse struct {
	Text string `json:"text"`
}

// NewElevenLabsAdapter creates an adapter for ElevenLabs Scribe API
func NewElevenLabsAdapter(endpoint *provider.EndpointConfig, config Config) *ElevenLabsAdapter {
	return &ElevenLabsAdapter{
		client:   &http.Client{Timeout: config.Timeout},
		endpoint: endpoint,
		apiKey:   config.APIKey,
		model:    config.Model,
		language: language.ToProviderFormat(config.Language, provider.ProviderElevenLabs),
		log:      logging.Component("elevenlabs-adapter"),
	}
}

// Transcribe uploads the file to ElevenLabs. Scribe takes no prompt.
func (a *ElevenLabsAdapter) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", NewPermanentError(fmt.Errorf("open audio: %w", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", NewPermanentError(fmt.Errorf("stat audio: %w", err))
	}
	if info.Size() == 0 {
		return "", nil
	}

	body, contentType := a.multipartBody(f, filepath.Base(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint.URL(), body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("xi-api-key", a.apiKey)

	start := time.Now()
	resp, err := a.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		a.log.Warn().Err(err).Dur("elapsed", duration).Msg("API call failed")
		return "", fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		a.log.Warn().Int("status", resp.StatusCode).Str("body", string(bodyBytes)).Msg("API returned error")
		err := fmt.Errorf("elevenlabs API status %d: %s", resp.StatusCode, string(bodyBytes))
		if isPermanentStatus(resp.StatusCode) {
			return "", NewPermanentError(err)
		}
		return "", err
	}

	var result ElevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	a.log.Debug().Int64("bytes", info.Size()).Dur("elapsed", duration).Int("chars", len(result.Text)).Msg("transcribed")
	return result.Text, nil
}

// multipartBody streams the form through a pipe so chunk files are never
// held in memory whole.
func (a *ElevenLabsAdapter) multipartBody(audio io.Reader, filename string) (io.Reader, string) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(a.writeForm(writer, audio, filename))
	}()

	return pr, writer.FormDataContentType()
}

func (a *ElevenLabsAdapter) writeForm(writer *multipart.Writer, audio io.Reader, filename string) error {
	if err := writer.WriteField("model_id", a.model); err != nil {
		return fmt.Errorf("write model_id: %w", err)
	}
	if a.language != "" {
		if err := writer.WriteField("language_code", a.language); err != nil {
			return fmt.Errorf("write language_code: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return fmt.Errorf("copy audio data: %w", err)
	}
	return writer.Close()
}
