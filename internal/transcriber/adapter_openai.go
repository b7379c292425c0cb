package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/leonardotrapani/longscribe/internal/language"
	"github.com/leonardotrapani/longscribe/internal/logging"
)

// OpenAIAdapter implements Client for OpenAI and OpenAI-compatible audio APIs
// (Groq, Mistral).
type OpenAIAdapter struct {
	client *openai.Client
	config Config
	log    zerolog.Logger
}

func NewOpenAIAdapter(config Config, baseURL string) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		log:    logging.Component(config.Provider + "-adapter"),
	}
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", NewPermanentError(fmt.Errorf("open audio: %w", err))
	}
	if info.Size() == 0 {
		return "", nil
	}

	// Reader left nil: go-openai streams the file from FilePath
	req := openai.AudioRequest{
		Model:    a.config.Model,
		FilePath: path,
		Language: language.ToProviderFormat(a.config.Language, a.config.Provider),
		Prompt:   a.config.Prompt,
	}

	start := time.Now()
	resp, err := a.client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		a.log.Warn().Err(err).Dur("elapsed", duration).Str("path", path).Msg("API call failed")
		return "", classifyOpenAIError(fmt.Errorf("%s transcription: %w", a.config.Provider, err))
	}

	a.log.Debug().Int64("bytes", info.Size()).Dur("elapsed", duration).Int("chars", len(resp.Text)).Msg("transcribed")
	return resp.Text, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && isPermanentStatus(apiErr.HTTPStatusCode) {
		return NewPermanentError(err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && isPermanentStatus(reqErr.HTTPStatusCode) {
		return NewPermanentError(err)
	}
	return err
}
