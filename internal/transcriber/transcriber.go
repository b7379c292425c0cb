// Package transcriber turns one audio file into text using a configured
// speech-to-text backend.
package transcriber

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leonardotrapani/longscribe/internal/provider"
)

// DefaultPrompt tells the model it is looking at a slice of a longer recording.
const DefaultPrompt = "This is a chunk of a longer recording. Transcribe verbatim. " +
	"Do NOT add headings. If the chunk starts mid-sentence, continue naturally."

// Client transcribes an audio file. An empty string with a nil error means
// nothing was recognized.
type Client interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Config for a transcription backend. Built once at startup and passed in;
// adapters keep no global state.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	// Language is an ISO 639-1 hint; adapters convert it per provider.
	Language string
	Prompt   string
	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string
	Timeout time.Duration

	// whisper-cpp only
	WhisperBinary string
	Threads       int
}

// DefaultConfig returns the OpenAI configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Provider: provider.ProviderOpenAI,
		Model:    (&provider.OpenAIProvider{}).DefaultModel(),
		Language: "ru",
		Prompt:   DefaultPrompt,
	}
}

// New creates the adapter for config.Provider.
func New(config Config) (Client, error) {
	p := provider.GetProvider(config.Provider)
	if p == nil {
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
	if p.RequiresAPIKey() && strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("%s API key required (set %s or providers.%s.api_key)",
			config.Provider, provider.EnvVarForProvider(config.Provider), config.Provider)
	}
	if config.Model == "" {
		config.Model = p.DefaultModel()
	}

	model := resolveModel(p, config.Model)

	switch model.AdapterType {
	case provider.AdapterOpenAI:
		baseURL := config.BaseURL
		if baseURL == "" && model.Endpoint != nil {
			baseURL = model.Endpoint.BaseURL
		}
		return NewOpenAIAdapter(config, baseURL), nil

	case provider.AdapterElevenLabs:
		endpoint := *model.Endpoint
		if config.BaseURL != "" {
			endpoint.BaseURL = config.BaseURL
		}
		return NewElevenLabsAdapter(&endpoint, config), nil

	case provider.AdapterWhisperCpp:
		return NewWhisperCppAdapter(config)

	default:
		return nil, fmt.Errorf("no adapter for provider %s", config.Provider)
	}
}

// resolveModel finds the model entry; unknown IDs use the provider default's
// adapter and endpoint so newly released models work without a code change.
func resolveModel(p provider.Provider, id string) provider.Model {
	var fallback provider.Model
	for _, m := range p.Models() {
		if m.ID == id {
			return m
		}
		if m.ID == p.DefaultModel() {
			fallback = m
		}
	}
	fallback.ID = id
	return fallback
}
