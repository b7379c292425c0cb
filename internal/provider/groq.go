package provider

import (
	"strings"

	"github.com/leonardotrapani/longscribe/internal/language"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider implements Provider for Groq's OpenAI-compatible audio API
type GroqProvider struct{}

func (p *GroqProvider) Name() string {
	return ProviderGroq
}

func (p *GroqProvider) RequiresAPIKey() bool {
	return true
}

func (p *GroqProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "gsk_")
}

func (p *GroqProvider) IsLocal() bool {
	return false
}

func (p *GroqProvider) Models() []Model {
	endpoint := &EndpointConfig{BaseURL: groqBaseURL, Path: "/audio/transcriptions"}
	docsURL := "https://console.groq.com/docs/speech-to-text"

	return []Model{
		{
			ID:                 "whisper-large-v3-turbo",
			Name:               "Whisper Large V3 Turbo",
			Description:        "Fast multilingual transcription",
			AdapterType:        AdapterOpenAI,
			MaxUploadMB:        25,
			SupportedLanguages: language.Codes(),
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "whisper-large-v3",
			Name:               "Whisper Large V3",
			Description:        "Best multilingual accuracy on Groq",
			AdapterType:        AdapterOpenAI,
			MaxUploadMB:        25,
			SupportedLanguages: language.Codes(),
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "distil-whisper-large-v3-en",
			Name:               "Distil Whisper English",
			Description:        "English only, fastest",
			AdapterType:        AdapterOpenAI,
			MaxUploadMB:        25,
			SupportedLanguages: []string{"en"},
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
	}
}

func (p *GroqProvider) DefaultModel() string {
	return "whisper-large-v3-turbo"
}
