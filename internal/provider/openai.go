package provider

import (
	"strings"

	"github.com/leonardotrapani/longscribe/internal/language"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements Provider for the OpenAI audio API
type OpenAIProvider struct{}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) RequiresAPIKey() bool {
	return true
}

func (p *OpenAIProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "sk-")
}

func (p *OpenAIProvider) IsLocal() bool {
	return false
}

func (p *OpenAIProvider) Models() []Model {
	allLangs := language.Codes()
	endpoint := &EndpointConfig{BaseURL: openAIBaseURL, Path: "/audio/transcriptions"}
	docsURL := "https://platform.openai.com/docs/guides/speech-to-text"

	return []Model{
		{
			ID:                 "gpt-4o-mini-transcribe",
			Name:               "GPT-4o Mini Transcribe",
			Description:        "Fast and affordable, accepts a prompt",
			AdapterType:        AdapterOpenAI,
			MaxUploadMB:        25,
			SupportedLanguages: allLangs,
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "gpt-4o-transcribe",
			Name:               "GPT-4o Transcribe",
			Description:        "Highest accuracy OpenAI transcription",
			AdapterType:        AdapterOpenAI,
			MaxUploadMB:        25,
			SupportedLanguages: allLangs,
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "whisper-1",
			Name:               "Whisper 1",
			Description:        "OpenAI's production speech-to-text model",
			AdapterType:        AdapterOpenAI,
			MaxUploadMB:        25,
			SupportedLanguages: allLangs,
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
	}
}

func (p *OpenAIProvider) DefaultModel() string {
	return "gpt-4o-mini-transcribe"
}
