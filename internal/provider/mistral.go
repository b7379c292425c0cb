package provider

import "github.com/leonardotrapani/longscribe/internal/language"

const mistralBaseURL = "https://api.mistral.ai/v1"

// MistralProvider implements Provider for Mistral's Voxtral transcription,
// served through the OpenAI-compatible audio endpoint.
type MistralProvider struct{}

func (p *MistralProvider) Name() string {
	return ProviderMistral
}

func (p *MistralProvider) RequiresAPIKey() bool {
	return true
}

// Mistral keys have no fixed prefix.
func (p *MistralProvider) ValidateAPIKey(key string) bool {
	return len(key) > 0
}

func (p *MistralProvider) IsLocal() bool {
	return false
}

func (p *MistralProvider) Models() []Model {
	endpoint := &EndpointConfig{BaseURL: mistralBaseURL, Path: "/audio/transcriptions"}
	docsURL := "https://docs.mistral.ai/capabilities/speech/"

	return []Model{
		{
			ID:                 "voxtral-mini-latest",
			Name:               "Voxtral Mini Latest",
			Description:        "Latest Voxtral model, best for most uses",
			AdapterType:        AdapterOpenAI,
			SupportedLanguages: language.Codes(),
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "voxtral-mini-2507",
			Name:               "Voxtral Mini 2507",
			Description:        "Stable Voxtral version from July 2025",
			AdapterType:        AdapterOpenAI,
			SupportedLanguages: language.Codes(),
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
	}
}

func (p *MistralProvider) DefaultModel() string {
	return "voxtral-mini-latest"
}
