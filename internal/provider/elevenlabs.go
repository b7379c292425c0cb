package provider

import "github.com/leonardotrapani/longscribe/internal/language"

// ElevenLabsProvider implements Provider for the ElevenLabs Scribe API
type ElevenLabsProvider struct{}

func (p *ElevenLabsProvider) Name() string {
	return ProviderElevenLabs
}

func (p *ElevenLabsProvider) RequiresAPIKey() bool {
	return true
}

func (p *ElevenLabsProvider) ValidateAPIKey(key string) bool {
	// ElevenLabs API keys don't have a consistent prefix, just check non-empty
	return len(key) > 0
}

func (p *ElevenLabsProvider) IsLocal() bool {
	return false
}

func (p *ElevenLabsProvider) Models() []Model {
	// scribe covers every Whisper-family language; hints are sent as ISO 639-3
	endpoint := &EndpointConfig{BaseURL: "https://api.elevenlabs.io", Path: "/v1/speech-to-text"}
	docsURL := "https://elevenlabs.io/speech-to-text"

	return []Model{
		{
			ID:                 "scribe_v1",
			Name:               "Scribe v1",
			Description:        "90+ languages, best accuracy",
			AdapterType:        AdapterElevenLabs,
			MaxUploadMB:        1000,
			SupportedLanguages: language.Codes(),
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "scribe_v2",
			Name:               "Scribe v2",
			Description:        "Lower latency batch transcription",
			AdapterType:        AdapterElevenLabs,
			MaxUploadMB:        1000,
			SupportedLanguages: language.Codes(),
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
	}
}

func (p *ElevenLabsProvider) DefaultModel() string {
	return "scribe_v1"
}
