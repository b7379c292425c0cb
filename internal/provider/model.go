package provider

// Model represents a transcription model with full metadata
type Model struct {
	ID                 string          // unique identifier (e.g., "gpt-4o-mini-transcribe")
	Name               string          // display name
	Description        string          // short description
	Local              bool            // runs locally (no API call)
	AdapterType        string          // which adapter to use (e.g., "openai", "elevenlabs", "whisper-cpp")
	MaxUploadMB        int             // per-request upload limit, 0 if none
	SupportedLanguages []string        // ISO 639-1 codes accepted as a hint
	Endpoint           *EndpointConfig // nil for local models
	LocalInfo          *LocalModelInfo // nil for cloud models
	DocsURL            string          // URL to provider's model documentation
}

// EndpointConfig holds HTTP endpoint configuration
type EndpointConfig struct {
	BaseURL string // e.g., "https://api.openai.com/v1"
	Path    string // e.g., "/audio/transcriptions"
}

// URL joins base URL and path
func (e *EndpointConfig) URL() string {
	if e == nil {
		return ""
	}
	return e.BaseURL + e.Path
}

// LocalModelInfo holds metadata for downloadable local models
type LocalModelInfo struct {
	Filename    string // e.g., "ggml-base.bin"
	Size        string // human readable size (e.g., "142MB")
	DownloadURL string // full URL to download from
}

// NeedsDownload returns true if this is a local model that requires downloading
func (m *Model) NeedsDownload() bool {
	return m.LocalInfo != nil
}

// SupportsLanguage returns true if the model supports the given language code.
// Auto-detect (empty string) is always supported.
func (m *Model) SupportsLanguage(code string) bool {
	if code == "" {
		return true
	}
	for _, supported := range m.SupportedLanguages {
		if supported == code {
			return true
		}
	}
	return false
}
