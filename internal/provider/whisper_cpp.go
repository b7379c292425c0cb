package provider

import (
	"github.com/leonardotrapani/longscribe/internal/language"
	"github.com/leonardotrapani/longscribe/internal/models/whisper"
)

// WhisperCppProvider implements Provider for local whisper.cpp transcription
type WhisperCppProvider struct{}

func (p *WhisperCppProvider) Name() string {
	return ProviderWhisperCpp
}

func (p *WhisperCppProvider) RequiresAPIKey() bool {
	return false
}

func (p *WhisperCppProvider) ValidateAPIKey(key string) bool {
	return true // no API key needed
}

func (p *WhisperCppProvider) IsLocal() bool {
	return true
}

func (p *WhisperCppProvider) Models() []Model {
	// https://github.com/ggml-org/whisper.cpp#models
	docsURL := "https://github.com/ggml-org/whisper.cpp#models"

	whisperModels := whisper.ListModels()
	result := make([]Model, 0, len(whisperModels))

	for _, wm := range whisperModels {
		langs := []string{"en"}
		if wm.Multilingual {
			langs = language.Codes()
		}

		result = append(result, Model{
			ID:                 wm.ID,
			Name:               wm.Name,
			Description:        modelDescription(wm),
			Local:              true,
			AdapterType:        AdapterWhisperCpp,
			SupportedLanguages: langs,
			LocalInfo: &LocalModelInfo{
				Filename:    wm.Filename,
				Size:        wm.Size,
				DownloadURL: whisper.GetDownloadURL(wm.ID),
			},
			DocsURL: docsURL,
		})
	}

	return result
}

// DefaultModel is multilingual: long recordings are rarely English-only
func (p *WhisperCppProvider) DefaultModel() string {
	return "base"
}

func modelDescription(m whisper.ModelInfo) string {
	switch m.ID {
	case "tiny.en":
		return "Offline; fastest but low accuracy"
	case "base.en":
		return "Offline; balanced speed and accuracy"
	case "small.en":
		return "Offline; better accuracy, needs decent CPU"
	case "medium.en":
		return "Offline; best .en accuracy, needs good CPU/RAM"
	case "tiny":
		return "Offline multilingual; fastest but low accuracy"
	case "base":
		return "Offline multilingual; balanced, recommended start"
	case "small":
		return "Offline multilingual; better accuracy, needs decent CPU"
	case "medium":
		return "Offline multilingual; great accuracy, slow on long recordings"
	case "large-v3":
		return "Offline; best accuracy, needs strong hardware"
	}
	if m.Multilingual {
		return "Offline multilingual model"
	}
	return "Offline English model"
}
