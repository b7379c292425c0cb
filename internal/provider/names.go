package provider

// Provider name constants for config and registry
const (
	ProviderOpenAI     = "openai"
	ProviderGroq       = "groq"
	ProviderElevenLabs = "elevenlabs"
	ProviderMistral    = "mistral"
	ProviderWhisperCpp = "whisper-cpp"
)

// Environment variable names for API keys
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGroqKey       = "GROQ_API_KEY"
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"
	EnvMistralKey    = "MISTRAL_API_KEY"
)

// Adapter type constants for transcription backends
const (
	AdapterOpenAI     = "openai"
	AdapterElevenLabs = "elevenlabs"
	AdapterWhisperCpp = "whisper-cpp"
)

// EnvVarForProvider returns the environment variable name for a provider's API key
func EnvVarForProvider(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return EnvOpenAIKey
	case ProviderGroq:
		return EnvGroqKey
	case ProviderElevenLabs:
		return EnvElevenLabsKey
	case ProviderMistral:
		return EnvMistralKey
	default:
		return ""
	}
}
