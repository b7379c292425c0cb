package provider

import (
	"fmt"
	"sort"

	"github.com/leonardotrapani/longscribe/internal/language"
)

// Provider defines the interface for a transcription service provider
type Provider interface {
	Name() string
	RequiresAPIKey() bool
	ValidateAPIKey(key string) bool
	IsLocal() bool
	Models() []Model
	DefaultModel() string
}

// ProviderConfig holds configuration for a single provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

var registry = make(map[string]Provider)

func init() {
	Register(&OpenAIProvider{})
	Register(&GroqProvider{})
	Register(&ElevenLabsProvider{})
	Register(&MistralProvider{})
	Register(&WhisperCppProvider{})
}

// Register adds a provider to the registry
func Register(p Provider) {
	registry[p.Name()] = p
}

// GetProvider returns a provider by name, or nil if not found
func GetProvider(name string) Provider {
	return registry[name]
}

// ListProviders returns all registered provider names, sorted
func ListProviders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetModel returns the model with the given ID from a provider
func GetModel(providerName, modelID string) (*Model, error) {
	p := GetProvider(providerName)
	if p == nil {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
	for _, m := range p.Models() {
		if m.ID == modelID {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("unknown model %q for provider %s", modelID, providerName)
}

// ValidateModelLanguage checks that the model accepts the language hint
func ValidateModelLanguage(providerName, modelID, lang string) error {
	m, err := GetModel(providerName, modelID)
	if err != nil {
		return err
	}
	if !m.SupportsLanguage(lang) {
		return fmt.Errorf("model %s does not support %s", modelID, language.Label(lang))
	}
	return nil
}
