package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/longscribe/internal/config"
	"github.com/leonardotrapani/longscribe/internal/language"
	"github.com/leonardotrapani/longscribe/internal/models/whisper"
	"github.com/leonardotrapani/longscribe/internal/provider"
)

// providerDisplayNames maps provider IDs to human-readable names.
var providerDisplayNames = map[string]string{
	"openai":      "OpenAI",
	"groq":        "Groq",
	"elevenlabs":  "ElevenLabs",
	"mistral":     "Mistral",
	"whisper-cpp": "Whisper.cpp (local)",
}

func getProviderDisplayName(providerName string) string {
	if name, ok := providerDisplayNames[providerName]; ok {
		return name
	}
	return providerName
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

func getConfiguredProviders(cfg *config.Config) []string {
	providers := make([]string, 0, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		if pc.APIKey != "" {
			providers = append(providers, name)
		}
	}
	sort.Strings(providers)
	return providers
}

// providerOptions lists every registered provider, noting whether a key is
// already available for it.
func providerOptions(cfg *config.Config) []huh.Option[string] {
	names := provider.ListProviders()
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		label := getProviderDisplayName(name)
		p := provider.GetProvider(name)
		if p.RequiresAPIKey() && cfg.ResolveAPIKey(name) == "" {
			label += " (no API key)"
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

func buildModelDesc(m provider.Model) string {
	parts := []string{}
	if m.Description != "" {
		parts = append(parts, m.Description)
	} else if m.Name != "" {
		parts = append(parts, m.Name)
	}

	if m.MaxUploadMB > 0 {
		parts = append(parts, fmt.Sprintf("%dMB upload limit", m.MaxUploadMB))
	}

	if m.Local && m.LocalInfo != nil && m.LocalInfo.Size != "" {
		parts = append(parts, fmt.Sprintf("size %s", m.LocalInfo.Size))
		if whisper.IsInstalled(m.ID) {
			parts = append(parts, "installed")
		} else {
			parts = append(parts, "not installed")
		}
	}

	if len(parts) == 0 {
		return "Transcription model"
	}
	return strings.Join(parts, " - ")
}

func modelOptions(providerName string) []huh.Option[string] {
	p := provider.GetProvider(providerName)
	if p == nil {
		return []huh.Option[string]{}
	}

	models := p.Models()
	options := make([]huh.Option[string], 0, len(models))
	for _, m := range models {
		label := m.ID
		if m.ID == p.DefaultModel() {
			label += " (default)"
		}
		options = append(options, huh.NewOption(label+" - "+buildModelDesc(m), m.ID))
	}
	return options
}

// languageOptions lists the hints a model accepts, auto-detect first.
func languageOptions(providerName, modelID string) []huh.Option[string] {
	m, err := provider.GetModel(providerName, modelID)

	options := []huh.Option[string]{huh.NewOption(language.Auto.Name, "")}
	for _, lang := range language.List() {
		if err == nil && !m.SupportsLanguage(lang.Code) {
			continue
		}
		label := language.Label(lang.Code)
		if lang.NativeName != "" && lang.NativeName != lang.Name {
			label += " " + lang.NativeName
		}
		options = append(options, huh.NewOption(label, lang.Code))
	}
	return options
}

// parseSeconds accepts a positive number of seconds, or zero when allowZero.
func parseSeconds(s string, allowZero bool) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("enter a number of seconds")
	}
	if v < 0 || (v == 0 && !allowZero) {
		return 0, fmt.Errorf("must be greater than 0")
	}
	return v, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func summaryLines(cfg *config.Config) [][2]string {
	lines := [][2]string{
		{"Provider:", fmt.Sprintf("%s (%s)", getProviderDisplayName(cfg.Transcription.Provider), cfg.Transcription.Model)},
		{"Language:", language.Label(cfg.Transcription.Language)},
		{"Chunks:", fmt.Sprintf("%ss with %ss overlap", formatSeconds(cfg.Chunking.ChunkSeconds), formatSeconds(cfg.Chunking.OverlapSeconds))},
		{"Retries:", fmt.Sprintf("%d attempts, %s-%s backoff", cfg.Retry.MaxAttempts, cfg.Retry.InitialBackoff, cfg.Retry.MaxBackoff)},
	}

	if key := cfg.ResolveAPIKey(cfg.Transcription.Provider); key != "" {
		lines = append(lines, [2]string{"API key:", maskAPIKey(key)})
	}
	if cfg.Chunking.KeepChunks {
		lines = append(lines, [2]string{"Keep chunks:", "yes"})
	}
	if cfg.Notifications.Enabled {
		lines = append(lines, [2]string{"Notifications:", cfg.Notifications.Type})
	} else {
		lines = append(lines, [2]string{"Notifications:", "disabled"})
	}
	return lines
}
