package config

import (
	"os"
	"runtime"

	"github.com/leonardotrapani/longscribe/internal/logging"
	"github.com/leonardotrapani/longscribe/internal/media"
	"github.com/leonardotrapani/longscribe/internal/merge"
	"github.com/leonardotrapani/longscribe/internal/provider"
	"github.com/leonardotrapani/longscribe/internal/transcriber"
)

func (c *Config) ToTranscriberConfig() transcriber.Config {
	return transcriber.Config{
		Provider:      c.Transcription.Provider,
		APIKey:        c.ResolveAPIKey(c.Transcription.Provider),
		Model:         c.Transcription.Model,
		Language:      c.Transcription.Language,
		Prompt:        c.Transcription.Prompt,
		BaseURL:       c.Transcription.BaseURL,
		WhisperBinary: c.Tools.WhisperCli,
		Threads:       c.threads(),
	}
}

func (c *Config) ToRetryPolicy() transcriber.RetryPolicy {
	return transcriber.RetryPolicy{
		MaxAttempts:    c.Retry.MaxAttempts,
		InitialBackoff: c.Retry.InitialBackoff,
		MaxBackoff:     c.Retry.MaxBackoff,
		AttemptTimeout: c.Transcription.Timeout,
	}
}

func (c *Config) ToMergeOptions() merge.Options {
	return merge.Options{
		MinMatch:  c.Merge.MinMatch,
		MaxMatch:  c.Merge.MaxMatch,
		ScanSlack: c.Merge.ScanSlack,
	}
}

func (c *Config) ToExtractorConfig() media.ExtractorConfig {
	cfg := media.DefaultExtractorConfig()
	cfg.Binary = c.Tools.FFmpeg
	cfg.Format = c.chunkFormat()
	return cfg
}

func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}

// ResolveAPIKey returns the API key for a provider: providers.<name>.api_key,
// then the provider's environment variable.
func (c *Config) ResolveAPIKey(providerName string) string {
	if c.Providers != nil {
		if pc, ok := c.Providers[providerName]; ok && pc.APIKey != "" {
			return pc.APIKey
		}
	}
	if envVar := provider.EnvVarForProvider(providerName); envVar != "" {
		return os.Getenv(envVar)
	}
	return ""
}

// chunkFormat picks WAV for whisper-cli, which decodes PCM without ffmpeg.
func (c *Config) chunkFormat() string {
	if c.Chunking.Format != "" {
		return c.Chunking.Format
	}
	if c.Transcription.Provider == provider.ProviderWhisperCpp {
		return media.FormatWAV
	}
	return media.FormatMP3
}

func (c *Config) threads() int {
	if c.Transcription.Threads > 0 {
		return c.Transcription.Threads
	}
	threads := runtime.NumCPU() - 1
	if threads < 1 {
		threads = 1
	}
	return threads
}
