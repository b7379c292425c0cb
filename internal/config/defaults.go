package config

import (
	"time"

	"github.com/leonardotrapani/longscribe/internal/merge"
	"github.com/leonardotrapani/longscribe/internal/transcriber"
)

const (
	DefaultChunkSeconds   = 900
	DefaultOverlapSeconds = 15
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	tc := transcriber.DefaultConfig()
	retry := transcriber.DefaultRetryPolicy()

	return &Config{
		Chunking: ChunkingConfig{
			ChunkSeconds:   DefaultChunkSeconds,
			OverlapSeconds: DefaultOverlapSeconds,
		},
		Merge: MergeConfig{
			MinMatch:  merge.DefaultMinMatch,
			MaxMatch:  merge.DefaultMaxMatch,
			ScanSlack: merge.DefaultScanSlack,
		},
		Transcription: TranscriptionConfig{
			Provider: tc.Provider,
			Model:    tc.Model,
			Language: tc.Language,
			Prompt:   tc.Prompt,
			Timeout:  10 * time.Minute,
		},
		Retry: RetryConfig{
			MaxAttempts:    retry.MaxAttempts,
			InitialBackoff: retry.InitialBackoff,
			MaxBackoff:     retry.MaxBackoff,
		},
		Providers: make(map[string]ProviderConfig),
		Tools: ToolsConfig{
			FFmpeg:     "ffmpeg",
			FFprobe:    "ffprobe",
			WhisperCli: "whisper-cli",
		},
		Notifications: NotificationsConfig{
			Enabled: false,
			Type:    "desktop",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
