package config

import "time"

type Config struct {
	Chunking      ChunkingConfig            `toml:"chunking"`
	Merge         MergeConfig               `toml:"merge"`
	Transcription TranscriptionConfig       `toml:"transcription"`
	Retry         RetryConfig               `toml:"retry"`
	Providers     map[string]ProviderConfig `toml:"providers"`
	Tools         ToolsConfig               `toml:"tools"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Log           LogConfig                 `toml:"log"`
}

// ProviderConfig holds API key for a provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

type ChunkingConfig struct {
	ChunkSeconds   float64 `toml:"chunk_seconds" validate:"gt=0"`
	OverlapSeconds float64 `toml:"overlap_seconds" validate:"gte=0,ltfield=ChunkSeconds"`
	KeepChunks     bool    `toml:"keep_chunks"`
	// ScratchDir is the parent of per-run scratch dirs, empty = system temp
	ScratchDir string `toml:"scratch_dir"`
	// Format of extracted chunks, empty = wav for whisper-cpp, mp3 otherwise
	Format string `toml:"format" validate:"omitempty,oneof=mp3 wav"`
}

type MergeConfig struct {
	MinMatch  int `toml:"min_match" validate:"gte=1"`
	MaxMatch  int `toml:"max_match" validate:"gtefield=MinMatch"`
	ScanSlack int `toml:"scan_slack" validate:"gte=0"`
}

type TranscriptionConfig struct {
	Provider string        `toml:"provider" validate:"required,oneof=openai groq elevenlabs mistral whisper-cpp"`
	Model    string        `toml:"model" validate:"required"`
	Language string        `toml:"language"`
	Prompt   string        `toml:"prompt"`
	BaseURL  string        `toml:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `toml:"timeout" validate:"gte=0"` // per request, 0 = none
	Threads  int           `toml:"threads" validate:"gte=0"` // CPU threads for whisper-cpp (0 = auto: NumCPU-1)
}

type RetryConfig struct {
	MaxAttempts    uint          `toml:"max_attempts" validate:"gte=1,lte=10"`
	InitialBackoff time.Duration `toml:"initial_backoff" validate:"gt=0"`
	MaxBackoff     time.Duration `toml:"max_backoff" validate:"gtefield=InitialBackoff"`
}

type ToolsConfig struct {
	FFmpeg     string `toml:"ffmpeg"`
	FFprobe    string `toml:"ffprobe"`
	WhisperCli string `toml:"whisper_cli"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type" validate:"oneof=desktop log none"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}
