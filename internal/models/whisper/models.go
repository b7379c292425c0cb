// Package whisper knows the ggml model files used by whisper.cpp and where
// they live on disk.
package whisper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvModelsDir overrides the model store location.
const EnvModelsDir = "LONGSCRIBE_MODELS_DIR"

// ModelInfo holds metadata for a whisper model
type ModelInfo struct {
	ID           string // model identifier (e.g., "base")
	Name         string // display name (e.g., "Base")
	Filename     string // file name (e.g., "ggml-base.bin")
	Size         string // human readable size
	SizeBytes    int64  // size in bytes for progress tracking
	Multilingual bool   // true if supports multiple languages
}

// available whisper models from huggingface.co/ggerganov/whisper.cpp
var models = []ModelInfo{
	// english-only models
	{ID: "tiny.en", Name: "Tiny English", Filename: "ggml-tiny.en.bin", Size: "75MB", SizeBytes: 75_000_000},
	{ID: "base.en", Name: "Base English", Filename: "ggml-base.en.bin", Size: "142MB", SizeBytes: 142_000_000},
	{ID: "small.en", Name: "Small English", Filename: "ggml-small.en.bin", Size: "466MB", SizeBytes: 466_000_000},
	{ID: "medium.en", Name: "Medium English", Filename: "ggml-medium.en.bin", Size: "1.5GB", SizeBytes: 1_500_000_000},

	// multilingual models
	{ID: "tiny", Name: "Tiny", Filename: "ggml-tiny.bin", Size: "75MB", SizeBytes: 75_000_000, Multilingual: true},
	{ID: "base", Name: "Base", Filename: "ggml-base.bin", Size: "142MB", SizeBytes: 142_000_000, Multilingual: true},
	{ID: "small", Name: "Small", Filename: "ggml-small.bin", Size: "466MB", SizeBytes: 466_000_000, Multilingual: true},
	{ID: "medium", Name: "Medium", Filename: "ggml-medium.bin", Size: "1.5GB", SizeBytes: 1_500_000_000, Multilingual: true},
	{ID: "large-v3", Name: "Large V3", Filename: "ggml-large-v3.bin", Size: "3GB", SizeBytes: 3_000_000_000, Multilingual: true},
}

var modelByID = func() map[string]ModelInfo {
	m := make(map[string]ModelInfo, len(models))
	for _, model := range models {
		m[model.ID] = model
	}
	return m
}()

const baseDownloadURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// GetModelsDir returns the directory where whisper models are stored:
// $LONGSCRIBE_MODELS_DIR, else $XDG_DATA_HOME/longscribe/models/whisper,
// else ~/.local/share/longscribe/models/whisper.
func GetModelsDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvModelsDir)); dir != "" {
		return dir, nil
	}
	if data := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); data != "" {
		return filepath.Join(data, "longscribe", "models", "whisper"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "longscribe", "models", "whisper"), nil
}

// GetModelPath returns the full path to a model file.
// Returns empty string if model ID is unknown.
func GetModelPath(modelID string) string {
	info, ok := modelByID[modelID]
	if !ok {
		return ""
	}
	dir, err := GetModelsDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, info.Filename)
}

// GetDownloadURL returns the full download URL for a model.
// Returns empty string if model ID is unknown.
func GetDownloadURL(modelID string) string {
	info, ok := modelByID[modelID]
	if !ok {
		return ""
	}
	return baseDownloadURL + "/" + info.Filename
}

// GetModel returns info for a model by ID, or nil if unknown
func GetModel(modelID string) *ModelInfo {
	info, ok := modelByID[modelID]
	if !ok {
		return nil
	}
	return &info
}

// ListModels returns all available whisper models
func ListModels() []ModelInfo {
	result := make([]ModelInfo, len(models))
	copy(result, models)
	return result
}

// ResolveModelPath accepts either a model ID or a path to a ggml file and
// returns the path of an existing model file.
func ResolveModelPath(idOrPath string) (string, error) {
	idOrPath = strings.TrimSpace(idOrPath)
	if idOrPath == "" {
		return "", fmt.Errorf("no whisper model configured")
	}
	if GetModel(idOrPath) != nil {
		return GetInstalledPath(idOrPath)
	}
	info, err := os.Stat(idOrPath)
	if err != nil {
		return "", fmt.Errorf("model file not found: %s", idOrPath)
	}
	if info.IsDir() || info.Size() == 0 {
		return "", fmt.Errorf("not a model file: %s", idOrPath)
	}
	return idOrPath, nil
}
