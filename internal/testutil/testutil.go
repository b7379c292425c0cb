package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/leonardotrapani/longscribe/internal/config"
	"github.com/leonardotrapani/longscribe/internal/merge"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "test-api-key"},
	}
	cfg.Retry.InitialBackoff = time.Millisecond
	cfg.Retry.MaxBackoff = 10 * time.Millisecond
	cfg.Notifications = config.NotificationsConfig{
		Enabled: true,
		Type:    "log",
	}
	return cfg
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// Events is a shared, ordered log of calls made to the fakes.
type Events struct {
	mu     sync.Mutex
	events []string
}

func (e *Events) Record(format string, args ...any) {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.events = append(e.events, fmt.Sprintf(format, args...))
	e.mu.Unlock()
}

func (e *Events) List() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]string, len(e.events))
	copy(result, e.events)
	return result
}

// MockProber reports a fixed duration
type MockProber struct {
	Duration float64
	Err      error
	Events   *Events

	mu    sync.Mutex
	Paths []string
}

func NewMockProber(duration float64) *MockProber {
	return &MockProber{Duration: duration}
}

func (m *MockProber) ProbeDuration(ctx context.Context, path string) (float64, error) {
	m.mu.Lock()
	m.Paths = append(m.Paths, path)
	m.mu.Unlock()
	m.Events.Record("probe %s", path)

	if m.Err != nil {
		return 0, m.Err
	}
	return m.Duration, nil
}

// Extraction is one recorded Extract call
type Extraction struct {
	Input  string
	Start  float64
	Length float64
	Output string
}

// MockExtractor writes a small placeholder file for every window
type MockExtractor struct {
	// Errs maps a call index to the error that call returns
	Errs      map[int]error
	Extension string
	Events    *Events

	mu    sync.Mutex
	Calls []Extraction
}

func NewMockExtractor() *MockExtractor {
	return &MockExtractor{Extension: ".mp3"}
}

func (m *MockExtractor) Ext() string {
	if m.Extension == "" {
		return ".mp3"
	}
	return m.Extension
}

func (m *MockExtractor) Extract(ctx context.Context, input string, start, length float64, output string) error {
	m.mu.Lock()
	call := len(m.Calls)
	m.Calls = append(m.Calls, Extraction{Input: input, Start: start, Length: length, Output: output})
	m.mu.Unlock()
	m.Events.Record("extract %d", call)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := m.Errs[call]; ok {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	return os.WriteFile(output, []byte("fake audio"), 0o644)
}

func (m *MockExtractor) GetCalls() []Extraction {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Extraction, len(m.Calls))
	copy(result, m.Calls)
	return result
}

// MockClient returns scripted transcripts in call order
type MockClient struct {
	Texts []string
	// Errs maps a call index to the error that call returns
	Errs   map[int]error
	Events *Events
	// TranscribeFunc, when set, replaces the scripted behaviour
	TranscribeFunc func(ctx context.Context, path string) (string, error)

	mu    sync.Mutex
	Paths []string
}

func NewMockClient(texts ...string) *MockClient {
	return &MockClient{Texts: texts}
}

func (m *MockClient) Transcribe(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	call := len(m.Paths)
	m.Paths = append(m.Paths, path)
	m.mu.Unlock()
	m.Events.Record("transcribe %d", call)

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("chunk not extracted: %w", err)
	}
	if err, ok := m.Errs[call]; ok {
		return "", err
	}
	if call >= len(m.Texts) {
		return "", nil
	}
	return m.Texts[call], nil
}

func (m *MockClient) GetPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.Paths))
	copy(result, m.Paths)
	return result
}

// MockMerger records merge calls and delegates to a real merge.Merger
type MockMerger struct {
	Inner  *merge.Merger
	Events *Events

	mu       sync.Mutex
	Outcomes []merge.Outcome
}

func NewMockMerger(events *Events) *MockMerger {
	return &MockMerger{Inner: merge.New(merge.DefaultOptions()), Events: events}
}

func (m *MockMerger) Merge(prev, next string) merge.Result {
	result := m.Inner.Merge(prev, next)

	m.mu.Lock()
	call := len(m.Outcomes)
	m.Outcomes = append(m.Outcomes, result.Outcome)
	m.mu.Unlock()
	m.Events.Record("merge %d", call)

	return result
}

func (m *MockMerger) GetOutcomes() []merge.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]merge.Outcome, len(m.Outcomes))
	copy(result, m.Outcomes)
	return result
}

// MockNotifier records run notifications
type MockNotifier struct {
	mu       sync.Mutex
	Finished []string
	Failed   []error
}

func (m *MockNotifier) RunFinished(output string, chunks int) {
	m.mu.Lock()
	m.Finished = append(m.Finished, fmt.Sprintf("%s (%d chunks)", output, chunks))
	m.mu.Unlock()
}

func (m *MockNotifier) RunFailed(err error) {
	m.mu.Lock()
	m.Failed = append(m.Failed, err)
	m.mu.Unlock()
}
