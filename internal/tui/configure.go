package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leonardotrapani/longscribe/internal/config"
	"github.com/leonardotrapani/longscribe/internal/media"
	"github.com/leonardotrapani/longscribe/internal/notify"
	"github.com/leonardotrapani/longscribe/internal/provider"
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section
type ConfigSection string

const (
	SectionTranscription ConfigSection = "transcription"
	SectionChunking      ConfigSection = "chunking"
	SectionRetry         ConfigSection = "retry"
	SectionNotifications ConfigSection = "notifications"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// Run starts the menu-based configuration editor on a copy of cfg.
func Run(existing *config.Config) (*ConfigureResult, error) {
	cfg := config.DefaultConfig()
	if existing != nil {
		copied := *existing
		copied.Providers = make(map[string]config.ProviderConfig, len(existing.Providers))
		for k, v := range existing.Providers {
			copied.Providers[k] = v
		}
		cfg = &copied
	}

	var notice string
	for {
		clearScreen()
		fmt.Println(Logo())
		fmt.Println()
		if notice != "" {
			fmt.Println(notice)
			fmt.Println()
			notice = ""
		}

		section, err := selectSection(cfg)
		if err != nil {
			return &ConfigureResult{Cancelled: true}, nil
		}

		switch section {
		case SectionSaveExit:
			if err := cfg.Validate(); err != nil {
				notice = StyleError.Render("Cannot save: ") + err.Error()
				continue
			}
			confirmed, err := showSummary(cfg)
			if err != nil {
				return &ConfigureResult{Cancelled: true}, nil
			}
			if confirmed {
				return &ConfigureResult{Config: cfg}, nil
			}

		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil

		case SectionTranscription:
			if err := editTranscription(cfg); err != nil {
				continue
			}

		case SectionChunking:
			if err := editChunking(cfg); err != nil {
				continue
			}

		case SectionRetry:
			if err := editRetry(cfg); err != nil {
				continue
			}

		case SectionNotifications:
			if err := editNotifications(cfg); err != nil {
				continue
			}
		}
	}
}

func selectSection(cfg *config.Config) (ConfigSection, error) {
	options := []huh.Option[ConfigSection]{
		huh.NewOption(fmt.Sprintf("Transcription (%s/%s)", cfg.Transcription.Provider, cfg.Transcription.Model), SectionTranscription),
		huh.NewOption(fmt.Sprintf("Chunking (%ss / %ss)", formatSeconds(cfg.Chunking.ChunkSeconds), formatSeconds(cfg.Chunking.OverlapSeconds)), SectionChunking),
		huh.NewOption("Retry", SectionRetry),
		huh.NewOption("Notifications", SectionNotifications),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}

	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description("↑/↓ navigate • enter select • esc cancel").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return selected, nil
}

func editTranscription(cfg *config.Config) error {
	selectedProvider := cfg.Transcription.Provider
	providerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Provider").
				Description(fmt.Sprintf("Currently: %s/%s", cfg.Transcription.Provider, cfg.Transcription.Model)).
				Options(providerOptions(cfg)...).
				Value(&selectedProvider),
		),
	).WithTheme(getTheme())
	if err := providerForm.Run(); err != nil {
		return err
	}

	p := provider.GetProvider(selectedProvider)
	if p.RequiresAPIKey() {
		if err := inputAPIKey(cfg, p); err != nil {
			return err
		}
	}

	selectedModel := cfg.Transcription.Model
	if selectedProvider != cfg.Transcription.Provider {
		selectedModel = p.DefaultModel()
	}
	modelForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Model").
				Options(modelOptions(selectedProvider)...).
				Value(&selectedModel),
		),
	).WithTheme(getTheme())
	if err := modelForm.Run(); err != nil {
		return err
	}

	lang := cfg.Transcription.Language
	prompt := cfg.Transcription.Prompt
	detailsForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Description("Hint sent with every chunk").
				Options(languageOptions(selectedProvider, selectedModel)...).
				Height(12).
				Value(&lang),
			huh.NewText().
				Title("Prompt").
				Description("Context sent with every chunk, empty for none").
				Value(&prompt),
		),
	).WithTheme(getTheme())
	if err := detailsForm.Run(); err != nil {
		return err
	}

	cfg.Transcription.Provider = selectedProvider
	cfg.Transcription.Model = selectedModel
	cfg.Transcription.Language = lang
	cfg.Transcription.Prompt = strings.TrimSpace(prompt)
	return nil
}

func inputAPIKey(cfg *config.Config, p provider.Provider) error {
	current := cfg.ResolveAPIKey(p.Name())
	desc := fmt.Sprintf("Leave empty to use $%s", provider.EnvVarForProvider(p.Name()))
	if current != "" {
		desc = fmt.Sprintf("Currently: %s. Leave empty to keep it", maskAPIKey(current))
	}

	var key string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(getProviderDisplayName(p.Name()) + " API Key").
				Description(desc).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s != "" && !p.ValidateAPIKey(s) {
						return fmt.Errorf("invalid API key format")
					}
					return nil
				}).
				Value(&key),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}

	if key = strings.TrimSpace(key); key != "" {
		cfg.Providers[p.Name()] = config.ProviderConfig{APIKey: key}
	}
	return nil
}

func editChunking(cfg *config.Config) error {
	chunkStr := formatSeconds(cfg.Chunking.ChunkSeconds)
	overlapStr := formatSeconds(cfg.Chunking.OverlapSeconds)
	keep := cfg.Chunking.KeepChunks
	format := cfg.Chunking.Format
	scratch := cfg.Chunking.ScratchDir

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Chunk length (seconds)").
				Description("Must stay under the provider's upload limit").
				Validate(func(s string) error {
					_, err := parseSeconds(s, false)
					return err
				}).
				Value(&chunkStr),
			huh.NewInput().
				Title("Overlap (seconds)").
				Description("Audio shared by consecutive chunks").
				Validate(func(s string) error {
					overlap, err := parseSeconds(s, true)
					if err != nil {
						return err
					}
					if chunkSeconds, err := parseSeconds(chunkStr, false); err == nil && overlap >= chunkSeconds {
						return fmt.Errorf("must be less than the chunk length")
					}
					return nil
				}).
				Value(&overlapStr),
			huh.NewSelect[string]().
				Title("Chunk format").
				Options(
					huh.NewOption("Automatic (wav for whisper.cpp, mp3 otherwise)", ""),
					huh.NewOption("MP3", media.FormatMP3),
					huh.NewOption("WAV", media.FormatWAV),
				).
				Value(&format),
			huh.NewInput().
				Title("Scratch directory").
				Description("Parent of per-run chunk directories, empty for the system temp dir").
				Value(&scratch),
			huh.NewConfirm().
				Title("Keep chunk files after a successful run?").
				Value(&keep),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}

	// validated above
	cfg.Chunking.ChunkSeconds, _ = parseSeconds(chunkStr, false)
	cfg.Chunking.OverlapSeconds, _ = parseSeconds(overlapStr, true)
	cfg.Chunking.Format = format
	cfg.Chunking.ScratchDir = strings.TrimSpace(scratch)
	cfg.Chunking.KeepChunks = keep
	return nil
}

func editRetry(cfg *config.Config) error {
	attempts := strconv.FormatUint(uint64(cfg.Retry.MaxAttempts), 10)
	initial := cfg.Retry.InitialBackoff.String()
	maxBackoff := cfg.Retry.MaxBackoff.String()
	timeout := cfg.Transcription.Timeout.String()

	validDuration := func(s string) error {
		if _, err := time.ParseDuration(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("use a duration like 2s or 1m30s")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Attempts per chunk").
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > 10 {
						return fmt.Errorf("enter a number between 1 and 10")
					}
					return nil
				}).
				Value(&attempts),
			huh.NewInput().Title("Initial backoff").Validate(validDuration).Value(&initial),
			huh.NewInput().Title("Maximum backoff").Validate(validDuration).Value(&maxBackoff),
			huh.NewInput().
				Title("Request timeout").
				Description("Per attempt, 0 for none").
				Validate(validDuration).
				Value(&timeout),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}

	n, _ := strconv.Atoi(strings.TrimSpace(attempts))
	cfg.Retry.MaxAttempts = uint(n)
	cfg.Retry.InitialBackoff, _ = time.ParseDuration(strings.TrimSpace(initial))
	cfg.Retry.MaxBackoff, _ = time.ParseDuration(strings.TrimSpace(maxBackoff))
	cfg.Transcription.Timeout, _ = time.ParseDuration(strings.TrimSpace(timeout))
	return nil
}

func editNotifications(cfg *config.Config) error {
	enabled := cfg.Notifications.Enabled
	notifyType := cfg.Notifications.Type

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Notify when a run finishes or fails?").
				Value(&enabled),
			huh.NewSelect[string]().
				Title("Notification type").
				Options(
					huh.NewOption("Desktop (notify-send)", notify.TypeDesktop),
					huh.NewOption("Log only", notify.TypeLog),
					huh.NewOption("None", notify.TypeNone),
				).
				Value(&notifyType),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Notifications.Enabled = enabled
	cfg.Notifications.Type = notifyType
	return nil
}

func showSummary(cfg *config.Config) (bool, error) {
	var b strings.Builder
	for _, line := range summaryLines(cfg) {
		fmt.Fprintf(&b, "%s %s\n", StyleLabel.Render(line[0]), line[1])
	}

	fmt.Println()
	fmt.Println(StyleHeader.Render("Configuration Summary"))
	fmt.Println(StyleBox.Render(strings.TrimRight(b.String(), "\n")))
	fmt.Println()

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorError)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}

// SavedMessage is printed after the configuration has been written.
func SavedMessage(path string) string {
	return StyleSuccess.Render("✓ Configuration saved to ") + StyleMuted.Render(path)
}

// EnvKeyWarning reminds the user that a key only exists in the environment.
func EnvKeyWarning(cfg *config.Config) string {
	name := cfg.Transcription.Provider
	if pc, ok := cfg.Providers[name]; ok && pc.APIKey != "" {
		return ""
	}
	p := provider.GetProvider(name)
	if p == nil || !p.RequiresAPIKey() {
		return ""
	}
	return StyleWarning.Render(fmt.Sprintf("API key for %s is read from $%s", getProviderDisplayName(name), provider.EnvVarForProvider(name)))
}
