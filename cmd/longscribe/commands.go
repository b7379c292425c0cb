package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/longscribe/internal/config"
	"github.com/leonardotrapani/longscribe/internal/deps"
	"github.com/leonardotrapani/longscribe/internal/language"
	"github.com/leonardotrapani/longscribe/internal/media"
	"github.com/leonardotrapani/longscribe/internal/models/whisper"
	"github.com/leonardotrapani/longscribe/internal/pipeline"
	"github.com/leonardotrapani/longscribe/internal/provider"
	"github.com/leonardotrapani/longscribe/internal/tui"
)

func planCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <input>",
		Short: "Show how the input would be chunked, without transcribing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := checkInput(args[0]); err != nil {
				return err
			}

			extractor := media.NewExtractor(cfg.ToExtractorConfig())
			driver := pipeline.New(pipeline.Components{
				Prober:    media.NewProber(cfg.Tools.FFprobe),
				Extractor: extractor,
			}, pipeline.Options{
				ChunkSeconds:   cfg.Chunking.ChunkSeconds,
				OverlapSeconds: cfg.Chunking.OverlapSeconds,
				Tools:          []deps.Tool{deps.FFprobe(cfg.Tools.FFprobe)},
			})

			plan, err := driver.Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPlan(cmd.OutOrStdout(), args[0], plan, extractor.Ext())
			return nil
		},
	}
}

func doctorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, opts)
		},
	}
}

func runDoctor(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()

	if _, err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)

	tools := requiredTools(cfg)
	statuses := make([]deps.Status, 0, len(tools))
	for _, tool := range tools {
		statuses = append(statuses, deps.Check(tool))
	}
	renderTools(out, statuses)

	path := opts.configPath
	if path == "" {
		path, _ = config.GetConfigPath()
	}
	fmt.Fprintf(out, "Config:      %s\n", path)
	fmt.Fprintf(out, "Provider:    %s (%s)\n", cfg.Transcription.Provider, cfg.Transcription.Model)
	fmt.Fprintf(out, "Language:    %s\n", language.Label(cfg.Transcription.Language))

	var problems []string
	if err := deps.Require(tools...); err != nil {
		problems = append(problems, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) == 0 {
		fmt.Fprintln(out, "Everything looks good.")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(out, "Problem:     %s\n", p)
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}

func configureCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration editor for longscribe.
This lets you choose:
- Transcription provider, model, language hint and prompt
- Chunk and overlap lengths
- Retry policy and request timeout
- Notifications`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts)
		},
	}
}

func runConfigure(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()

	if _, err := config.LoadEnv(); err != nil {
		return err
	}
	path := opts.configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}
	if result.Cancelled {
		fmt.Fprintln(out, "Configuration cancelled.")
		return nil
	}

	if err := config.Save(path, result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.SavedMessage(path))
	if warning := tui.EnvKeyWarning(result.Config); warning != "" {
		fmt.Fprintln(out, warning)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next: longscribe doctor, then longscribe <input> [output]")
	return nil
}

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "models",
		Aliases: []string{"model"},
		Short:   "List transcription models and manage local whisper models",
	}

	cmd.AddCommand(modelsListCmd())
	cmd.AddCommand(modelsDownloadCmd())
	cmd.AddCommand(modelsRemoveCmd())

	return cmd
}

func modelsListCmd() *cobra.Command {
	var providerFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available transcription models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelsList(cmd.OutOrStdout(), providerFilter)
		},
	}

	cmd.Flags().StringVar(&providerFilter, "provider", "", "filter by provider name")

	return cmd
}

func runModelsList(out io.Writer, providerFilter string) error {
	providerNames := provider.ListProviders()
	if providerFilter != "" {
		if provider.GetProvider(providerFilter) == nil {
			return fmt.Errorf("unknown provider: %s", providerFilter)
		}
		providerNames = []string{providerFilter}
	}

	var rows []modelRow
	for _, name := range providerNames {
		p := provider.GetProvider(name)
		for _, m := range p.Models() {
			rows = append(rows, modelRow{
				Provider:  name,
				Model:     m,
				Default:   m.ID == p.DefaultModel(),
				Languages: languagesLabel(m.SupportedLanguages),
				Installed: installedLabel(m),
			})
		}
	}

	renderModels(out, rows)
	return nil
}

func languagesLabel(codes []string) string {
	switch len(codes) {
	case 0:
		return "auto only"
	case 1:
		return language.Label(codes[0])
	default:
		return fmt.Sprintf("%d languages", len(codes))
	}
}

func installedLabel(m provider.Model) string {
	if !m.NeedsDownload() {
		return "-"
	}
	if whisper.IsInstalled(m.ID) {
		return "installed"
	}
	return "not installed"
}

func modelsDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <model-name>",
		Short: "Download a whisper.cpp model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelDownload(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func runModelDownload(ctx context.Context, out io.Writer, modelName string) error {
	info := whisper.GetModel(modelName)
	if info == nil {
		if _, err := findCloudModel(modelName); err == nil {
			fmt.Fprintf(out, "model '%s' is a cloud model and does not require download\n", modelName)
			return nil
		}
		return fmt.Errorf("unknown model: %s", modelName)
	}

	if whisper.IsInstalled(modelName) {
		fmt.Fprintf(out, "model '%s' is already installed at %s\n", modelName, whisper.GetModelPath(modelName))
		return nil
	}

	fmt.Fprintf(out, "downloading %s (%s)...\n", modelName, info.Size)

	var lastPercent int
	err := whisper.Download(ctx, modelName, func(downloaded, total int64) {
		if total > 0 {
			percent := int(downloaded * 100 / total)
			if percent >= lastPercent+10 {
				fmt.Fprintf(out, "%d%% ", percent)
				lastPercent = percent
			}
		}
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Fprintf(out, "\ndownload complete: %s\n", whisper.GetModelPath(modelName))
	return nil
}

func modelsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <model-name>",
		Short: "Remove a downloaded whisper.cpp model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelRemove(cmd.OutOrStdout(), args[0])
		},
	}
}

func runModelRemove(out io.Writer, modelName string) error {
	if whisper.GetModel(modelName) == nil {
		if _, err := findCloudModel(modelName); err == nil {
			fmt.Fprintf(out, "model '%s' is a cloud model, nothing to remove\n", modelName)
			return nil
		}
		return fmt.Errorf("unknown model: %s", modelName)
	}

	if !whisper.IsInstalled(modelName) {
		return fmt.Errorf("model '%s' is not installed", modelName)
	}

	if err := whisper.Remove(modelName); err != nil {
		return fmt.Errorf("failed to remove model: %w", err)
	}

	fmt.Fprintf(out, "model '%s' removed successfully\n", modelName)
	return nil
}

func findCloudModel(id string) (*provider.Model, error) {
	for _, name := range provider.ListProviders() {
		p := provider.GetProvider(name)
		if p.IsLocal() {
			continue
		}
		if m, err := provider.GetModel(name, id); err == nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown model: %s", id)
}
