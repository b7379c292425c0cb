package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/longscribe/internal/config"
	"github.com/leonardotrapani/longscribe/internal/deps"
	"github.com/leonardotrapani/longscribe/internal/logging"
	"github.com/leonardotrapani/longscribe/internal/media"
	"github.com/leonardotrapani/longscribe/internal/merge"
	"github.com/leonardotrapani/longscribe/internal/notify"
	"github.com/leonardotrapani/longscribe/internal/pipeline"
	"github.com/leonardotrapani/longscribe/internal/provider"
	"github.com/leonardotrapani/longscribe/internal/transcriber"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

const defaultOutput = "transcription.txt"

// errUsage means the arguments were wrong and usage was already printed.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	configPath     string
	chunkSeconds   float64
	overlapSeconds float64
	provider       string
	model          string
	language       string
	prompt         string
	keepChunks     bool
	verbose        bool
	logFormat      string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&options{})
}

func newRootCmdWithOptions(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "longscribe <input> [output]",
		Short: "Transcribe long recordings in overlapping chunks",
		Long: `Transcribe an audio or video file of any length.

The input is cut into overlapping chunks with ffmpeg, each chunk is sent to
the configured transcription service one at a time, and the transcripts are
stitched together with the repeated overlap removed. The result is written to
the output file (default: transcription.txt).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := defaultOutput
			if len(args) == 2 {
				output = args[1]
			}
			return runTranscribe(cmd, opts, args[0], output)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/longscribe/config.toml)")
	pf.Float64Var(&opts.chunkSeconds, "chunk-seconds", config.DefaultChunkSeconds, "chunk length in seconds")
	pf.Float64Var(&opts.overlapSeconds, "overlap-seconds", config.DefaultOverlapSeconds, "overlap between consecutive chunks in seconds")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: console or json")

	f := cmd.Flags()
	f.StringVar(&opts.provider, "provider", "", "transcription provider: openai, groq, elevenlabs, mistral, whisper-cpp")
	f.StringVarP(&opts.model, "model", "m", "", "transcription model")
	f.StringVarP(&opts.language, "language", "l", "", "language hint (ISO-639-1), \"auto\" to let the service detect it")
	f.StringVar(&opts.prompt, "prompt", "", "prompt sent with every chunk")
	f.BoolVar(&opts.keepChunks, "keep-chunks", false, "keep the extracted chunks after a successful run")

	cmd.AddCommand(
		planCmd(opts),
		doctorCmd(opts),
		configureCmd(opts),
		modelsCmd(),
		versionCmd(),
	)

	return cmd
}

// loadConfig reads .env and the config file, applies flags that were set on
// cmd and configures logging.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	envFiles, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, opts, cfg)

	logCfg := cfg.ToLoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logging.Setup(logCfg)

	log := logging.Component("cli")
	for _, f := range envFiles {
		log.Debug().Str("path", f).Msg("loaded env file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("chunk-seconds") {
		cfg.Chunking.ChunkSeconds = opts.chunkSeconds
	}
	if flags.Changed("overlap-seconds") {
		cfg.Chunking.OverlapSeconds = opts.overlapSeconds
	}
	if flags.Changed("provider") && opts.provider != cfg.Transcription.Provider {
		cfg.Transcription.Provider = opts.provider
		if p := provider.GetProvider(opts.provider); p != nil {
			cfg.Transcription.Model = p.DefaultModel()
		}
	}
	if flags.Changed("model") {
		cfg.Transcription.Model = opts.model
	}
	if flags.Changed("language") {
		cfg.Transcription.Language = opts.language
		if opts.language == "auto" {
			cfg.Transcription.Language = ""
		}
	}
	if flags.Changed("prompt") {
		cfg.Transcription.Prompt = opts.prompt
	}
	if flags.Changed("keep-chunks") {
		cfg.Chunking.KeepChunks = opts.keepChunks
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
}

func requiredTools(cfg *config.Config) []deps.Tool {
	tools := []deps.Tool{deps.FFmpeg(cfg.Tools.FFmpeg), deps.FFprobe(cfg.Tools.FFprobe)}
	if cfg.Transcription.Provider == provider.ProviderWhisperCpp {
		tools = append(tools, deps.WhisperCli(cfg.Tools.WhisperCli))
	}
	return tools
}

// newDriver wires the configured components into a pipeline driver.
func newDriver(cfg *config.Config, progress io.Writer) (*pipeline.Driver, error) {
	client, err := transcriber.New(cfg.ToTranscriberConfig())
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Components{
		Prober:      media.NewProber(cfg.Tools.FFprobe),
		Extractor:   media.NewExtractor(cfg.ToExtractorConfig()),
		Transcriber: transcriber.NewRetryingClient(client, cfg.ToRetryPolicy()),
		Merger:      merge.New(cfg.ToMergeOptions()),
		Notifier:    notify.New(cfg.Notifications.Enabled, cfg.Notifications.Type),
		Progress:    progress,
	}, pipeline.Options{
		ChunkSeconds:   cfg.Chunking.ChunkSeconds,
		OverlapSeconds: cfg.Chunking.OverlapSeconds,
		ScratchDir:     cfg.Chunking.ScratchDir,
		KeepChunks:     cfg.Chunking.KeepChunks,
		Tools:          requiredTools(cfg),
	}), nil
}

func checkInput(input string) error {
	info, err := os.Stat(input)
	if err != nil {
		return &media.ProbeError{Path: input, Err: err}
	}
	if info.IsDir() {
		return &media.ProbeError{Path: input, Err: errors.New("is a directory")}
	}
	return nil
}

func runTranscribe(cmd *cobra.Command, opts *options, input, output string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := checkInput(input); err != nil {
		return err
	}

	driver, err := newDriver(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result, err := driver.Run(cmd.Context(), input, output)
	if err != nil {
		if result != nil && result.ScratchDir != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Chunks kept in: %s\n", result.ScratchDir)
		}
		return err
	}
	if cfg.Chunking.KeepChunks {
		fmt.Fprintf(cmd.OutOrStdout(), "Chunks kept in: %s\n", result.ScratchDir)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "longscribe %s\n", version)
		},
	}
}
