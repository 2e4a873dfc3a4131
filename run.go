package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/config"
	"github.com/Yamashou/tsgenc/plugins"
)

type options struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "tsgenc",
		Short:         "Generate TypeScript classes and enums from Go types or a GraphQL schema",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := setupLogger(opts.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), opts.configFile, logger)
		},
	}
	rootCmd.SetVersionTemplate("tsgenc v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: first of "+strings.Join(config.DefaultFilenames, ", ")+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Report fields without a TypeScript mapping and validate the type graph without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := setupLogger(opts.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return check(cmd.Context(), opts.configFile, logger, cmd.OutOrStdout())
		},
	}
	rootCmd.AddCommand(checkCmd)

	return rootCmd
}

func setupLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "", "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q (want one of debug, info, warn, error)", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

type prepared struct {
	cfg       *config.Config
	generator *codegen.Generator
	source    *config.Source
}

func prepare(ctx context.Context, configFile string, logger *zap.Logger) (*prepared, error) {
	if configFile == "" {
		var err error
		configFile, err = config.FindConfigFile(".", config.DefaultFilenames)
		if err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	options, err := cfg.GeneratorOptions(logger)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	source, err := cfg.LoadSource(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load types: %w", err)
	}

	return &prepared{
		cfg:       cfg,
		generator: codegen.New(source.Provider, options...),
		source:    source,
	}, nil
}

func run(ctx context.Context, configFile string, logger *zap.Logger) error {
	p, err := prepare(ctx, configFile, logger)
	if err != nil {
		return err
	}

	if p.cfg.Strict {
		issues, err := p.generator.Check(p.source.Roots...)
		if err != nil {
			return fmt.Errorf("failed to check types: %w", err)
		}
		if err := issuesError(issues); err != nil {
			return err
		}
	}

	result, err := p.generator.GenerateAll(p.source.Roots...)
	if err != nil {
		return fmt.Errorf("failed to generate types: %w", err)
	}
	for _, ref := range result.ForwardRefs {
		logger.Debug("forward reference", zap.Stringer("from", ref.From), zap.Stringer("to", ref.To), zap.String("field", ref.Field))
	}

	if err := plugins.GenerateCode(ctx, p.cfg, result, logger); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	return nil
}

func check(ctx context.Context, configFile string, logger *zap.Logger, w io.Writer) error {
	p, err := prepare(ctx, configFile, logger)
	if err != nil {
		return err
	}

	issues, err := p.generator.Check(p.source.Roots...)
	if err != nil {
		return fmt.Errorf("failed to check types: %w", err)
	}
	for _, issue := range issues {
		fmt.Fprintln(w, issue)
	}
	if err := issuesError(issues); err != nil {
		return err
	}

	result, err := p.generator.GenerateAll(p.source.Roots...)
	if err != nil {
		return fmt.Errorf("failed to generate types: %w", err)
	}
	fmt.Fprintf(w, "ok: %d units, %d forward references\n", len(result.Units), len(result.ForwardRefs))

	return nil
}

func issuesError(issues []codegen.Issue) error {
	switch len(issues) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("strict: %s", issues[0])
	}

	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, issue.String())
	}
	return fmt.Errorf("strict: %d fields have unsupported types:\n  %s", len(issues), strings.Join(lines, "\n  "))
}
