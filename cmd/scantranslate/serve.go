package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oukeidos/scantranslate/internal/auth"
	"github.com/oukeidos/scantranslate/internal/cache"
	"github.com/oukeidos/scantranslate/internal/cleanup"
	"github.com/oukeidos/scantranslate/internal/config"
	"github.com/oukeidos/scantranslate/internal/extract"
	"github.com/oukeidos/scantranslate/internal/gemini"
	"github.com/oukeidos/scantranslate/internal/httpapi"
	"github.com/oukeidos/scantranslate/internal/inquiry"
	"github.com/oukeidos/scantranslate/internal/logger"
	"github.com/oukeidos/scantranslate/internal/render"
	"github.com/oukeidos/scantranslate/internal/session"
)

type serveOptions struct {
	host        string
	port        int
	envFile     string
	allowEnv    bool
	debug       bool
	logFilePath string
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translation web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Bind address (overrides HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (overrides PORT)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", true, "Allow GEMINI_API_KEY from the environment when the keychain is empty")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Append JSONL logs to this file")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	config.LoadDotenv(opts.envFile)
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.port > 0 {
		cfg.Port = opts.port
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		logger.Debug("flag override", "flag", f.Name, "value", f.Value.String())
	})

	// A missing key degrades the server instead of stopping it: extraction
	// and inquiries return configuration messages until a key arrives.
	var gen gemini.Generator
	key, source := auth.GetKey(opts.allowEnv)
	if key == "" && cfg.GeminiAPIKey != "" && opts.allowEnv {
		key, source = strings.TrimSpace(cfg.GeminiAPIKey), "Environment Variable"
	}
	if key != "" {
		client, err := gemini.NewClient(cmd.Context(), key, cfg.ExtractModelName(), cfg.AnswerModelName())
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		cleanup.Register(client.Close)
		gen = client
		logger.Info("Using API Key", "service", "gemini", "source", source)
	} else {
		logger.Warn("No Gemini API key found; running unconfigured", "hint", "scantranslate env setup")
	}

	server := httpapi.NewServer(
		session.NewManager(),
		extract.NewService(gen, cache.New[extract.Result](cfg.CacheCapacity)),
		inquiry.NewComposer(gen),
		render.NewMuPDFRenderer(cache.New[[]byte](cfg.CacheCapacity)),
		httpapi.Options{
			Host:            cfg.Host,
			Port:            cfg.Port,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
			MaxUploadMB:     cfg.MaxUploadMB,
		},
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logger.LevelDebug
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
