package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/clausecritic/internal/checker"
	"github.com/dshills/clausecritic/internal/config"
	"github.com/dshills/clausecritic/internal/llm"
	"github.com/dshills/clausecritic/internal/server"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// serveFlags holds the parsed flags for the serve command. Zero values
// (and -1 for temperature) mean "not set, use the environment".
type serveFlags struct {
	addr        string
	model       string
	temperature float64
	maxTokens   int
	maxUploadMB int
	noRedact    bool
	debug       bool
}

func main() {
	root := &cobra.Command{
		Use:   "clausecritic",
		Short: "Check contract PDFs against fixed compliance rules",
		Long:  "ClauseCritic extracts text from contract PDFs and checks it against a fixed set of compliance rules using a hosted LLM.",
	}

	var flags serveFlags
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags)
		},
	}

	f := serveCmd.Flags()
	f.StringVar(&flags.addr, "addr", "", "Listen address (overrides CLAUSECRITIC_ADDR)")
	f.StringVar(&flags.model, "model", "", "provider:model string (overrides CLAUSECRITIC_MODEL)")
	f.Float64Var(&flags.temperature, "temperature", -1, "LLM temperature (overrides CLAUSECRITIC_TEMPERATURE)")
	f.IntVar(&flags.maxTokens, "max-tokens", 0, "Maximum response tokens (overrides CLAUSECRITIC_MAX_TOKENS)")
	f.IntVar(&flags.maxUploadMB, "max-upload-mb", 0, "Upload cap in MiB (overrides CLAUSECRITIC_MAX_UPLOAD_MB)")
	f.BoolVar(&flags.noRedact, "no-redact", false, "Disable secret redaction before prompting")
	f.BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

// buildConfig merges environment configuration with explicit flags.
// Flags win when set.
func buildConfig(flags serveFlags) *config.Config {
	cfg := config.Load()
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if flags.model != "" {
		cfg.Model = flags.model
	}
	if flags.temperature >= 0 {
		cfg.Temperature = flags.temperature
	}
	if flags.maxTokens > 0 {
		cfg.MaxTokens = flags.maxTokens
	}
	if flags.maxUploadMB > 0 {
		cfg.MaxUploadMB = flags.maxUploadMB
	}
	if flags.noRedact {
		cfg.Redact = false
	}
	return cfg
}

// setup builds the configured HTTP server without starting it.
func setup(flags serveFlags) (*http.Server, error) {
	cfg := buildConfig(flags)

	if cfg.Model == "" {
		cfg.Model = config.DefaultModel
		fmt.Fprintf(os.Stderr, "WARN: CLAUSECRITIC_MODEL not set, using default %s\n", cfg.Model)
	}
	if err := cfg.Validate(); err != nil {
		return nil, codeError(3, "invalid configuration: %s", err)
	}

	level := slog.LevelInfo
	if flags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	provider, err := llm.NewProvider(cfg.Model)
	if err != nil {
		return nil, codeError(4, "creating LLM provider: %s", err)
	}

	chk := checker.New(provider, checker.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Redacted:    cfg.Redact,
		Version:     version,
	}, logger)

	srv := server.New(cfg, chk, logger)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// runServe starts the server and blocks until a shutdown signal or a
// listener error.
func runServe(flags serveFlags) error {
	httpSrv, err := setup(flags)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server.start", "addr", httpSrv.Addr, "version", version)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return codeError(1, "server error: %s", err)
	case sig := <-sigCh:
		slog.Info("server.shutdown", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			return codeError(1, "shutdown: %s", err)
		}
	}
	return nil
}
