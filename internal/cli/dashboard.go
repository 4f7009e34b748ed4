package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Dicklesworthstone/maglab/internal/app"
	"github.com/Dicklesworthstone/maglab/internal/dispatch"
	"github.com/Dicklesworthstone/maglab/internal/logging"
	"github.com/Dicklesworthstone/maglab/internal/output"
	"github.com/Dicklesworthstone/maglab/internal/terminal"
	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

// stdioIsTerminal is replaced in tests.
var stdioIsTerminal = func() bool {
	return terminal.IsTerminal(os.Stdin) && terminal.IsTerminal(os.Stdout)
}

func runDashboard(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if !stdioIsTerminal() {
		return output.NotTerminalError()
	}

	closeLog, err := logging.Init(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Sink:       cfg.Log.Sink,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Debug:      opts.debug,
		Version:    Version,
	})
	if err != nil {
		return output.NewCLIError("cannot open the log sink").
			WithCause(err.Error()).
			WithHint(`set sink = "none" in the [log] table of the config file`)
	}
	defer func() { _ = closeLog() }()

	if len(cfg.Undecoded) > 0 {
		slog.Warn("unknown config keys ignored", "keys", strings.Join(cfg.Undecoded, ", "))
	}

	table, err := cfg.KeyTable()
	if err != nil {
		return output.ConfigError(opts.path(), err)
	}
	tabs, err := cfg.Layout()
	if err != nil {
		return output.ConfigError(opts.path(), err)
	}
	styles := theme.NewStyles(theme.FromName(cfg.Theme))

	a, err := app.New(app.Options{
		Tabs:   tabs,
		Keys:   table,
		Styles: styles,
		Panes:  cfg.PaneOptions(styles),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	term, err := terminal.Open(os.Stdin, os.Stdout)
	if err != nil {
		if errors.Is(err, terminal.ErrNotTerminal) {
			return output.NotTerminalError()
		}
		return err
	}
	defer term.Close()

	// Raw mode delivers ctrl+c as a key bound to quit; these signals only
	// arrive from outside the terminal.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("dashboard started", "tabs", len(tabs), "tick", cfg.Tick().String(), "theme", cfg.Theme)
	stats, err := dispatch.Run(ctx, term, cfg.Tick(), table, a, term)
	term.Close()

	slog.Info("dashboard stopped",
		"inputs", stats.Inputs,
		"ticks", stats.Ticks,
		"unbound", stats.Unbound,
		"frames", stats.Frames)

	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	slog.Error("dispatch failed", "error", err)
	return err
}
