// Package cli implements the maglab command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/maglab/internal/config"
	"github.com/Dicklesworthstone/maglab/internal/output"
)

var (
	// Build information - set via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	tick       string
	theme      string
	debug      bool
	jsonOutput bool
}

// loadConfig reads the config file and applies flag overrides on top of the
// environment overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, output.ConfigError(path, err)
	}
	if o.tick != "" {
		cfg.TickInterval = o.tick
	}
	if o.theme != "" {
		cfg.Theme = o.theme
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, output.ConfigError(path, err)
	}
	return cfg, nil
}

func (o *rootOptions) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "maglab",
		Short: "Tiled terminal workbench for inspecting binaries",
		Long: `MagLab arranges file manager, hex view and binary parser panes in tabs
of tiled columns.

Keys (defaults, see 'maglab keys'):
  ←/→/↑/↓          move focus between panes
  ctrl+n           add a pane to the right
  ctrl+r           remove the focused pane
  shift+←/shift+→  previous / next tab
  ctrl+q, ctrl+c   quit (also q)

Configuration:
  maglab config init    # write ~/.config/maglab/config.toml
  maglab config show    # print the effective configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.tick, "tick", "", "pane refresh interval, e.g. 500ms (env MAGLAB_TICK)")
	flags.StringVar(&opts.theme, "theme", "", "color theme (env MAGLAB_THEME)")
	flags.BoolVar(&opts.debug, "debug", false, "log at debug level with source locations")
	flags.BoolVar(&opts.jsonOutput, "json", false, "machine-readable output where supported")

	cmd.AddCommand(
		newVersionCmd(opts),
		newConfigCmd(opts),
		newKeysCmd(opts),
		newLayoutCmd(opts),
	)
	return cmd
}

// Execute runs the command tree and prints any error to stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		output.PrintError(os.Stderr, err)
		slog.Error("maglab failed", "error", err)
		return err
	}
	return nil
}

// goVersion returns the current Go runtime version.
func goVersion() string {
	return runtime.Version()
}

// goPlatform returns the OS/ARCH string.
func goPlatform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuiltAt   string `json:"built_at" yaml:"built_at"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if short && !opts.jsonOutput {
				fmt.Fprintln(w, Version)
				return nil
			}
			info := versionInfo{
				Version:   Version,
				Commit:    Commit,
				BuiltAt:   Date,
				BuiltBy:   BuiltBy,
				GoVersion: goVersion(),
				Platform:  goPlatform(),
			}
			f := output.New(output.WithJSON(opts.jsonOutput), output.WithWriter(w))
			return f.OutputData(info, func(w io.Writer) error {
				fmt.Fprintf(w, "maglab version %s\n", info.Version)
				fmt.Fprintf(w, "  commit:    %s\n", info.Commit)
				fmt.Fprintf(w, "  built:     %s\n", info.BuiltAt)
				fmt.Fprintf(w, "  builder:   %s\n", info.BuiltBy)
				fmt.Fprintf(w, "  go:        %s\n", info.GoVersion)
				fmt.Fprintf(w, "  platform:  %s\n", info.Platform)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}
