package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/maglab/internal/config"
	"github.com/Dicklesworthstone/maglab/internal/output"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.path()
			if err := config.CreateDefaultAt(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), opts.path())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, environment variables and
flags are applied. The text form is a valid config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			f := output.New(output.WithJSON(opts.jsonOutput), output.WithWriter(cmd.OutOrStdout()))
			return f.OutputData(cfg, func(w io.Writer) error {
				return config.Print(cfg, w)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "diff",
		Short: "Compare the effective configuration with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			d := config.Diff("defaults", config.Default(), opts.path(), cfg)
			f := output.New(output.WithJSON(opts.jsonOutput), output.WithWriter(cmd.OutOrStdout()))
			return f.OutputData(d, func(w io.Writer) error {
				if !d.Changed {
					fmt.Fprintln(w, "Configuration matches the defaults.")
					return nil
				}
				fmt.Fprintf(w, "--- %s\n+++ %s\n", d.Left, d.Right)
				_, err := io.WriteString(w, d.UnifiedDiff)
				return err
			})
		},
	})

	return cmd
}
