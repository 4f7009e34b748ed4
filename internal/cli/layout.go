package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/maglab/internal/config"
	"github.com/Dicklesworthstone/maglab/internal/output"
)

func newLayoutCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the initial tab layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jsonOutput {
				format = "json"
			}
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			tabs, err := cfg.Layout()
			if err != nil {
				return err
			}

			out := output.New(output.WithFormat(f), output.WithWriter(cmd.OutOrStdout()))
			return out.OutputData(tabs, func(w io.Writer) error {
				return writeLayout(w, tabs)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func writeLayout(w io.Writer, tabs []config.TabLayout) error {
	tbl := output.NewTable(w, "TAB", "COLUMN", "PANES")
	total := 0
	for _, tab := range tabs {
		for i, col := range tab.Columns {
			names := make([]string, len(col))
			for j, k := range col {
				names[j] = k.String()
			}
			title := tab.Title
			if i > 0 {
				title = ""
			}
			tbl.AddRow(title, fmt.Sprint(i+1), strings.Join(names, ", "))
			total += len(col)
		}
	}
	tbl.Render()
	_, err := fmt.Fprintf(w, "\n%s, %s\n",
		output.CountStr(len(tabs), "tab", "tabs"),
		output.CountStr(total, "pane", "panes"))
	return err
}
