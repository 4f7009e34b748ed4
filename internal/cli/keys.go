package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/maglab/internal/keys"
	"github.com/Dicklesworthstone/maglab/internal/output"
	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

type keyRow struct {
	Command     string   `json:"command" yaml:"command"`
	Keys        []string `json:"keys" yaml:"keys"`
	Description string   `json:"description" yaml:"description"`
}

func keyRows(t *keys.Table) []keyRow {
	rows := make([]keyRow, 0, len(keys.Commands))
	for _, c := range keys.Commands {
		ks := t.Keys(c)
		if ks == nil {
			ks = []string{}
		}
		rows = append(rows, keyRow{Command: string(c), Keys: ks, Description: c.Description()})
	}
	return rows
}

// keysMarkdown renders the bindings as a Markdown table.
func keysMarkdown(rows []keyRow) string {
	var b strings.Builder
	b.WriteString("# MagLab key bindings\n\n")
	b.WriteString("| Command | Keys | Action |\n")
	b.WriteString("|---|---|---|\n")
	for _, r := range rows {
		ks := make([]string, len(r.Keys))
		for i, k := range r.Keys {
			ks[i] = "`" + k + "`"
		}
		bound := strings.Join(ks, ", ")
		if bound == "" {
			bound = "_unbound_"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Command, bound, r.Description)
	}
	b.WriteString("\nOverride any row in the `[keys]` table of the config file.\n")
	return b.String()
}

func renderMarkdown(md string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if theme.NoColorEnabled() {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func newKeysCmd(opts *rootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the key bindings",
		Long: `List every command with its keys. On a terminal the table is rendered
as Markdown; piped output is JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			table, err := cfg.KeyTable()
			if err != nil {
				return err
			}
			rows := keyRows(table)

			format := output.DetectFormat(opts.jsonOutput)
			if plain {
				format = output.FormatText
			}
			f := output.New(output.WithFormat(format), output.WithWriter(cmd.OutOrStdout()))
			return f.OutputData(rows, func(w io.Writer) error {
				if plain {
					tbl := output.NewTable(w, "COMMAND", "KEYS", "ACTION")
					for _, r := range rows {
						tbl.AddRow(r.Command, strings.Join(r.Keys, ", "), r.Description)
					}
					tbl.Render()
					bound := table.Bound()
					_, err := fmt.Fprintf(w, "\n%s: %s\n",
						output.CountStr(len(bound), "key bound", "keys bound"),
						strings.Join(bound, " "))
					return err
				}
				rendered, err := renderMarkdown(keysMarkdown(rows), 80)
				if err != nil {
					return err
				}
				_, err = io.WriteString(w, rendered)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "plain text table without Markdown styling")
	return cmd
}
