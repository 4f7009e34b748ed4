package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/maglab/internal/config"
	"github.com/Dicklesworthstone/maglab/internal/output"
	"github.com/Dicklesworthstone/maglab/internal/pane"
)

// isolate points every config and state lookup at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("MAGLAB_TICK", "")
	t.Setenv("MAGLAB_THEME", "")
	t.Setenv("MAGLAB_LOG_LEVEL", "")
	t.Setenv("MAGLAB_OUTPUT_FORMAT", "")
	t.Setenv("NO_COLOR", "1")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "maglab.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionJSON(t *testing.T) {
	isolate(t)
	out, err := run(t, "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info versionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if info.Version != Version || info.GoVersion == "" || info.Platform == "" {
		t.Errorf("info = %+v", info)
	}
}

func TestVersionShort(t *testing.T) {
	isolate(t)
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != Version {
		t.Errorf("out = %q, want %q", out, Version)
	}
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "config", "maglab", "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("default path = %q, want %q", out, want)
	}

	out, err = run(t, "config", "path", "--config", "/tmp/x.toml")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "/tmp/x.toml" {
		t.Errorf("flag path = %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "new", "config.toml")

	out, err := run(t, "config", "init", "-c", path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("out = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse(string(data))
	if err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written config invalid: %v", err)
	}

	if _, err := run(t, "config", "init", "-c", path); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestConfigShowFlagsOverride(t *testing.T) {
	isolate(t)
	out, err := run(t, "config", "show", "--json", "--tick", "250ms", "--theme", "nord")
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.TickInterval != "250ms" || cfg.Theme != "nord" {
		t.Errorf("tick=%q theme=%q", cfg.TickInterval, cfg.Theme)
	}
}

func TestConfigShowInvalid(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `tick_interval = "soon"`)

	_, err := run(t, "config", "show", "-c", path)
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("err = %v, want CLIError", err)
	}
	if cliErr.Code != "CONFIG_INVALID" {
		t.Errorf("code = %q", cliErr.Code)
	}
}

func TestConfigDiff(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "config", "diff")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "matches the defaults") {
		t.Errorf("no-file diff = %q", out)
	}

	path := writeConfig(t, dir, "theme = \"nord\"\n")
	out, err = run(t, "config", "diff", "-c", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `- theme = "auto"`) || !strings.Contains(out, `+ theme = "nord"`) {
		t.Errorf("diff = %q", out)
	}
}

func TestKeysJSON(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "[keys]\nquit = [\"x\"]\nnew_pane = []\n")

	out, err := run(t, "keys", "--json", "-c", path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []keyRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := map[string][]string{}
	for _, r := range rows {
		got[r.Command] = r.Keys
	}
	if len(got["quit"]) != 1 || got["quit"][0] != "x" {
		t.Errorf("quit keys = %v", got["quit"])
	}
	if len(got["new_pane"]) != 0 {
		t.Errorf("new_pane keys = %v, want none", got["new_pane"])
	}
	if len(got["focus_left"]) != 1 || got["focus_left"][0] != "left" {
		t.Errorf("focus_left keys = %v", got["focus_left"])
	}
}

func TestKeysPlain(t *testing.T) {
	isolate(t)
	out, err := run(t, "keys", "--plain")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"COMMAND", "remove_pane", "ctrl+r", "previous tab", "11 keys bound: ctrl+c ctrl+n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestKeysMarkdown(t *testing.T) {
	md := keysMarkdown([]keyRow{
		{Command: "quit", Keys: []string{"q"}, Description: "quit"},
		{Command: "new_pane", Keys: []string{}, Description: "new pane"},
	})
	if !strings.Contains(md, "| quit | `q` | quit |") {
		t.Errorf("bound row missing:\n%s", md)
	}
	if !strings.Contains(md, "| new_pane | _unbound_ | new pane |") {
		t.Errorf("unbound row missing:\n%s", md)
	}
}

func TestLayoutFormats(t *testing.T) {
	isolate(t)

	out, err := run(t, "layout", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var tabs []struct {
		Title   string     `json:"title"`
		Columns [][]string `json:"columns"`
	}
	if err := json.Unmarshal([]byte(out), &tabs); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(tabs) != 3 || tabs[1].Title != "MachO" {
		t.Fatalf("tabs = %+v", tabs)
	}
	if strings.Join(tabs[0].Columns[2], ",") != "FileManager,HexView,Parser" {
		t.Errorf("tab 0 col 2 = %v", tabs[0].Columns[2])
	}

	out, err = run(t, "layout", "-f", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	var ytabs []struct {
		Title   string     `yaml:"title"`
		Columns [][]string `yaml:"columns"`
	}
	if err := yaml.Unmarshal([]byte(out), &ytabs); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(ytabs) != 3 || ytabs[2].Title != "PE" {
		t.Errorf("yaml tabs = %+v", ytabs)
	}

	out, err = run(t, "layout")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "3 tabs, 18 panes") {
		t.Errorf("text summary missing:\n%s", out)
	}

	if _, err := run(t, "layout", "-f", "xml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestLayoutCustomTabs(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
[[tabs]]
title = "Solo"
columns = [["hexview"], ["parser", "filemanager"]]
`)
	tabs, err := func() ([]config.TabLayout, error) {
		opts := &rootOptions{configPath: path}
		cfg, err := opts.loadConfig()
		if err != nil {
			return nil, err
		}
		return cfg.Layout()
	}()
	if err != nil {
		t.Fatal(err)
	}
	if len(tabs) != 1 {
		t.Fatalf("tabs = %d", len(tabs))
	}
	got := strings.Join(kindNames(tabs[0].Columns[1]), ",")
	if got != "Parser,FileManager" {
		t.Errorf("column 1 = %s", got)
	}
}

func TestRootRequiresTerminal(t *testing.T) {
	isolate(t)
	prev := stdioIsTerminal
	stdioIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdioIsTerminal = prev })

	_, err := run(t)
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) || cliErr.Code != "NOT_A_TTY" {
		t.Fatalf("err = %v, want NOT_A_TTY", err)
	}
}

func kindNames(col []pane.Kind) []string {
	out := make([]string, len(col))
	for i, k := range col {
		out[i] = k.String()
	}
	return out
}
