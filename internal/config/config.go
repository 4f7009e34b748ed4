// Package config loads the dashboard settings from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Dicklesworthstone/maglab/internal/keys"
	"github.com/Dicklesworthstone/maglab/internal/pane"
	"github.com/Dicklesworthstone/maglab/internal/tui/icons"
	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
	"github.com/Dicklesworthstone/maglab/internal/util"
)

var (
	// ErrUnknownCommand is returned for a [keys] entry naming no command.
	ErrUnknownCommand = keys.ErrUnknownCommand
	// ErrUnknownPaneKind is returned for a tab column naming no pane kind.
	ErrUnknownPaneKind = pane.ErrUnknownKind
	// ErrEmptyLayout is returned when a tab, column or the tab list is empty.
	ErrEmptyLayout = errors.New("empty layout")
)

// DefaultTick is the pane refresh interval when none is configured.
const DefaultTick = time.Second

// Config is the full settings file.
type Config struct {
	TickInterval string              `toml:"tick_interval" json:"tick_interval"`
	Theme        string              `toml:"theme" json:"theme"`
	Log          LogConfig           `toml:"log" json:"log"`
	Keys         map[string][]string `toml:"keys" json:"keys"`
	FileManager  FileManagerConfig   `toml:"file_manager" json:"file_manager"`
	HexView      HexViewConfig       `toml:"hex_view" json:"hex_view"`
	Parser       ParserConfig        `toml:"parser" json:"parser"`
	Tabs         []TabConfig         `toml:"tabs" json:"tabs"`

	// Undecoded lists keys present in the file that no field consumed.
	Undecoded []string `toml:"-" json:"-"`
}

// LogConfig controls the log sink. The dashboard owns the terminal, so the
// default sink is a rotating file.
type LogConfig struct {
	Level      string `toml:"level" json:"level"`
	Format     string `toml:"format" json:"format"`
	Sink       string `toml:"sink" json:"sink"`
	File       string `toml:"file" json:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days"`
}

// FileManagerConfig configures new file manager panes.
type FileManagerConfig struct {
	Root       string `toml:"root" json:"root"`
	ShowHidden bool   `toml:"show_hidden" json:"show_hidden"`
	Watch      bool   `toml:"watch" json:"watch"`
	// Poll re-lists the directory each tick instead of using fsnotify.
	Poll bool `toml:"poll" json:"poll"`
	// Icons names a glyph set; empty defers to MAGLAB_ICONS.
	Icons string `toml:"icons" json:"icons"`
}

// HexViewConfig configures new hex view panes.
type HexViewConfig struct {
	Path        string `toml:"path" json:"path"`
	BytesPerRow int    `toml:"bytes_per_row" json:"bytes_per_row"`
	MaxBytes    int    `toml:"max_bytes" json:"max_bytes"`
}

// ParserConfig configures new parser panes.
type ParserConfig struct {
	Path string `toml:"path" json:"path"`
}

// TabConfig is one tab of the initial layout. Columns run left to right and
// each lists its panes top to bottom.
type TabConfig struct {
	Title   string     `toml:"title" json:"title"`
	Columns [][]string `toml:"columns" json:"columns"`
}

// TabLayout is a validated TabConfig.
type TabLayout struct {
	Title   string        `json:"title" yaml:"title"`
	Columns [][]pane.Kind `json:"columns" yaml:"columns"`
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "maglab", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "maglab", "config.toml")
}

// DefaultLogPath returns the default log file path
func DefaultLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "maglab", "maglab.log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "maglab", "maglab.log")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultTabs is the stock three-tab layout.
func DefaultTabs() []TabConfig {
	return []TabConfig{
		{Title: "FileManager", Columns: [][]string{
			{"FileManager", "HexView"},
			{"HexView"},
			{"FileManager", "HexView", "Parser"},
		}},
		{Title: "MachO", Columns: [][]string{
			{"HexView"},
			{"FileManager", "HexView"},
			{"FileManager", "HexView", "Parser"},
		}},
		{Title: "PE", Columns: [][]string{
			{"FileManager", "HexView", "Parser"},
			{"HexView"},
			{"FileManager", "HexView"},
		}},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TickInterval: DefaultTick.String(),
		Theme:        "auto",
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			Sink:       "file",
			File:       DefaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Keys:        map[string][]string{},
		FileManager: FileManagerConfig{Root: ".", Watch: true},
		HexView:     HexViewConfig{BytesPerRow: 16, MaxBytes: 4096},
		Tabs:        DefaultTabs(),
	}
}

// Load reads path (DefaultPath when empty). A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		applyEnv(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text and fills in defaults for missing values.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, k := range md.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, k.String())
	}

	// Apply defaults for missing values
	def := Default()
	if cfg.TickInterval == "" {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.Theme == "" {
		cfg.Theme = def.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Log.Sink == "" {
		cfg.Log.Sink = def.Log.Sink
	}
	if cfg.Log.File == "" {
		cfg.Log.File = def.Log.File
	}
	cfg.Log.File = ExpandHome(cfg.Log.File)
	if !md.IsDefined("log", "max_size_mb") {
		cfg.Log.MaxSizeMB = def.Log.MaxSizeMB
	}
	if !md.IsDefined("log", "max_backups") {
		cfg.Log.MaxBackups = def.Log.MaxBackups
	}
	if !md.IsDefined("log", "max_age_days") {
		cfg.Log.MaxAgeDays = def.Log.MaxAgeDays
	}
	if cfg.Keys == nil {
		cfg.Keys = map[string][]string{}
	}
	if cfg.FileManager.Root == "" {
		cfg.FileManager.Root = def.FileManager.Root
	}
	cfg.FileManager.Root = ExpandHome(cfg.FileManager.Root)
	if !md.IsDefined("file_manager", "watch") {
		cfg.FileManager.Watch = def.FileManager.Watch
	}
	cfg.HexView.Path = ExpandHome(cfg.HexView.Path)
	if cfg.HexView.BytesPerRow == 0 {
		cfg.HexView.BytesPerRow = def.HexView.BytesPerRow
	}
	if cfg.HexView.MaxBytes == 0 {
		cfg.HexView.MaxBytes = def.HexView.MaxBytes
	}
	cfg.Parser.Path = ExpandHome(cfg.Parser.Path)
	if !md.IsDefined("tabs") {
		cfg.Tabs = def.Tabs
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MAGLAB_TICK"); v != "" {
		cfg.TickInterval = v
	}
	if v := os.Getenv("MAGLAB_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("MAGLAB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Tick returns the parsed tick interval, falling back to DefaultTick when it
// does not parse. Validate reports the bad value.
func (c *Config) Tick() time.Duration {
	d, err := parseTick(c.TickInterval)
	if err != nil {
		return DefaultTick
	}
	return d
}

func parseTick(s string) (time.Duration, error) {
	d, err := util.ParseDurationWithDefault(s, time.Millisecond)
	if err != nil {
		return 0, fmt.Errorf("tick_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tick_interval: must be positive, got %s", s)
	}
	return d, nil
}

// KeyTable builds the binding table from the defaults and [keys].
func (c *Config) KeyTable() (*keys.Table, error) {
	t, err := keys.NewTable(c.Keys)
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	return t, nil
}

// Layout validates and returns the initial tabs.
func (c *Config) Layout() ([]TabLayout, error) {
	if len(c.Tabs) == 0 {
		return nil, fmt.Errorf("tabs: %w", ErrEmptyLayout)
	}
	out := make([]TabLayout, 0, len(c.Tabs))
	for i, tab := range c.Tabs {
		title := tab.Title
		if title == "" {
			title = fmt.Sprintf("Tab %d", i+1)
		}
		if len(tab.Columns) == 0 {
			return nil, fmt.Errorf("tab %q: %w", title, ErrEmptyLayout)
		}
		tl := TabLayout{Title: title, Columns: make([][]pane.Kind, len(tab.Columns))}
		for col, names := range tab.Columns {
			if len(names) == 0 {
				return nil, fmt.Errorf("tab %q column %d: %w", title, col, ErrEmptyLayout)
			}
			for _, name := range names {
				k, err := pane.ParseKind(name)
				if err != nil {
					return nil, fmt.Errorf("tab %q column %d: %w", title, col, err)
				}
				tl.Columns[col] = append(tl.Columns[col], k)
			}
		}
		out = append(out, tl)
	}
	return out, nil
}

// PaneOptions returns the settings new panes are built with.
func (c *Config) PaneOptions(styles theme.Styles) pane.Options {
	return pane.Options{
		Styles: styles,
		FileManager: pane.FileManagerOptions{
			Root:         c.FileManager.Root,
			ShowHidden:   c.FileManager.ShowHidden,
			Watch:        c.FileManager.Watch,
			Poll:         c.FileManager.Poll,
			PollInterval: c.Tick(),
			Icons:        c.iconSet(),
		},
		HexView: pane.HexViewOptions{
			Path:        c.HexView.Path,
			BytesPerRow: c.HexView.BytesPerRow,
			MaxBytes:    c.HexView.MaxBytes,
		},
		Parser: pane.ParserOptions{Path: c.Parser.Path},
	}
}

func (c *Config) iconSet() icons.IconSet {
	if c.FileManager.Icons == "" {
		return icons.Detect()
	}
	return icons.Named(c.FileManager.Icons)
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := parseTick(c.TickInterval); err != nil {
		return err
	}
	if !theme.Known(c.Theme) {
		return fmt.Errorf("theme: unknown theme %q (want one of %s)", c.Theme, strings.Join(theme.Names, ", "))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Sink) {
	case "file", "stderr", "none":
	default:
		return fmt.Errorf("log.sink: unknown sink %q", c.Log.Sink)
	}
	if c.FileManager.Icons != "" && !icons.Known(c.FileManager.Icons) {
		return fmt.Errorf("file_manager.icons: unknown set %q (want one of %s)", c.FileManager.Icons, strings.Join(icons.Names, ", "))
	}
	if c.HexView.BytesPerRow < 1 || c.HexView.BytesPerRow > 64 {
		return fmt.Errorf("hex_view.bytes_per_row: %d out of range 1..64", c.HexView.BytesPerRow)
	}
	if c.HexView.MaxBytes < 0 {
		return fmt.Errorf("hex_view.max_bytes: must not be negative")
	}
	if _, err := c.KeyTable(); err != nil {
		return err
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	return nil
}

// CreateDefault writes the default config to DefaultPath.
func CreateDefault() (string, error) {
	path := DefaultPath()
	return path, CreateDefaultAt(path)
}

// CreateDefaultAt writes the default config to path. An existing file is
// left alone and reported as an error.
func CreateDefaultAt(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err != nil {
		return err
	}
	if err := Print(Default(), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Print writes config to a writer in TOML format
func Print(cfg *Config, w io.Writer) error {
	p := &printer{w: w}

	p.line("# MagLab configuration")
	p.line("")
	p.line("# Interval between pane refreshes: a Go duration or bare milliseconds. Env: MAGLAB_TICK")
	p.linef("tick_interval = %q", cfg.TickInterval)
	p.line("# auto, classic, mocha, macchiato, latte, nord or plain. Env: MAGLAB_THEME")
	p.linef("theme = %q", cfg.Theme)
	p.line("")

	p.line("[log]")
	p.line("# debug, info, warn or error. Env: MAGLAB_LOG_LEVEL")
	p.linef("level = %q", cfg.Log.Level)
	p.line("# text or json")
	p.linef("format = %q", cfg.Log.Format)
	p.line("# file, stderr or none")
	p.linef("sink = %q", cfg.Log.Sink)
	p.linef("file = %q", cfg.Log.File)
	p.linef("max_size_mb = %d", cfg.Log.MaxSizeMB)
	p.linef("max_backups = %d", cfg.Log.MaxBackups)
	p.linef("max_age_days = %d", cfg.Log.MaxAgeDays)
	p.line("")

	p.line("[keys]")
	p.line("# Each entry replaces the default keys of that command. [] unbinds it.")
	defaults := keys.Defaults()
	for _, c := range keys.Commands {
		ks, ok := cfg.Keys[string(c)]
		if !ok {
			ks = defaults[c]
		}
		p.linef("%s = %s", c, quoteList(ks))
	}
	p.line("")

	p.line("[file_manager]")
	p.linef("root = %q", cfg.FileManager.Root)
	p.linef("show_hidden = %t", cfg.FileManager.ShowHidden)
	p.line("# Refresh the listing when the directory changes")
	p.linef("watch = %t", cfg.FileManager.Watch)
	p.line("# List the directory every tick instead of using fsnotify (network mounts)")
	p.linef("poll = %t", cfg.FileManager.Poll)
	p.line("# auto, nerd, unicode, ascii or none. Empty reads MAGLAB_ICONS")
	p.linef("icons = %q", cfg.FileManager.Icons)
	p.line("")

	p.line("[hex_view]")
	p.line("# Empty path shows the maglab executable itself")
	p.linef("path = %q", cfg.HexView.Path)
	p.linef("bytes_per_row = %d", cfg.HexView.BytesPerRow)
	p.linef("max_bytes = %d", cfg.HexView.MaxBytes)
	p.line("")

	p.line("[parser]")
	p.line("# ELF, PE or Mach-O binary to summarize; empty means the maglab executable")
	p.linef("path = %q", cfg.Parser.Path)

	for _, tab := range cfg.Tabs {
		p.line("")
		p.line("[[tabs]]")
		p.linef("title = %q", tab.Title)
		p.line("columns = [")
		for _, col := range tab.Columns {
			p.linef("  %s,", quoteList(col))
		}
		p.line("]")
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, s)
	}
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// String renders cfg as TOML.
func (c *Config) String() string {
	var b strings.Builder
	_ = Print(c, &b)
	return b.String()
}
