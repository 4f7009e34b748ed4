package pane

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/maglab/internal/tui/icons"
	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
	"github.com/Dicklesworthstone/maglab/internal/watcher"
)

// FileManagerOptions configures directory listing panes.
type FileManagerOptions struct {
	Root       string
	ShowHidden bool
	// Watch enables live refresh through the filesystem watcher.
	Watch bool
	// Poll re-lists the directory every PollInterval instead of using
	// fsnotify. Zero PollInterval means watcher.DefaultPollInterval.
	Poll         bool
	PollInterval time.Duration
	// Icons marks each entry with a glyph. The zero set hides the column.
	Icons icons.IconSet
}

type fileEntry struct {
	name  string
	dir   bool
	size  int64
	isExe bool
	link  bool
}

type fileManager struct {
	root       string
	showHidden bool
	icons      icons.IconSet
	styles     theme.Styles

	entries []fileEntry
	err     error

	dirty   atomic.Bool
	watcher *watcher.Watcher
}

func newFileManager(opts FileManagerOptions, styles theme.Styles) *fileManager {
	root := opts.Root
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	fm := &fileManager{root: root, showHidden: opts.ShowHidden, icons: opts.Icons, styles: styles}
	fm.reload()

	if opts.Watch {
		w, err := watcher.New(
			func([]watcher.Event) { fm.dirty.Store(true) },
			watcher.WithPolling(opts.Poll),
			watcher.WithPollInterval(opts.PollInterval),
			watcher.WithErrorHandler(func(err error) {
				slog.Debug("file manager watch error", "root", root, "error", err)
			}),
		)
		if err == nil {
			err = w.Add(root)
			if err != nil {
				_ = w.Close()
			} else {
				fm.watcher = w
			}
		}
		if err != nil {
			slog.Warn("file manager: live refresh disabled", "root", root, "error", err)
		}
	}
	return fm
}

func (f *fileManager) Kind() Kind { return FileManager }

func (f *fileManager) Title() string { return FileManager.String() }

func (f *fileManager) Refresh() {
	if f.dirty.CompareAndSwap(true, false) {
		f.reload()
	}
}

func (f *fileManager) Close() error {
	if f.watcher == nil {
		return nil
	}
	err := f.watcher.Close()
	f.watcher = nil
	return err
}

func (f *fileManager) reload() {
	dirents, err := os.ReadDir(f.root)
	if err != nil {
		f.entries, f.err = nil, err
		return
	}

	entries := make([]fileEntry, 0, len(dirents))
	for _, d := range dirents {
		if !f.showHidden && strings.HasPrefix(d.Name(), ".") {
			continue
		}
		e := fileEntry{name: d.Name(), dir: d.IsDir(), link: d.Type()&os.ModeSymlink != 0}
		if info, err := d.Info(); err == nil {
			e.size = info.Size()
			e.isExe = !e.dir && info.Mode()&0o111 != 0
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].dir != entries[j].dir {
			return entries[i].dir
		}
		return entries[i].name < entries[j].name
	})
	f.entries, f.err = entries, nil
}

func (f *fileManager) Render(width, height int, focused bool) string {
	if f.err != nil {
		return fit([]string{f.styles.Error.Render(f.err.Error())}, width, height)
	}

	lines := make([]string, 0, len(f.entries)+1)
	lines = append(lines, f.styles.Dim.Render(runewidth.Truncate(f.root, width, "…")))

	sizeCol := 8
	nameCol := width - sizeCol - 1
	if nameCol < 4 {
		nameCol, sizeCol = width, 0
	}
	for _, e := range f.entries {
		name := e.name
		if e.dir {
			name += "/"
		}
		if f.icons.Enabled() {
			name = f.icons.For(e.name, e.dir, e.isExe, e.link) + " " + name
		}
		name = runewidth.FillRight(runewidth.Truncate(name, nameCol, "…"), nameCol)
		switch {
		case e.dir:
			name = f.styles.Directory.Render(name)
		case e.isExe:
			name = f.styles.Offset.Render(name)
		default:
			name = f.styles.Normal.Render(name)
		}
		if sizeCol > 0 {
			size := ""
			if !e.dir {
				size = humanSize(e.size)
			}
			name += " " + f.styles.Dim.Render(fmt.Sprintf("%*s", sizeCol, size))
		}
		lines = append(lines, name)
	}
	if len(f.entries) == 0 {
		lines = append(lines, f.styles.Dim.Render("(empty)"))
	}
	return fit(lines, width, height)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}
