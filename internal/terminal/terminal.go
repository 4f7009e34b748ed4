// Package terminal owns the real screen: raw mode, the alternate buffer,
// frame output and key input.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by Open when either side is not a TTY.
var ErrNotTerminal = errors.New("terminal: not a tty")

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Terminal is an opened screen. It implements the dispatcher's Screen and
// Poller.
type Terminal struct {
	in    *os.File
	out   io.Writer
	outFd int
	state *term.State

	cr     cancelreader.CancelReader
	events chan uv.Event
	errc   chan error
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
	logger    *slog.Logger
}

// Open switches in to raw mode, enters the alternate screen on out and
// starts decoding input.
func Open(in, out *os.File) (*Terminal, error) {
	if !IsTerminal(in) || !IsTerminal(out) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}

	cr, err := cancelreader.NewReader(in)
	if err != nil {
		_ = term.Restore(int(in.Fd()), state)
		return nil, fmt.Errorf("input reader: %w", err)
	}

	t := &Terminal{
		in:     in,
		out:    out,
		outFd:  int(out.Fd()),
		state:  state,
		cr:     cr,
		events: make(chan uv.Event, 256),
		errc:   make(chan error, 1),
		logger: slog.Default(),
	}

	if _, err := io.WriteString(out, ansi.SetModeAltScreenSaveCursor+ansi.HideCursor+ansi.EraseEntireScreen+ansi.CursorHomePosition); err != nil {
		t.Close()
		return nil, fmt.Errorf("init screen: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	reader := uv.NewTerminalReader(cr, os.Getenv("TERM"))
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		err := reader.StreamEvents(ctx, t.events)
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, cancelreader.ErrCanceled) || errors.Is(err, context.Canceled) {
			err = io.EOF
		}
		t.errc <- err
	}()
	return t, nil
}

// Size returns the current screen size in cells.
func (t *Terminal) Size() (int, int, error) {
	return term.GetSize(t.outFd)
}

// Draw replaces the screen contents with frame.
func (t *Terminal) Draw(frame string) error {
	_, err := io.WriteString(t.out, Frame(frame))
	return err
}

// Frame wraps a rendered view in the sequences that paint it from the top
// left corner in raw mode.
func Frame(view string) string {
	var b strings.Builder
	b.WriteString(ansi.CursorHomePosition)
	for i, line := range strings.Split(view, "\n") {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
		b.WriteString(ansi.EraseLineRight)
	}
	b.WriteString(ansi.EraseScreenBelow)
	return b.String()
}

// Poll waits up to timeout for a key press. Events without a key form are
// skipped. Once input ends Poll returns io.EOF or the read error.
func (t *Terminal) Poll(ctx context.Context, timeout time.Duration) (tea.KeyMsg, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return tea.KeyMsg{}, false, ctx.Err()
		case <-timer.C:
			return tea.KeyMsg{}, false, nil
		case err := <-t.errc:
			t.errc <- err
			return tea.KeyMsg{}, false, err
		case ev := <-t.events:
			press, ok := ev.(uv.KeyPressEvent)
			if !ok {
				continue
			}
			if k, ok := teaKey(uv.Key(press)); ok {
				return k, true, nil
			}
			t.logger.Debug("dropped key", "code", uv.Key(press).Code)
		}
	}
}

// Close stops input, leaves the alternate screen and restores the cooked
// mode. It is safe to call more than once.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		if t.cancel != nil {
			t.cancel()
		}
		t.cr.Cancel()
		_ = t.cr.Close()
		t.wg.Wait()

		_, _ = io.WriteString(t.out, ansi.ShowCursor+ansi.ResetModeAltScreenSaveCursor)
		if err := term.Restore(int(t.in.Fd()), t.state); err != nil {
			t.logger.Warn("restore terminal", "error", err)
		}
	})
}
