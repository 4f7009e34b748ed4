package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dicklesworthstone/maglab/internal/keys"
)

// Root is the application object the loop drives.
type Root interface {
	// Apply performs a bound command.
	Apply(cmd keys.Command)
	// Tick lets panes refresh their content without touching the layout.
	Tick()
	// View renders the whole frame for a width x height screen.
	View(width, height int) string
	// Done reports whether a quit was requested.
	Done() bool
}

// Screen is the drawing surface.
type Screen interface {
	Size() (width, height int, err error)
	Draw(frame string) error
}

// Stats counts what the consumer has processed.
type Stats struct {
	Inputs  int
	Ticks   int
	Unbound int
	Frames  int
}

// Loop is the single consumer: one event in, at most one command applied,
// exactly one redraw out.
type Loop struct {
	queue  *Queue
	keys   *keys.Table
	root   Root
	screen Screen
	logger *slog.Logger
	stats  Stats
}

// NewLoop wires a consumer over q.
func NewLoop(q *Queue, table *keys.Table, root Root, screen Screen) *Loop {
	return &Loop{queue: q, keys: table, root: root, screen: screen, logger: slog.Default()}
}

// Stats returns the counters so far.
func (l *Loop) Stats() Stats { return l.stats }

// Run consumes events until the root asks to quit, the producer disconnects,
// a draw fails, or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		ev, err := l.queue.Next(ctx)
		if err != nil {
			return err
		}

		switch ev.Kind {
		case Input:
			l.stats.Inputs++
			if cmd, ok := l.keys.Lookup(ev.Key); ok {
				l.logger.Debug("apply", "key", ev.Key.String(), "command", string(cmd))
				l.root.Apply(cmd)
			} else {
				l.stats.Unbound++
			}
		case Tick:
			l.stats.Ticks++
			l.root.Tick()
		}

		if err := l.draw(); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
		if l.root.Done() {
			return nil
		}
	}
}

func (l *Loop) draw() error {
	w, h, err := l.screen.Size()
	if err != nil {
		return err
	}
	if err := l.screen.Draw(l.root.View(w, h)); err != nil {
		return err
	}
	l.stats.Frames++
	return nil
}

// Run starts a producer over poller and consumes on the calling goroutine
// until quit or failure. The producer is not joined; it stops when ctx is
// cancelled on return.
func Run(ctx context.Context, poller Poller, tick time.Duration, table *keys.Table, root Root, screen Screen) (Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := NewQueue()
	go NewProducer(poller, q, tick).Run(ctx)

	loop := NewLoop(q, table, root, screen)
	err := loop.Run(ctx)
	return loop.Stats(), err
}
