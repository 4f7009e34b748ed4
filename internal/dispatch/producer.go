package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTick is the refresh period when none is configured.
const DefaultTick = time.Second

// Poller waits up to timeout for one key. ok is false when the timeout
// elapsed without input.
type Poller interface {
	Poll(ctx context.Context, timeout time.Duration) (k tea.KeyMsg, ok bool, err error)
}

// Producer feeds a Queue from a Poller. It emits a Tick immediately and then
// whenever the tick interval has elapsed since the previous one; keys never
// reset the tick timer.
type Producer struct {
	poller Poller
	queue  *Queue
	tick   time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewProducer returns a producer that polls p and pushes onto q.
func NewProducer(p Poller, q *Queue, tick time.Duration) *Producer {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Producer{poller: p, queue: q, tick: tick, now: time.Now, logger: slog.Default()}
}

// Run polls until ctx is done or the poller fails, then closes the queue.
func (p *Producer) Run(ctx context.Context) {
	last := p.now()
	if !p.queue.Push(TickEvent()) {
		return
	}

	for {
		if ctx.Err() != nil {
			p.queue.Close(nil)
			return
		}
		timeout := p.tick - p.now().Sub(last)
		if timeout < 0 {
			timeout = 0
		}

		k, ok, err := p.poller.Poll(ctx, timeout)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				p.queue.Close(nil)
				return
			}
			p.logger.Error("input poll failed", "error", err)
			p.queue.Close(err)
			return
		}
		if ok && !p.queue.Push(InputEvent(k)) {
			return
		}

		if p.now().Sub(last) >= p.tick {
			if !p.queue.Push(TickEvent()) {
				return
			}
			last = p.now()
		}
	}
}
