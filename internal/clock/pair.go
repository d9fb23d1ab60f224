package clock

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/engine"
)

// Pair runs the two clocks of a game. Exactly one runs at a time once the
// first move has been made; when it reaches zero the expiry callback fires
// once with the color whose time ran out.
type Pair struct {
	mu        sync.Mutex
	clocks    [2]*Clock
	increment time.Duration
	timer     *time.Timer
	expired   bool
	onExpire  func(loser engine.Color)
	now       func() time.Time
	log       zerolog.Logger
}

type Option func(*Pair)

func WithLogger(l zerolog.Logger) Option {
	return func(p *Pair) { p.log = l }
}

// WithNow replaces the wall clock, mainly for tests.
func WithNow(now func() time.Time) Option {
	return func(p *Pair) { p.now = now }
}

func NewPair(initial, increment time.Duration, onExpire func(loser engine.Color), opts ...Option) *Pair {
	p := &Pair{
		increment: increment,
		onExpire:  onExpire,
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := range p.clocks {
		p.clocks[i] = newClock(initial, p.now)
	}
	return p
}

// Switch is called after mover completes a move: the mover's clock stops and
// is credited the increment, and the opponent's clock starts.
func (p *Pair) Switch(mover engine.Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.expired {
		return
	}

	own, next := p.clocks[mover], p.clocks[mover.Opposite()]
	own.Stop()
	own.Add(p.increment)
	next.Start()
	p.arm(mover.Opposite())

	p.log.Debug().
		Str("mover", mover.String()).
		Dur("white", p.clocks[engine.White].TimeLeft()).
		Dur("black", p.clocks[engine.Black].TimeLeft()).
		Msg("clocks switched")
}

// Resume starts side's clock without crediting anyone, as when a game that
// already has moves is started.
func (p *Pair) Resume(side engine.Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.expired {
		return
	}
	p.clocks[side.Opposite()].Stop()
	p.clocks[side].Start()
	p.arm(side)
}

// Stop pauses both clocks and disarms the expiry timer.
func (p *Pair) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clocks {
		c.Stop()
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pair) Remaining(c engine.Color) time.Duration {
	return p.clocks[c].TimeLeft()
}

// Running returns the color whose clock is ticking.
func (p *Pair) Running() (engine.Color, bool) {
	for _, c := range []engine.Color{engine.White, engine.Black} {
		if p.clocks[c].Running() {
			return c, true
		}
	}
	return engine.White, false
}

// arm schedules the expiry check for side. Callers hold p.mu.
func (p *Pair) arm(side engine.Color) {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.clocks[side].TimeLeft(), func() { p.expire(side) })
}

func (p *Pair) expire(side engine.Color) {
	p.mu.Lock()
	c := p.clocks[side]
	if p.expired || !c.Running() {
		p.mu.Unlock()
		return
	}
	if left := c.TimeLeft(); left > 0 {
		p.timer = time.AfterFunc(left, func() { p.expire(side) })
		p.mu.Unlock()
		return
	}
	c.Stop()
	p.expired = true
	p.timer = nil
	p.mu.Unlock()

	p.log.Info().Str("side", side.String()).Msg("time ran out")
	if p.onExpire != nil {
		p.onExpire(side)
	}
}
