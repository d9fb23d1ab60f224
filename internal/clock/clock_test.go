package clock

import (
	"testing"
	"time"

	"github.com/benbeisheim/relaychess/internal/engine"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockStartStop(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := newClock(time.Minute, ft.now)

	ft.advance(10 * time.Second)
	if got := c.TimeLeft(); got != time.Minute {
		t.Fatalf("stopped clock ticked: %v", got)
	}
	c.Start()
	ft.advance(15 * time.Second)
	if got := c.TimeLeft(); got != 45*time.Second {
		t.Fatalf("TimeLeft = %v, want 45s", got)
	}
	c.Stop()
	ft.advance(time.Hour)
	if got := c.TimeLeft(); got != 45*time.Second {
		t.Fatalf("TimeLeft after stop = %v, want 45s", got)
	}
	c.Add(2 * time.Second)
	if got := c.TimeLeft(); got != 47*time.Second {
		t.Fatalf("TimeLeft after Add = %v, want 47s", got)
	}
}

func TestClockNeverNegative(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := newClock(time.Second, ft.now)
	c.Start()
	ft.advance(time.Minute)
	if got := c.TimeLeft(); got != 0 {
		t.Fatalf("TimeLeft = %v, want 0", got)
	}
}

func TestPairSwitchAddsIncrement(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	p := NewPair(5*time.Minute, 2*time.Second, nil, WithNow(ft.now))
	defer p.Stop()

	if _, ok := p.Running(); ok {
		t.Fatal("a clock runs before the first move")
	}
	// White's first move starts black's clock and credits white.
	p.Switch(engine.White)
	if side, ok := p.Running(); !ok || side != engine.Black {
		t.Fatalf("Running() = %v, %v; want Black", side, ok)
	}
	if got := p.Remaining(engine.White); got != 5*time.Minute+2*time.Second {
		t.Fatalf("white = %v", got)
	}

	ft.advance(30 * time.Second)
	p.Switch(engine.Black)
	if got := p.Remaining(engine.Black); got != 4*time.Minute+32*time.Second {
		t.Fatalf("black = %v, want 4m32s", got)
	}
	if side, _ := p.Running(); side != engine.White {
		t.Fatalf("running side = %v, want White", side)
	}
}

func TestPairExpiry(t *testing.T) {
	expired := make(chan engine.Color, 2)
	p := NewPair(20*time.Millisecond, 0, func(loser engine.Color) { expired <- loser })
	defer p.Stop()

	p.Switch(engine.White)
	select {
	case loser := <-expired:
		if loser != engine.Black {
			t.Fatalf("loser = %v, want Black", loser)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expiry callback never fired")
	}
	if _, ok := p.Running(); ok {
		t.Fatal("clock still running after expiry")
	}

	p.Switch(engine.Black)
	select {
	case <-expired:
		t.Fatal("expiry fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPairStopDisarms(t *testing.T) {
	expired := make(chan engine.Color, 1)
	p := NewPair(20*time.Millisecond, 0, func(loser engine.Color) { expired <- loser })
	p.Switch(engine.White)
	p.Stop()
	select {
	case <-expired:
		t.Fatal("stopped pair expired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestPairResume(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	p := NewPair(time.Minute, 5*time.Second, nil, WithNow(ft.now))
	defer p.Stop()

	p.Resume(engine.Black)
	ft.advance(10 * time.Second)
	if got := p.Remaining(engine.Black); got != 50*time.Second {
		t.Fatalf("black = %v, want 50s", got)
	}
	if got := p.Remaining(engine.White); got != time.Minute {
		t.Fatalf("white = %v, want 1m", got)
	}
}
