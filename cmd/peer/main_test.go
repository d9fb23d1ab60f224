package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/config"
	"github.com/benbeisheim/relaychess/internal/session"
)

func TestCommands(t *testing.T) {
	var buf bytes.Buffer
	out := &printer{w: &buf}
	sess := session.New(session.Config{Time: time.Minute, Logger: zerolog.Nop()})
	defer sess.Close()

	in := strings.NewReader("moves g1\ne4\nKe9\npromote Queen\nboard\nquit\nd4\n")
	play(sess, in, out, nil)

	got := buf.String()
	for _, want := range []string{
		"g1: ",
		"notation matches no legal move",
		"no promotion pending",
		"Moves: 1.e4",
		"Black to move",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "f3") || !strings.Contains(got, "h3") {
		t.Errorf("knight moves missing:\n%s", got)
	}
	if moves := sess.Snapshot().Moves; len(moves) != 1 {
		t.Fatalf("commands after quit ran: %v", moves)
	}
}

func TestClockText(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "5:00"},
		{4*time.Minute + 32*time.Second, "4:32"},
		{1500 * time.Millisecond, "0:02"},
		{0, "0:00"},
	}
	for _, tt := range tests {
		if got := clockText(tt.d); got != tt.want {
			t.Errorf("clockText(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRunHotseat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-hotseat", "-time", "1m"}, strings.NewReader("e4\ne5\nquit\n"), &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "Moves: 1.e4 e5") {
		t.Fatalf("output:\n%s", stdout.String())
	}
}

func TestRunReportsErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-time", "0s"}, strings.NewReader(""), &stdout, &stderr); !errors.Is(err, config.ErrInvalidValue) {
		t.Fatalf("bad time err = %v", err)
	}
	if err := run([]string{"-hotseat", "-log-level", "loud"}, strings.NewReader(""), &stdout, &stderr); !errors.Is(err, config.ErrInvalidValue) {
		t.Fatalf("bad log level err = %v", err)
	}
	err := run([]string{"-relay", "ws://127.0.0.1:1", "-room", "r1"}, strings.NewReader(""), &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "connect to relay") {
		t.Fatalf("unreachable relay err = %v", err)
	}
}
