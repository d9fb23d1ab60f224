package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func withEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	prev := env
	env = func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
	t.Cleanup(func() { env = prev })
}

func TestServerDefaults(t *testing.T) {
	withEnv(t, nil)
	cfg, err := LoadServer(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":3000" || cfg.Origins != "http://localhost:5173" || cfg.MatchInterval != time.Second || cfg.RoomIdle != 10*time.Minute {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.Log.JSON {
		t.Fatalf("log defaults = %+v", cfg.Log)
	}
}

func TestEnvAndFlagPrecedence(t *testing.T) {
	withEnv(t, map[string]string{
		"RELAYCHESS_ADDR":      ":8080",
		"RELAYCHESS_OPENINGS":  "openings.csv",
		"RELAYCHESS_LOG_JSON":  "true",
		"RELAYCHESS_LOG_LEVEL": "debug",
	})
	cfg, err := LoadServer([]string{"-addr", ":9090"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("flag did not override env: %q", cfg.Addr)
	}
	if cfg.Openings != "openings.csv" || !cfg.Log.JSON || cfg.Log.Level != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestPeerConfig(t *testing.T) {
	withEnv(t, map[string]string{"RELAYCHESS_INCREMENT": "5s"})
	cfg, err := LoadPeer([]string{"-time", "3m", "-room", "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Time != 3*time.Minute || cfg.Increment != 5*time.Second || cfg.Room != "abc" {
		t.Fatalf("peer config = %+v", cfg)
	}
	if cfg.RelayURL != "ws://localhost:3000" || cfg.Hotseat {
		t.Fatalf("peer defaults = %+v", cfg)
	}
}

func TestInvalidValues(t *testing.T) {
	withEnv(t, map[string]string{"RELAYCHESS_TIME": "forever"})
	if _, err := LoadPeer(nil); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("bad env err = %v", err)
	}

	withEnv(t, nil)
	if _, err := LoadPeer([]string{"-time", "0s"}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("zero time err = %v", err)
	}
	if _, err := (Log{Level: "loud"}).Logger(&bytes.Buffer{}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("bad level err = %v", err)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := Log{Level: "warn", JSON: true}.Logger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("room", "r1").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"room":"r1"`) {
		t.Fatalf("log output = %q", out)
	}
}
