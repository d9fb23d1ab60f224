// Package config reads binary settings from flags, falling back to
// RELAYCHESS_* environment variables and then to built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "RELAYCHESS_"

var ErrInvalidValue = errors.New("invalid config value")

type Log struct {
	Level string
	JSON  bool
}

type Server struct {
	Addr    string
	Origins string
	// Openings is the CSV opening table; OpeningDB, when set, is a badger
	// directory the table is imported into and served from.
	Openings      string
	OpeningDB     string
	MatchInterval time.Duration
	// RoomIdle is how long a room may sit with nobody connected.
	RoomIdle time.Duration
	Log      Log
}

type Peer struct {
	RelayURL  string
	Room      string
	PlayerID  string
	Hotseat   bool
	Time      time.Duration
	Increment time.Duration
	Openings  string
	Log       Log
}

// env is the environment lookup; tests replace it.
var env = os.LookupEnv

func LoadServer(args []string) (Server, error) {
	var cfg Server
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	defaults := &loader{}
	fs.StringVar(&cfg.Addr, "addr", defaults.str("ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.Origins, "origins", defaults.str("ORIGINS", "http://localhost:5173"), "comma separated CORS origins")
	fs.StringVar(&cfg.Openings, "openings", defaults.str("OPENINGS", ""), "openings CSV file")
	fs.StringVar(&cfg.OpeningDB, "opening-db", defaults.str("OPENING_DB", ""), "badger directory for the opening table")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", defaults.duration("MATCH_INTERVAL", time.Second), "matchmaking tick")
	fs.DurationVar(&cfg.RoomIdle, "room-idle", defaults.duration("ROOM_IDLE", 10*time.Minute), "drop rooms empty for this long")
	defaults.logFlags(fs, &cfg.Log)
	if defaults.err != nil {
		return cfg, defaults.err
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadPeer(args []string) (Peer, error) {
	var cfg Peer
	fs := flag.NewFlagSet("peer", flag.ContinueOnError)
	defaults := &loader{}
	fs.StringVar(&cfg.RelayURL, "relay", defaults.str("RELAY_URL", "ws://localhost:3000"), "relay base URL")
	fs.StringVar(&cfg.Room, "room", defaults.str("ROOM", ""), "room to join; empty creates one")
	fs.StringVar(&cfg.PlayerID, "player", defaults.str("PLAYER_ID", ""), "player ID; empty generates one")
	fs.BoolVar(&cfg.Hotseat, "hotseat", defaults.boolean("HOTSEAT", false), "play both sides locally without a relay")
	fs.DurationVar(&cfg.Time, "time", defaults.duration("TIME", 5*time.Minute), "initial time per side")
	fs.DurationVar(&cfg.Increment, "increment", defaults.duration("INCREMENT", 2*time.Second), "increment per move")
	fs.StringVar(&cfg.Openings, "openings", defaults.str("OPENINGS", ""), "openings CSV file")
	defaults.logFlags(fs, &cfg.Log)
	if defaults.err != nil {
		return cfg, defaults.err
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.Time <= 0 {
		return cfg, fmt.Errorf("%w: time %v", ErrInvalidValue, cfg.Time)
	}
	return cfg, nil
}

// loader reads environment defaults and keeps the first parse error.
type loader struct {
	err error
}

func (l *loader) str(key, def string) string {
	if v, ok := env(envPrefix + key); ok {
		return v
	}
	return def
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v, ok := env(envPrefix + key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fail(key, v)
		return def
	}
	return d
}

func (l *loader) boolean(key string, def bool) bool {
	v, ok := env(envPrefix + key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fail(key, v)
		return def
	}
	return b
}

func (l *loader) fail(key, v string) {
	if l.err == nil {
		l.err = fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, envPrefix, key, v)
	}
}

func (l *loader) logFlags(fs *flag.FlagSet, cfg *Log) {
	fs.StringVar(&cfg.Level, "log-level", l.str("LOG_LEVEL", "info"), "zerolog level")
	fs.BoolVar(&cfg.JSON, "log-json", l.boolean("LOG_JSON", false), "log JSON instead of console output")
}
