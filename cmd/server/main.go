package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/config"
	"github.com/benbeisheim/relaychess/internal/controller"
	"github.com/benbeisheim/relaychess/internal/opening"
	"github.com/benbeisheim/relaychess/internal/relay"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Error().Err(err).Msg("relay server")
		os.Exit(1)
	}
}

// run serves until ctx is done, a signal arrives or the listener fails.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := config.LoadServer(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	log, err := cfg.Log.Logger(stderr)
	if err != nil {
		return err
	}

	hubOpts := []relay.Option{relay.WithIdleTimeout(cfg.RoomIdle)}
	lookup, closeLookup, err := loadOpenings(cfg, log)
	if err != nil {
		return fmt.Errorf("load openings: %w", err)
	}
	defer closeLookup()
	if lookup != nil {
		hubOpts = append(hubOpts, relay.WithOpenings(lookup))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := relay.NewHub(log, hubOpts...)
	go hub.Run(ctx, cfg.MatchInterval)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		ExposeHeaders:    "X-Player-ID",
		AllowCredentials: true,
	}))
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		log.Debug().Str("method", c.Method()).Str("path", c.Path()).Int("status", c.Response().StatusCode()).Msg("request")
		return err
	})
	controller.Mount(app, hub, splitOrigins(cfg.Origins), log)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("relay listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error().Err(err).Msg("listen")
		return err
	}
	return nil
}

// loadOpenings reads the CSV table and, when a database directory is set,
// imports it into badger and serves names from there.
func loadOpenings(cfg config.Server, log zerolog.Logger) (opening.Lookup, func(), error) {
	noop := func() {}
	if cfg.Openings == "" {
		return nil, noop, nil
	}
	table, err := opening.LoadFile(cfg.Openings)
	if err != nil {
		return nil, noop, err
	}
	log.Info().Int("openings", table.Len()).Str("file", cfg.Openings).Msg("opening table loaded")
	if cfg.OpeningDB == "" {
		return table, noop, nil
	}

	store, err := opening.OpenStore(cfg.OpeningDB)
	if err != nil {
		return nil, noop, err
	}
	n, err := store.Import(table)
	if err != nil {
		_ = store.Close()
		return nil, noop, err
	}
	log.Info().Int("imported", n).Str("dir", cfg.OpeningDB).Msg("opening store ready")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close opening store")
		}
	}, nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
