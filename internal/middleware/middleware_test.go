package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func echoApp() *fiber.App {
	app := fiber.New()
	app.Use(EnsurePlayerID(zerolog.Nop()))
	app.Get("/who", func(c *fiber.Ctx) error {
		return c.SendString(PlayerID(c))
	})
	app.Get("/ws/:roomId", WebSocketUpgrade("roomId"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	app := echoApp()
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"header", "/who", "p-header", "p-header"},
		{"query", "/who?playerId=p-query", "", "p-query"},
		{"header wins", "/who?playerId=p-query", "p-header", "p-header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set(PlayerIDHeader, tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.want {
				t.Fatalf("player ID = %q, want %q", body, tt.want)
			}
		})
	}
}

func TestEnsurePlayerIDGenerates(t *testing.T) {
	resp, err := echoApp().Test(httptest.NewRequest("GET", "/who", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 36 {
		t.Fatalf("generated ID = %q", body)
	}
	if got := resp.Header.Get(PlayerIDHeader); got != string(body) {
		t.Fatalf("response header = %q, body %q", got, body)
	}
}

func TestWebSocketUpgradeRequiresUpgrade(t *testing.T) {
	resp, err := echoApp().Test(httptest.NewRequest("GET", "/ws/room-1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}
}
