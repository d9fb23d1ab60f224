package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/relaychess/internal/config"
	"github.com/benbeisheim/relaychess/internal/engine"
	"github.com/benbeisheim/relaychess/internal/opening"
	"github.com/benbeisheim/relaychess/internal/relay"
	"github.com/benbeisheim/relaychess/internal/session"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Error().Err(err).Msg("peer")
		os.Exit(1)
	}
}

// run plays one game from in until the user quits or the relay goes away.
func run(args []string, in io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.LoadPeer(args)
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
	if cfg.PlayerID == "" {
		cfg.PlayerID = uuid.New().String()
	}

	out := &printer{w: stdout}
	sessCfg := session.Config{
		Time:      cfg.Time,
		Increment: cfg.Increment,
		Logger:    log,
		OnChange:  out.snapshot,
	}
	if cfg.Openings != "" {
		table, err := opening.LoadFile(cfg.Openings)
		if err != nil {
			return fmt.Errorf("load openings: %w", err)
		}
		sessCfg.Openings = table
	}

	if cfg.Hotseat {
		sess := session.New(sessCfg)
		defer sess.Close()
		out.snapshot(sess.Snapshot())
		play(sess, in, out, nil)
		return nil
	}

	conn, err := connect(cfg, log)
	if err != nil {
		return fmt.Errorf("connect to relay: %w", err)
	}
	defer conn.Close()
	sessCfg.Sender = &wsSender{conn: conn}
	sess := session.New(sessCfg)
	defer sess.Close()
	play(sess, in, out, readLoop(conn, sess, log))
	return nil
}

// connect finds a room through matchmaking when none is configured, then
// dials it.
func connect(cfg config.Peer, log zerolog.Logger) (*websocket.Conn, error) {
	base, err := url.Parse(cfg.RelayURL)
	if err != nil {
		return nil, fmt.Errorf("relay url: %w", err)
	}
	query := url.Values{"playerId": {cfg.PlayerID}}.Encode()

	roomID := cfg.Room
	if roomID == "" {
		mm := *base
		mm.Path = "/ws/matchmaking"
		mm.RawQuery = query
		conn, _, err := websocket.DefaultDialer.Dial(mm.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("dial matchmaking: %w", err)
		}
		log.Info().Str("player", cfg.PlayerID).Msg("waiting for an opponent")
		var m relay.Match
		err = conn.ReadJSON(&m)
		conn.Close()
		if err != nil {
			return nil, fmt.Errorf("read match: %w", err)
		}
		roomID = m.RoomID
	}

	room := *base
	room.Path = "/ws/room/" + roomID
	room.RawQuery = query
	conn, _, err := websocket.DefaultDialer.Dial(room.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial room %s: %w", roomID, err)
	}
	log.Info().Str("room", roomID).Str("player", cfg.PlayerID).Msg("connected")
	return conn, nil
}

type wsSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSender) Send(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, []byte(token))
}

func readLoop(conn *websocket.Conn, sess *session.Session, log zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Error().Err(err).Msg("relay connection lost")
				}
				return
			}
			// Receive logs and drops anything it rejects.
			_ = sess.Receive(string(msg))
		}
	}()
	return done
}

// play reads commands until stdin ends, the user quits or the relay goes away.
func play(sess *session.Session, in io.Reader, out *printer, done <-chan struct{}) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	out.line("commands: <move in algebraic notation> | promote <piece> | moves <square> | board | quit")
	for {
		select {
		case <-done:
			out.line("relay closed the connection")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := command(sess, strings.Fields(line), out); quit {
				return
			}
		}
	}
}

func command(sess *session.Session, args []string, out *printer) bool {
	if len(args) == 0 {
		return false
	}
	var err error
	switch args[0] {
	case "quit", "exit":
		return true
	case "board":
		out.snapshot(sess.Snapshot())
	case "moves":
		if len(args) != 2 {
			out.line("usage: moves <square>")
			return false
		}
		var sq engine.Square
		if sq, err = engine.ParseSquare(args[1]); err == nil {
			names := make([]string, 0)
			for _, to := range sess.LegalMoves(sq) {
				names = append(names, to.String())
			}
			out.line(fmt.Sprintf("%s: %s", sq, strings.Join(names, " ")))
		}
	case "promote":
		if len(args) != 2 {
			out.line("usage: promote <Queen|Rook|Bishop|Knight>")
			return false
		}
		var kind engine.PieceKind
		if kind, err = engine.ParsePieceKind(args[1]); err == nil {
			_, err = sess.Promote(kind)
		}
	default:
		var res engine.Outcome
		if res, err = sess.PlayNotation(args[0]); err == nil && res.Pending {
			out.line("choose a promotion: promote <Queen|Rook|Bishop|Knight>")
		}
	}
	if err != nil {
		out.line("error: " + err.Error())
	}
	return false
}
