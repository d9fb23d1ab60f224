// Package protocol encodes and decodes the plain-text tokens exchanged
// between peers and the relay.
package protocol

import (
	"fmt"

	"github.com/benbeisheim/relaychess/internal/engine"
)

// Kind identifies the different tokens the relay carries.
type Kind uint8

const (
	KindMove Kind = iota + 1
	KindPromotion
	KindInit
	KindStart
	KindStop
	KindError
)

var kindNames = map[Kind]string{
	KindMove:      "move",
	KindPromotion: "promotion",
	KindInit:      "init",
	KindStart:     "start",
	KindStop:      "stop",
	KindError:     "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Side is the seat a relay assigns in the init handshake.
type Side int

const (
	Spectator Side = -1
	SideWhite Side = 0
	SideBlack Side = 1
)

// SideOf returns the seat that plays c.
func SideOf(c engine.Color) Side {
	if c == engine.White {
		return SideWhite
	}
	return SideBlack
}

// Color reports the color a seat plays. Spectators play none.
func (s Side) Color() (engine.Color, bool) {
	switch s {
	case SideWhite:
		return engine.White, true
	case SideBlack:
		return engine.Black, true
	}
	return engine.White, false
}

func (s Side) String() string {
	switch s {
	case SideWhite:
		return "white"
	case SideBlack:
		return "black"
	case Spectator:
		return "spectator"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Handshake is the payload of an init token.
type Handshake struct {
	Side Side
	// Reserved carries the room id; peers ignore it.
	Reserved string
	// Moves replays the game so far as move and promotion tokens.
	Moves []Token
}

// Token is one decoded relay message.
type Token struct {
	Kind      Kind
	Move      engine.MoveRequest
	Promotion engine.PieceKind
	Init      Handshake
	Reason    string
}

func (t Token) String() string {
	switch t.Kind {
	case KindMove:
		return FormatMove(t.Move)
	case KindPromotion:
		return FormatPromotion(t.Promotion)
	case KindInit:
		return FormatInit(t.Init)
	case KindStart:
		return Start
	case KindStop:
		return Stop
	case KindError:
		return FormatError(t.Reason)
	}
	return ""
}
