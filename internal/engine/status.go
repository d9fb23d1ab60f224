package engine

import "fmt"

type StatusKind uint8

const (
	InProgress StatusKind = iota
	Check
	AwaitingPromotion
	TimedOut
	Checkmate
	Stalemate
	FiftyMoveDraw
	ThreefoldRepetition
)

var statusNames = [...]string{
	InProgress:          "InProgress",
	Check:               "Check",
	AwaitingPromotion:   "AwaitingPromotion",
	TimedOut:            "TimedOut",
	Checkmate:           "Checkmate",
	Stalemate:           "Stalemate",
	FiftyMoveDraw:       "FiftyMoveDraw",
	ThreefoldRepetition: "ThreefoldRepetition",
}

func (k StatusKind) String() string {
	if int(k) < len(statusNames) {
		return statusNames[k]
	}
	return fmt.Sprintf("StatusKind(%d)", k)
}

// Status is the single active game state. Color is meaningful for Check
// (the side in check), AwaitingPromotion (the promoting side), TimedOut
// (the side whose time ran out) and Checkmate (the mated side).
type Status struct {
	Kind  StatusKind `json:"kind"`
	Color Color      `json:"color"`
}

func (s Status) Terminal() bool {
	return s.Kind >= TimedOut
}

// blocksMoves reports whether no side may move in this state.
func (s Status) blocksMoves() bool {
	return s.Terminal() || s.Kind == AwaitingPromotion
}

func (s Status) String() string {
	switch s.Kind {
	case Check, AwaitingPromotion, TimedOut, Checkmate:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Color)
	}
	return s.Kind.String()
}

// Result describes a finished game the way the end-of-game banner shows it.
// The winner is "White", "Black" or "Noone"; ok is false while the game is
// still running.
func (s Status) Result() (winner, reason string, ok bool) {
	switch s.Kind {
	case TimedOut:
		return s.Color.Opposite().String(), "Time Ran Out", true
	case Checkmate:
		return s.Color.Opposite().String(), "Checkmate", true
	case Stalemate:
		return "Noone", "Stalemate", true
	case ThreefoldRepetition:
		return "Noone", "Threefold Repetition", true
	case FiftyMoveDraw:
		return "Noone", "50-Move Rule", true
	}
	return "", "", false
}
