package session

import "errors"

var (
	ErrNotStarted       = errors.New("game not started")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrSpectator        = errors.New("spectators cannot move")
	ErrNotYourPromotion = errors.New("promotion belongs to the opponent")
)
