package relay

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrAlreadyConnected = errors.New("player already connected to room")
	ErrNotConnected     = errors.New("player not connected to room")
	ErrAlreadyQueued    = errors.New("player already in queue")
	ErrNotSeated        = errors.New("spectators cannot send moves")
	ErrNotStarted       = errors.New("game not started")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrUnexpectedToken  = errors.New("unexpected token")
)
