package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrIllegalStateTransition = errors.New("illegal state transition")

	ErrOutOfRange       = fmt.Errorf("%w: square out of range", ErrInvalidRequest)
	ErrNoPiece          = fmt.Errorf("%w: no piece at source square", ErrInvalidRequest)
	ErrWrongTurn        = fmt.Errorf("%w: not this side's turn", ErrInvalidRequest)
	ErrIllegalMove      = fmt.Errorf("%w: destination is not a legal move", ErrInvalidRequest)
	ErrInvalidPromotion = fmt.Errorf("%w: invalid promotion", ErrInvalidRequest)
	ErrUnknownNotation  = fmt.Errorf("%w: notation matches no legal move", ErrInvalidRequest)

	ErrPromotionPending   = fmt.Errorf("%w: promotion decision pending", ErrIllegalStateTransition)
	ErrNoPendingPromotion = fmt.Errorf("%w: no promotion pending", ErrIllegalStateTransition)
	ErrGameOver           = fmt.Errorf("%w: game is over", ErrIllegalStateTransition)

	ErrInvalidFEN = errors.New("invalid FEN")
)

// InvariantViolation is the panic value raised when the engine detects a
// state it can never legitimately reach.
type InvariantViolation struct {
	Reason string
}

func (v InvariantViolation) Error() string {
	return "engine invariant violated: " + v.Reason
}
