// Package engine implements the chess rules: move generation, legality,
// special moves, game status and algebraic notation. It is synchronous and
// performs no I/O; callers serialize every request through one Game.
package engine

import (
	"fmt"

	"golang.org/x/exp/slices"
)

const fiftyMoveLimit = 100

type MoveRequest struct {
	From Square `json:"from"`
	To   Square `json:"to"`
	// Promotion pre-decides the piece a pawn becomes on the last rank. Leave
	// it NoKind to suspend the move until Promote is called.
	Promotion PieceKind `json:"promotion,omitempty"`
}

// Outcome reports what a request did. Record is nil while a promotion
// decision is pending.
type Outcome struct {
	Record  *MoveRecord `json:"record"`
	Pending bool        `json:"pending"`
	Status  Status      `json:"status"`
}

type pendingPromotion struct {
	square     Square
	record     MoveRecord
	resetClock bool
}

type Game struct {
	board         *Board
	turn          Color
	status        Status
	analysis      *analysis
	legal         map[Square][]Square
	legalCount    int
	halfmoveClock int
	fullmove      int
	history       []MoveRecord
	positions     map[uint64]int
	captured      [2][]PieceKind
	pending       *pendingPromotion
}

// NewGame starts a game from the standard initial position.
func NewGame() *Game {
	return newGame(StandardBoard(), White, 0, 1)
}

// NewGameFromFEN starts a game from an arbitrary position.
func NewGameFromFEN(fen string) (*Game, error) {
	pos, err := parseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(pos.board, pos.turn, pos.halfmove, pos.fullmove), nil
}

func newGame(b *Board, turn Color, halfmove, fullmove int) *Game {
	g := &Game{
		board:         b,
		turn:          turn,
		halfmoveClock: halfmove,
		fullmove:      fullmove,
		positions:     make(map[uint64]int),
	}
	g.refresh()
	g.positions[g.positionKey()]++
	g.status = g.evaluate()
	return g
}

// Move validates req against the legal move set and plays it.
func (g *Game) Move(req MoveRequest) (Outcome, error) {
	if g.status.blocksMoves() {
		return Outcome{}, g.blockedErr()
	}
	if !req.From.Valid() || !req.To.Valid() {
		return Outcome{}, fmt.Errorf("%w: %v -> %v", ErrOutOfRange, req.From, req.To)
	}
	p := g.board.PieceAt(req.From)
	if p == nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNoPiece, req.From)
	}
	if p.Color != g.turn {
		return Outcome{}, fmt.Errorf("%w: %s to move", ErrWrongTurn, g.turn)
	}
	if !slices.Contains(g.legal[req.From], req.To) {
		return Outcome{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, req.From, req.To)
	}
	promoting := p.Kind == Pawn && req.To.Rank == p.Color.promotionRank()
	if req.Promotion != NoKind && (!promoting || !req.Promotion.Promotable()) {
		return Outcome{}, fmt.Errorf("%w: %s on %s%s", ErrInvalidPromotion, req.Promotion, req.From, req.To)
	}

	body, capture := g.describe(p, req.To)
	rec := MoveRecord{
		Notation:  body,
		Color:     p.Color,
		Kind:      p.Kind,
		From:      req.From,
		To:        req.To,
		IsCapture: capture,
	}
	if captured := execute(g.board, p, req.To); captured != nil {
		rec.Captured = captured.Kind
		g.captured[p.Color] = append(g.captured[p.Color], captured.Kind)
	}
	resetClock := p.Kind == Pawn || capture

	if needsPromotion(p) && req.Promotion == NoKind {
		g.pending = &pendingPromotion{square: req.To, record: rec, resetClock: resetClock}
		g.status = Status{Kind: AwaitingPromotion, Color: p.Color}
		return Outcome{Pending: true, Status: g.status}, nil
	}
	if req.Promotion != NoKind {
		promote(g.board, req.To, req.Promotion)
		rec.Promotion = req.Promotion
	}
	return g.complete(rec, resetClock), nil
}

// Promote resolves a pending promotion with kind and finishes the move.
func (g *Game) Promote(kind PieceKind) (Outcome, error) {
	if g.pending == nil {
		return Outcome{}, ErrNoPendingPromotion
	}
	if !kind.Promotable() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrInvalidPromotion, kind)
	}
	pending := g.pending
	g.pending = nil
	promote(g.board, pending.square, kind)
	pending.record.Promotion = kind
	return g.complete(pending.record, pending.resetClock), nil
}

// PendingPromotion returns the square of a pawn awaiting its promotion
// decision.
func (g *Game) PendingPromotion() (Square, bool) {
	if g.pending == nil {
		return Square{}, false
	}
	return g.pending.square, true
}

// complete hands the turn over, rebuilds derived state and appends the
// finished move to the history.
func (g *Game) complete(rec MoveRecord, resetClock bool) Outcome {
	rec.Notation += promotionSuffix(rec.Promotion)
	if g.turn == Black {
		g.fullmove++
	}
	g.turn = g.turn.Opposite()
	if resetClock {
		g.halfmoveClock = 0
	} else {
		g.halfmoveClock++
	}

	g.refresh()
	g.positions[g.positionKey()]++
	g.status = g.evaluate()

	rec.IsCheck = g.analysis.inCheck()
	rec.IsCheckmate = g.status.Kind == Checkmate
	rec.Notation += checkSuffix(&rec)
	g.history = append(g.history, rec)
	return Outcome{Record: &rec, Status: g.status}
}

// evaluate derives the status of a freshly refreshed position.
func (g *Game) evaluate() Status {
	inCheck := g.analysis.inCheck()
	switch {
	case g.legalCount == 0 && inCheck:
		return Status{Kind: Checkmate, Color: g.turn}
	case g.legalCount == 0:
		return Status{Kind: Stalemate}
	case g.halfmoveClock >= fiftyMoveLimit:
		return Status{Kind: FiftyMoveDraw}
	case g.positions[g.positionKey()] >= 3:
		return Status{Kind: ThreefoldRepetition}
	case inCheck:
		return Status{Kind: Check, Color: g.turn}
	}
	return Status{Kind: InProgress}
}

// EndGame records that loser's clock ran out. It is the entry point for the
// external clock.
func (g *Game) EndGame(loser Color) error {
	if g.status.Terminal() {
		return ErrGameOver
	}
	g.pending = nil
	g.status = Status{Kind: TimedOut, Color: loser}
	return nil
}

func (g *Game) blockedErr() error {
	if g.status.Kind == AwaitingPromotion {
		return ErrPromotionPending
	}
	return fmt.Errorf("%w: %s", ErrGameOver, g.status)
}

// LegalMoves returns the legal destinations of the piece on from. Pieces of
// the side not to move, and every piece once the game is blocked or over,
// have none.
func (g *Game) LegalMoves(from Square) []Square {
	if g.status.blocksMoves() {
		return nil
	}
	return slices.Clone(g.legal[from])
}

// AllLegalMoves lists every legal move of the side to move in board order.
// Promotions appear once per promotion kind.
func (g *Game) AllLegalMoves() []MoveRequest {
	if g.status.blocksMoves() {
		return nil
	}
	var moves []MoveRequest
	for _, p := range g.board.Pieces(g.turn) {
		for _, to := range g.legal[p.Square] {
			if p.Kind == Pawn && to.Rank == p.Color.promotionRank() {
				for _, kind := range []PieceKind{Queen, Rook, Bishop, Knight} {
					moves = append(moves, MoveRequest{From: p.Square, To: to, Promotion: kind})
				}
				continue
			}
			moves = append(moves, MoveRequest{From: p.Square, To: to})
		}
	}
	return moves
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Turn() Color {
	return g.turn
}

func (g *Game) HalfmoveClock() int {
	return g.halfmoveClock
}

func (g *Game) FullmoveNumber() int {
	return g.fullmove
}

func (g *Game) InCheck() bool {
	return g.analysis.inCheck()
}

// PieceAt returns a copy of the piece on sq.
func (g *Game) PieceAt(sq Square) (Piece, bool) {
	p := g.board.PieceAt(sq)
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

// Pieces returns copies of c's pieces in board order.
func (g *Game) Pieces(c Color) []Piece {
	var pieces []Piece
	for _, p := range g.board.Pieces(c) {
		pieces = append(pieces, *p)
	}
	return pieces
}

func (g *Game) ThreatMap() ThreatMap {
	return g.analysis.threats
}

func (g *Game) PinMap() PinMap {
	return g.analysis.pins
}

func (g *Game) History() []MoveRecord {
	return slices.Clone(g.history)
}

// Notations returns the notation of every completed move in order.
func (g *Game) Notations() []string {
	out := make([]string, len(g.history))
	for i, rec := range g.history {
		out[i] = rec.Notation
	}
	return out
}

// Captured lists the kinds of pieces taken by c.
func (g *Game) Captured(by Color) []PieceKind {
	return slices.Clone(g.captured[by])
}

// Clone returns an independent copy of the game. Derived analysis is shared
// since refresh replaces it rather than mutating it.
func (g *Game) Clone() *Game {
	c := *g
	c.board = g.board.clone()
	c.history = slices.Clone(g.history)
	c.positions = make(map[uint64]int, len(g.positions))
	for k, v := range g.positions {
		c.positions[k] = v
	}
	for i := range g.captured {
		c.captured[i] = slices.Clone(g.captured[i])
	}
	if g.pending != nil {
		pending := *g.pending
		c.pending = &pending
	}
	return &c
}

func (g *Game) String() string {
	return g.board.String()
}
