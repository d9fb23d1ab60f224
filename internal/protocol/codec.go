package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benbeisheim/relaychess/internal/engine"
)

const (
	Start = "start"
	Stop  = "stop"

	promotionPrefix = "promotion:"
	initPrefix      = "init:"
	errorPrefix     = "error:"
)

// Parse decodes a single token. Surrounding whitespace is ignored.
func Parse(raw string) (Token, error) {
	s := strings.TrimSpace(raw)
	switch {
	case s == Start:
		return Token{Kind: KindStart}, nil
	case s == Stop:
		return Token{Kind: KindStop}, nil
	case strings.HasPrefix(s, promotionPrefix):
		kind, err := parsePromotion(strings.TrimPrefix(s, promotionPrefix))
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindPromotion, Promotion: kind}, nil
	case strings.HasPrefix(s, initPrefix):
		h, err := parseInit(strings.TrimPrefix(s, initPrefix))
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindInit, Init: h}, nil
	case strings.HasPrefix(s, errorPrefix):
		return Token{Kind: KindError, Reason: strings.TrimPrefix(s, errorPrefix)}, nil
	}
	req, err := parseMove(s)
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: KindMove, Move: req}, nil
}

func parseMove(s string) (engine.MoveRequest, error) {
	if len(s) != 4 {
		return engine.MoveRequest{}, fmt.Errorf("%w: unknown token %q", ErrProtocol, s)
	}
	var digits [4]int
	for i := range digits {
		d := int(s[i]) - '0'
		if d < 0 || d > 7 {
			return engine.MoveRequest{}, fmt.Errorf("%w: bad move token %q", ErrProtocol, s)
		}
		digits[i] = d
	}
	return engine.MoveRequest{
		From: engine.Square{File: digits[0], Rank: digits[1]},
		To:   engine.Square{File: digits[2], Rank: digits[3]},
	}, nil
}

func parsePromotion(name string) (engine.PieceKind, error) {
	kind, err := engine.ParsePieceKind(name)
	if err != nil || !kind.Promotable() || name != kind.String() {
		return engine.NoKind, fmt.Errorf("%w: bad promotion %q", ErrProtocol, name)
	}
	return kind, nil
}

// parseInit reads "<side>:<reserved>:<[tok,tok]>". The move list may itself
// contain colons, so only the first two separate fields.
func parseInit(body string) (Handshake, error) {
	parts := strings.SplitN(body, ":", 3)
	if len(parts) != 3 {
		return Handshake{}, fmt.Errorf("%w: init needs 3 fields, got %d", ErrProtocol, len(parts))
	}
	side, err := strconv.Atoi(parts[0])
	if err != nil || side < -1 || side > 1 {
		return Handshake{}, fmt.Errorf("%w: bad side %q", ErrProtocol, parts[0])
	}
	list := strings.TrimSpace(parts[2])
	if !strings.HasPrefix(list, "[") || !strings.HasSuffix(list, "]") {
		return Handshake{}, fmt.Errorf("%w: move list %q is not bracketed", ErrProtocol, list)
	}
	h := Handshake{Side: Side(side), Reserved: parts[1]}
	inner := strings.TrimSpace(list[1 : len(list)-1])
	if inner == "" {
		return h, nil
	}
	for _, item := range strings.Split(inner, ",") {
		item = strings.Trim(strings.TrimSpace(item), `'"`)
		tok, err := Parse(item)
		if err != nil {
			return Handshake{}, err
		}
		if tok.Kind != KindMove && tok.Kind != KindPromotion {
			return Handshake{}, fmt.Errorf("%w: %s token in move list", ErrProtocol, tok.Kind)
		}
		h.Moves = append(h.Moves, tok)
	}
	return h, nil
}

// FormatMove renders a move request as four digits: from file, from rank,
// to file, to rank.
func FormatMove(req engine.MoveRequest) string {
	return fmt.Sprintf("%d%d%d%d", req.From.File, req.From.Rank, req.To.File, req.To.Rank)
}

func FormatPromotion(kind engine.PieceKind) string {
	return promotionPrefix + kind.String()
}

func FormatInit(h Handshake) string {
	items := make([]string, len(h.Moves))
	for i, tok := range h.Moves {
		items[i] = tok.String()
	}
	return fmt.Sprintf("%s%d:%s:[%s]", initPrefix, int(h.Side), h.Reserved, strings.Join(items, ","))
}

func FormatError(reason string) string {
	return errorPrefix + reason
}

// MoveTokens renders a completed move as the tokens a peer sends: the move,
// followed by the promotion decision when there was one.
func MoveTokens(rec engine.MoveRecord) []Token {
	toks := []Token{{Kind: KindMove, Move: engine.MoveRequest{From: rec.From, To: rec.To}}}
	if rec.Promotion != engine.NoKind {
		toks = append(toks, Token{Kind: KindPromotion, Promotion: rec.Promotion})
	}
	return toks
}
