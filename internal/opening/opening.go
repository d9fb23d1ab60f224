// Package opening names the opening reached by a move list. The table is
// keyed by the literal text of the numbered move list, for example
// "['1.e4', 'e5', '2.Nf3']".
package opening

import (
	"errors"
	"fmt"
	"strings"
)

const StartingPosition = "Starting Position"

var (
	ErrUnknownOpening = errors.New("unknown opening")
	ErrMissingColumn  = errors.New("missing column")
)

// Lookup resolves the opening name for a list of move notations.
type Lookup interface {
	Name(notations []string) (string, error)
}

// Numbered prefixes every white move with its move number:
// ["e4", "e5", "Nf3"] becomes ["1.e4", "e5", "2.Nf3"].
func Numbered(notations []string) []string {
	out := make([]string, len(notations))
	for i, n := range notations {
		if i%2 == 0 {
			out[i] = fmt.Sprintf("%d.%s", i/2+1, n)
		} else {
			out[i] = n
		}
	}
	return out
}

// Key renders the numbered list the way the openings table stores it.
func Key(notations []string) string {
	numbered := Numbered(notations)
	quoted := make([]string, len(numbered))
	for i, n := range numbered {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
