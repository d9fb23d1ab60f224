package config

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds the process logger. Console output is the default; JSON is
// for log collectors.
func (l Log) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: log level %q", ErrInvalidValue, l.Level)
	}
	if !l.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
