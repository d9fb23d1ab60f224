package protocol

import "errors"

// ErrProtocol marks an unparseable token. Receivers log and discard it.
var ErrProtocol = errors.New("protocol error")
