package server

import (
	"errors"

	"github.com/Gumball-code/ggpoker/internal/table"
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

var (
	errInvalidUsername = errors.New("invalid username")
	errUnknownCommand  = errors.New("unknown command")
	errBadPayload      = errors.New("bad payload")
)

// errorKind maps an error to the protocol tag carried by the ack.
func errorKind(err error) string {
	var terr *table.Error
	switch {
	case errors.As(err, &terr):
		return terr.Kind
	case errors.Is(err, errInvalidUsername):
		return "no-username"
	case errors.Is(err, errUnknownCommand), errors.Is(err, errBadPayload):
		return "unknown-action"
	default:
		return "unknown-action"
	}
}
