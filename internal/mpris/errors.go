package mpris

import (
	"errors"
	"fmt"
)

// ErrPlayerNotFound is returned by control operations and GetPlayer when
// the named bus name is not in the live set.
var ErrPlayerNotFound = errors.New("mpris: player not found")

// OperationNotSupportedError is returned when a control operation is
// attempted against a player whose capability flags say it can't.
type OperationNotSupportedError struct {
	Op string
}

func (e *OperationNotSupportedError) Error() string {
	return fmt.Sprintf("mpris: operation not supported: %s", e.Op)
}

// InvalidSeekPositionError is returned when Seek is asked for a position
// beyond a track's known length.
type InvalidSeekPositionError struct {
	Position int64
	Length   int64
}

func (e *InvalidSeekPositionError) Error() string {
	return fmt.Sprintf("mpris: invalid seek position %d beyond track length %d", e.Position, e.Length)
}
