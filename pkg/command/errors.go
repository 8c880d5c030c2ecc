package command

import (
	"errors"
	"fmt"
)

// UnknownCommandError reports a frame that decoded cleanly but
// carries an unrecognized command id. The command is ignored; it has
// no actuator effect.
type UnknownCommandError struct {
	ID byte
}

// Error implements error.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %d", e.ID)
}

// IsUnknown reports whether err is an UnknownCommandError.
func IsUnknown(err error) bool {
	var e *UnknownCommandError
	return errors.As(err, &e)
}
