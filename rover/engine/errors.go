package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrNoRoverPresent     = errors.New("no rover present")
)

// Messages shown to operators when input is rejected
const (
	OrientationMessage = `Error: Orientation must be "E", "N", "W", or "S".`
	CommandMessage     = `Error: Valid commands are "L" (spin left), "R" (spin right), and "M" (move forward).`
)

// CommandError describes a single rejected command character in a batch.
type CommandError struct {
	Index   int
	Command rune
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%v %q at position %d", ErrInvalidCommand, e.Command, e.Index)
}

func (e *CommandError) Unwrap() error {
	return ErrInvalidCommand
}
