package engine

import (
	"errors"
	"fmt"
)

// Rover is a single robotic rover: a position and the direction it faces.
// A rover never stores the plateau bounds; they are passed to every
// movement-affecting call.
type Rover struct {
	pos         Position
	orientation Orientation
}

// NewRover creates a rover at (x, y) facing the orientation named by token.
// The placement is not checked against any plateau.
func NewRover(x, y int, token string) (*Rover, error) {
	orientation, err := ParseOrientation(token)
	if err != nil {
		return nil, err
	}

	return &Rover{
		pos:         Position{X: x, Y: y},
		orientation: orientation,
	}, nil
}

// Position returns the current coordinates
func (r *Rover) Position() Position {
	return r.pos
}

// Orientation returns the direction the rover faces
func (r *Rover) Orientation() Orientation {
	return r.orientation
}

// State returns a snapshot of the rover tagged with its slot in a simulation
func (r *Rover) State(index int) RoverState {
	return RoverState{
		Index:       index,
		X:           r.pos.X,
		Y:           r.pos.Y,
		Orientation: r.orientation.Code(),
	}
}

// ApplyCommand executes a single command character against the rover.
// Unknown characters return a *CommandError and leave the rover untouched.
func (r *Rover) ApplyCommand(command rune, bounds Bounds) error {
	switch command {
	case SpinLeft:
		r.orientation = r.orientation.Left()
	case SpinRight:
		r.orientation = r.orientation.Right()
	case MoveForward:
		r.move(bounds)
	default:
		return &CommandError{Command: command}
	}
	return nil
}

// ExecuteCommands applies every character of commands in order. A rejected
// character is reported to sink and skipped; the remaining characters still
// run. The rejected characters are returned in batch order.
func (r *Rover) ExecuteCommands(commands string, bounds Bounds, sink Reporter) []*CommandError {
	if sink == nil {
		sink = Discard
	}

	var rejected []*CommandError
	index := 0
	for _, command := range commands {
		if err := r.ApplyCommand(command, bounds); err != nil {
			sink.Report(CommandMessage)
			var cmdErr *CommandError
			if !errors.As(err, &cmdErr) {
				cmdErr = &CommandError{Command: command}
			}
			cmdErr.Index = index
			rejected = append(rejected, cmdErr)
		}
		index++
	}

	return rejected
}

// move advances one unit along the current axis unless that would leave
// the plateau.
func (r *Rover) move(bounds Bounds) {
	switch r.orientation {
	case East:
		if r.pos.X < bounds.MaxX {
			r.pos.X++
		}
	case North:
		if r.pos.Y < bounds.MaxY {
			r.pos.Y++
		}
	case West:
		if r.pos.X > 0 {
			r.pos.X--
		}
	case South:
		if r.pos.Y > 0 {
			r.pos.Y--
		}
	}
}

// String renders the rover as "x y D"
func (r *Rover) String() string {
	return fmt.Sprintf("%d %d %s", r.pos.X, r.pos.Y, r.orientation.Code())
}
