package engine

import "fmt"

// Orientation is the direction a rover faces. The values form a cycle in
// spin-left order: East, North, West, South.
type Orientation int

const (
	East Orientation = iota
	North
	West
	South

	orientationCount = 4
)

// Command characters understood by a rover
const (
	SpinLeft    = 'L'
	SpinRight   = 'R'
	MoveForward = 'M'
)

var orientationCodes = [orientationCount]string{"E", "N", "W", "S"}

// ParseOrientation converts a one-letter code (E, N, W, S) into an Orientation
func ParseOrientation(token string) (Orientation, error) {
	for i, code := range orientationCodes {
		if token == code {
			return Orientation(i), nil
		}
	}
	return East, fmt.Errorf("%w: %q", ErrInvalidOrientation, token)
}

// Code returns the one-letter code of the orientation
func (o Orientation) Code() string {
	if !o.Valid() {
		return "?"
	}
	return orientationCodes[o]
}

// String implements fmt.Stringer
func (o Orientation) String() string {
	switch o {
	case East:
		return "East"
	case North:
		return "North"
	case West:
		return "West"
	case South:
		return "South"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Valid reports whether o is one of the four orientations
func (o Orientation) Valid() bool {
	return o >= East && o <= South
}

// Left returns the orientation after a single left spin
func (o Orientation) Left() Orientation {
	return Orientation(mod(int(o)+1, orientationCount))
}

// Right returns the orientation after a single right spin
func (o Orientation) Right() Orientation {
	return Orientation(mod(int(o)-1, orientationCount))
}

// mod returns the non-negative remainder of a divided by n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Bounds is the inclusive plateau extent [0,MaxX]x[0,MaxY]
type Bounds struct {
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RoverState is a read-only snapshot of a rover within a simulation
type RoverState struct {
	Index       int    `json:"index"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

// String renders the snapshot the same way Rover.String does
func (s RoverState) String() string {
	return fmt.Sprintf("%d %d %s", s.X, s.Y, s.Orientation)
}
