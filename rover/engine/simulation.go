package engine

import "iter"

// Simulation owns the plateau bounds and the rovers deployed on it, in the
// order they were added. Command batches always go to the last rover added.
type Simulation struct {
	bounds   Bounds
	rovers   []*Rover
	reporter Reporter
}

// Option configures a Simulation
type Option func(*Simulation)

// WithReporter sets the sink that receives rejected-command messages
func WithReporter(r Reporter) Option {
	return func(s *Simulation) {
		if r != nil {
			s.reporter = r
		}
	}
}

// NewSimulation creates an empty simulation on the plateau [0,maxX]x[0,maxY].
// The extents are taken as given; negative values produce a degenerate
// plateau rather than an error.
func NewSimulation(maxX, maxY int, opts ...Option) *Simulation {
	s := &Simulation{
		bounds:   Bounds{MaxX: maxX, MaxY: maxY},
		reporter: Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the plateau extent
func (s *Simulation) Bounds() Bounds {
	return s.bounds
}

// AddRover appends a rover; it becomes the current rover
func (s *Simulation) AddRover(r *Rover) {
	if r == nil {
		return
	}
	s.rovers = append(s.rovers, r)
}

// Len returns the number of rovers
func (s *Simulation) Len() int {
	return len(s.rovers)
}

// Empty reports whether no rover has been added yet
func (s *Simulation) Empty() bool {
	return len(s.rovers) == 0
}

// Current returns the most recently added rover
func (s *Simulation) Current() (*Rover, bool) {
	if len(s.rovers) == 0 {
		return nil, false
	}
	return s.rovers[len(s.rovers)-1], true
}

// RunCommandsOnCurrent executes commands on the most recently added rover.
// Rejected characters are reported and returned; they never fail the call.
func (s *Simulation) RunCommandsOnCurrent(commands string) ([]*CommandError, error) {
	current, ok := s.Current()
	if !ok {
		return nil, ErrNoRoverPresent
	}
	return current.ExecuteCommands(commands, s.bounds, s.reporter), nil
}

// Report yields the rendered form of every rover in insertion order. The
// sequence is computed lazily and may be ranged over any number of times.
func (s *Simulation) Report() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, r := range s.rovers {
			if !yield(r.String()) {
				return
			}
		}
	}
}

// States returns a snapshot of every rover in insertion order
func (s *Simulation) States() []RoverState {
	states := make([]RoverState, 0, len(s.rovers))
	for i, r := range s.rovers {
		states = append(states, r.State(i))
	}
	return states
}
