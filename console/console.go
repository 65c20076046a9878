package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wricardo/mars-rovers/rover/engine"
)

const (
	PlateauPrompt  = "Enter plateau dimensions: "
	RoverPrompt    = "Enter initial rover position and orientation: "
	CommandsPrompt = "Enter commands for this rover: "
	ContinuePrompt = "Press the space bar to exit and any other key to add another rover: "

	PlateauFormatMessage = `Input Format Error: Expected input format "x y" where x and y are both integers.`
	RoverFormatMessage   = `Input Format Error: Expected input format "x y D" where x and y are both integers and D is "E", "N", "W", or "S".`
)

// Console drives a simulation from a line-oriented input stream
type Console struct {
	lines    *bufio.Scanner
	out      io.Writer
	reporter engine.Reporter
}

// Option configures a Console
type Option func(*Console)

// WithReporter sends every rejected-command message to r in addition to the
// console output.
func WithReporter(r engine.Reporter) Option {
	return func(c *Console) {
		c.reporter = r
	}
}

// New creates a console reading lines from in and writing prompts, errors
// and the final report to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		lines: bufio.NewScanner(in),
		out:   out,
	}
	// Command batches have no length limit
	c.lines.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SplitInput splits a line on whitespace, dropping empty entries
func SplitInput(line string) []string {
	return strings.Fields(line)
}

// Run prompts for a plateau, then repeatedly adds a rover and runs one
// command batch on it until the user asks to stop. The final report is
// written to out and the simulation is returned. End of input at any prompt
// stops the loop early; the simulation is nil if no plateau was read.
func (c *Console) Run(ctx context.Context) (*engine.Simulation, error) {
	sim, err := c.readSimulation(ctx)
	if sim == nil || err != nil {
		return sim, err
	}

	for {
		ok, err := c.readRover(ctx, sim)
		if err != nil {
			return sim, err
		}
		if !ok {
			break
		}

		ok, err = c.readCommands(ctx, sim)
		if err != nil {
			return sim, err
		}
		if !ok {
			break
		}

		line, ok, err := c.prompt(ctx, ContinuePrompt)
		if err != nil {
			return sim, err
		}
		if !ok || isExit(line) {
			break
		}
	}

	for line := range sim.Report() {
		fmt.Fprintln(c.out, line)
	}

	return sim, nil
}

func (c *Console) readSimulation(ctx context.Context) (*engine.Simulation, error) {
	for {
		line, ok, err := c.prompt(ctx, PlateauPrompt)
		if !ok || err != nil {
			return nil, err
		}

		if dims := SplitInput(line); len(dims) == 2 {
			x, errX := strconv.Atoi(dims[0])
			y, errY := strconv.Atoi(dims[1])
			if errX == nil && errY == nil {
				return engine.NewSimulation(x, y, engine.WithReporter(c.sink())), nil
			}
		}

		fmt.Fprintln(c.out, PlateauFormatMessage)
	}
}

func (c *Console) readRover(ctx context.Context, sim *engine.Simulation) (bool, error) {
	for {
		line, ok, err := c.prompt(ctx, RoverPrompt)
		if !ok || err != nil {
			return false, err
		}

		rover, err := parseRover(SplitInput(line))
		if err == nil {
			sim.AddRover(rover)
			return true, nil
		}

		if errors.Is(err, engine.ErrInvalidOrientation) {
			fmt.Fprintln(c.out, engine.OrientationMessage)
		}
		fmt.Fprintln(c.out, RoverFormatMessage)
	}
}

func parseRover(fields []string) (*engine.Rover, error) {
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, err
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, err
	}

	return engine.NewRover(x, y, fields[2])
}

func (c *Console) readCommands(ctx context.Context, sim *engine.Simulation) (bool, error) {
	line, ok, err := c.prompt(ctx, CommandsPrompt)
	if !ok || err != nil {
		return false, err
	}

	if _, err := sim.RunCommandsOnCurrent(line); err != nil {
		return false, err
	}
	return true, nil
}

// prompt writes text and reads the next line. ok is false at end of input.
func (c *Console) prompt(ctx context.Context, text string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	fmt.Fprint(c.out, text)

	if !c.lines.Scan() {
		fmt.Fprintln(c.out)
		return "", false, c.lines.Err()
	}

	return strings.TrimSuffix(c.lines.Text(), "\r"), true, nil
}

func (c *Console) sink() engine.Reporter {
	printer := engine.ReporterFunc(func(message string) {
		fmt.Fprintln(c.out, message)
	})
	return engine.MultiReporter(printer, c.reporter)
}

// isExit reports whether the answer to the continue prompt was the space bar
func isExit(line string) bool {
	return line != "" && strings.Trim(line, " ") == ""
}
