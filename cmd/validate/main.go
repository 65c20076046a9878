// Command validate checks mission JSON files. For every file it verifies:
//   - JSON structure and required fields (name, at least one rover)
//   - Rover orientations are one of E, N, W, S
//   - Permissive cases worth a warning: negative plateau extents, rovers
//     landing outside the plateau, and command characters that will be skipped
//
// Valid missions are then deployed in a dry run and their final report is
// printed. The exit status is 1 when any file is invalid.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mars-rovers/rover/engine"
)

var errInvalidMissions = errors.New("some missions have errors")

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	// Report holds the dry-run output, one "x y D" line per rover
	Report   []string
	Rejected int
}

// validateMission loads, validates and dry-runs a single mission file.
func validateMission(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var mission engine.Mission
	if err := json.Unmarshal(data, &mission); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateMission(&mission); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Warnings = engine.MissionWarnings(&mission)

	rejected := &engine.Collector{}
	sim, err := mission.Deploy(rejected)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Dry run failed: %v", err))
		return result
	}

	result.Report = slices.Collect(sim.Report())
	result.Rejected = len(rejected.Messages)

	return result
}

// validateAll validates every path and writes a summary to out. It returns
// false when any mission is invalid.
func validateAll(paths []string, out io.Writer) bool {
	allValid := true
	for _, file := range paths {
		result := validateMission(file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if !result.Valid {
			fmt.Fprintln(out, "INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(out, "  error: "+err)
			}
			continue
		}

		fmt.Fprintln(out, "VALID")
		for _, warning := range result.Warnings {
			fmt.Fprintln(out, "  warning: "+warning)
		}
		if result.Rejected > 0 {
			fmt.Fprintf(out, "  dry run skipped %d invalid command(s)\n", result.Rejected)
		}
		fmt.Fprintln(out, "  final positions:")
		for _, line := range result.Report {
			fmt.Fprintln(out, "    "+line)
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "All missions are valid!")
	} else {
		fmt.Fprintln(out, "Some missions have errors")
	}

	return allValid
}

// missionFiles resolves the files to check: explicit arguments win over the
// directory scan.
func missionFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding mission files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no mission files found in %s", dir)
	}
	return files, nil
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate mission files and dry-run them",
		ArgsUsage: "[mission.json ...]",
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "missions",
				Usage:   "directory scanned when no files are given",
				Sources: cli.EnvVars("MISSIONS_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := missionFiles(cmd.String("dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}
			if !validateAll(files, out) {
				return errInvalidMissions
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
