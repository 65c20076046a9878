// Package engine provides the core rover simulation for the Mars Rovers service.
//
// The engine package implements:
//   - Rover state (position and orientation) and single-command transitions
//   - Boundary-clamped movement on a rectangular plateau
//   - The Simulation container that owns the plateau bounds and the rovers
//   - Mission files describing a plateau and a list of rover deployments
//
// Core Types:
//
// Rover holds one rover's physical state. It interprets the commands "L"
// (spin left), "R" (spin right) and "M" (move forward). Simulation owns the
// Bounds and an insertion-ordered list of rovers; command batches are always
// routed to the most recently added rover.
//
// Usage:
//
//	sim := engine.NewSimulation(5, 5, engine.WithReporter(engine.LogReporter()))
//
//	rover, err := engine.NewRover(1, 2, "N")
//	if err != nil {
//		log.Fatal(err)
//	}
//	sim.AddRover(rover)
//
//	if _, err := sim.RunCommandsOnCurrent("LMLMLMLMM"); err != nil {
//		log.Fatal(err)
//	}
//
//	for line := range sim.Report() {
//		fmt.Println(line) // 1 3 N
//	}
//
// Errors:
//
// An unknown orientation fails rover construction with ErrInvalidOrientation.
// An unknown command character is reported to the simulation's Reporter and
// skipped; the rest of the batch still runs. Routing commands to an empty
// simulation fails with ErrNoRoverPresent.
//
// The engine does no I/O of its own and is not safe for concurrent use;
// callers that share a Simulation across goroutines must serialize access.
package engine
