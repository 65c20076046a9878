// Package console runs a rover simulation interactively over a pair of
// streams, usually standard input and output.
//
// The session asks for the plateau size, then loops: place a rover, send it
// one command batch, and ask whether to continue. Answering the continue
// prompt with spaces only, or closing the input, ends the loop and prints
// one "x y D" line per rover in the order they were added.
package console
