package engine

import "log"

// Reporter receives human-readable failure messages produced while a
// simulation runs.
type Reporter interface {
	Report(message string)
}

// ReporterFunc adapts an ordinary function to the Reporter interface
type ReporterFunc func(message string)

// Report calls f(message)
func (f ReporterFunc) Report(message string) {
	f(message)
}

// Discard is a Reporter that drops every message
var Discard Reporter = ReporterFunc(func(string) {})

// LogReporter returns a Reporter that writes messages through the standard logger
func LogReporter() Reporter {
	return ReporterFunc(func(message string) {
		log.Print(message)
	})
}

// Collector is a Reporter that keeps every message in order
type Collector struct {
	Messages []string
}

// Report appends message
func (c *Collector) Report(message string) {
	c.Messages = append(c.Messages, message)
}

// multiReporter fans a message out to several sinks
type multiReporter []Reporter

func (m multiReporter) Report(message string) {
	for _, r := range m {
		r.Report(message)
	}
}

// MultiReporter returns a Reporter that duplicates messages to all the given
// reporters. Nil entries are skipped.
func MultiReporter(reporters ...Reporter) Reporter {
	all := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			all = append(all, r)
		}
	}
	return all
}
