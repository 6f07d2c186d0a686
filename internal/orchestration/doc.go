// Package orchestration runs one simulation end to end: it wires progress
// reporting around galton.Simulator.Run, wraps the run in a trace span, and
// turns the outcome into a report and an exit code. Presentation stays behind
// the ProgressReporter and ResultPresenter interfaces.
package orchestration
