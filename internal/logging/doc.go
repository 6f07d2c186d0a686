// Package logging is the structured logger the simulator reports its run
// lifecycle through. ZerologAdapter writes JSON or console output, and Nop
// discards everything for library callers that do not want logs.
package logging
