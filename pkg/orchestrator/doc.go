// Package orchestrator wires the normalize → adapt → render → compose →
// persist pipeline behind Generate, GenerateBatch and Replay. Every failure is
// an *Error carrying the stage it happened in and a Class callers can switch
// on.
package orchestrator
