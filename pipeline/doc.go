// Package pipeline contains the orchestration engine that turns a sanitized
// meeting request into a confirmed calendar event and a notification email.
//
// The engine is a fixed linear state machine:
//
//	Parse → Validate → CreateEvent → Notify → Done
//
// Each stage receives the run's core.State, mutates it, and hands it
// forward. A failure at any stage short-circuits the stages after it, with
// one exception: Notify always runs, sending either a confirmation or a
// failure notice to the requester. There is no branching back; Done is the
// only terminal state and every run ends with a well-formed core.Outcome.
//
// Parse consults the extraction cache before calling the extraction
// service. CreateEvent and Notify reach the external provider through the
// retry wrapper, so transient remote failures are absorbed before they are
// classified and surfaced.
package pipeline
