// Package core defines the shared vocabulary of the CalMesh scheduling
// pipeline: the per-request State that flows through the stages, the
// MeetingDetails record produced by extraction, the result and outcome
// types returned to callers, the failure taxonomy, and the interfaces the
// pipeline depends on abstractly (Extractor, CalendarService, MailService,
// ExtractionCache).
//
// Keeping these in one leaf package lets every other package depend on the
// contracts without importing concrete implementations, mirroring how the
// pipeline treats the extraction service and the calendar/mail provider as
// opaque collaborators.
package core
