package core

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the calendar-date wire format used across the pipeline.
const DateLayout = "2006-01-02"

// TimeLayout is the 24-hour clock wire format used across the pipeline.
const TimeLayout = "15:04"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s matches the local@domain.tld address shape.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// MeetingDetails is the structured record produced by the extraction service.
// Field tags match the JSON contract the extractor is prompted to emit, so a
// raw service response decodes directly into this type.
type MeetingDetails struct {
	Title         string `json:"title"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM, 24-hour
	EndTime       string `json:"end_time"`   // HH:MM, 24-hour
	AttendeeEmail string `json:"attendee_email,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Validate type/shape-checks the record and enforces the scheduling
// invariants: required fields present, date not before today, end time
// strictly after start time. Cached extraction results pass through here
// with the same rigor as fresh ones, so a stale cache entry can never bypass
// a rule that changed after it was stored.
//
// The returned error is always a *ValidationError naming the offending field.
func (m *MeetingDetails) Validate(now time.Time) error {
	if m.Title == "" {
		return &ValidationError{Field: "title", Value: "", Reason: "Title is required"}
	}

	date, err := time.ParseInLocation(DateLayout, m.Date, now.Location())
	if err != nil {
		return &ValidationError{Field: "date", Value: m.Date, Reason: "Invalid date format. Use YYYY-MM-DD"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return &ValidationError{Field: "date", Value: m.Date, Reason: "Meeting date cannot be in the past"}
	}

	start, err := time.Parse(TimeLayout, m.StartTime)
	if err != nil {
		return &ValidationError{Field: "start_time", Value: m.StartTime, Reason: "Invalid time format. Use HH:MM (24-hour)"}
	}
	end, err := time.Parse(TimeLayout, m.EndTime)
	if err != nil {
		return &ValidationError{Field: "end_time", Value: m.EndTime, Reason: "Invalid time format. Use HH:MM (24-hour)"}
	}
	if !end.After(start) {
		return &ValidationError{Field: "end_time", Value: m.EndTime, Reason: "End time must be after start time"}
	}

	if m.AttendeeEmail != "" && !ValidEmail(m.AttendeeEmail) {
		return &ValidationError{Field: "attendee_email", Value: m.AttendeeEmail, Reason: "Invalid email format"}
	}

	return nil
}

// EventRequest is the fully-formed calendar-event request handed to the
// provider. Start and End are local date-times (no offset); Timezone names
// the fixed target zone the provider should attach.
type EventRequest struct {
	Title         string
	Description   string
	Start         string // YYYY-MM-DDTHH:MM:SS
	End           string // YYYY-MM-DDTHH:MM:SS
	Timezone      string
	AttendeeEmail string // optional
}

// NewEventRequest builds an EventRequest from validated meeting details.
func NewEventRequest(m *MeetingDetails, timezone string) EventRequest {
	return EventRequest{
		Title:         m.Title,
		Description:   m.Description,
		Start:         fmt.Sprintf("%sT%s:00", m.Date, m.StartTime),
		End:           fmt.Sprintf("%sT%s:00", m.Date, m.EndTime),
		Timezone:      timezone,
		AttendeeEmail: m.AttendeeEmail,
	}
}

// CalendarResult reports the outcome of a create-event provider call.
type CalendarResult struct {
	Success   bool   `json:"success"`
	EventID   string `json:"event_id,omitempty"`
	EventLink string `json:"event_link,omitempty"`
	Message   string `json:"message"`
}

// EmailResult reports the outcome of a send-email provider call.
type EmailResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Message   string `json:"message"`
}

// Outcome is the terminal result record returned to the caller of a
// pipeline run. Every run, including ones rejected at the sanitization
// gate, produces exactly one Outcome with a non-empty Message.
type Outcome struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EventLink string `json:"event_link,omitempty"`
	Error     string `json:"error,omitempty"`
}
