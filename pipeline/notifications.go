package pipeline

import (
	"fmt"
	"strings"

	"github.com/hupe1980/calmesh/core"
)

const failureSubject = "❌ Meeting Scheduling Failed"

func successSubject(m *core.MeetingDetails) string {
	return fmt.Sprintf("✅ Meeting Scheduled: %s", m.Title)
}

func failureBody(err error) string {
	return fmt.Sprintf(`Failed to schedule your meeting.

Error: %s

Please try again or contact support.`, err.Error())
}

func successBody(m *core.MeetingDetails, cal core.CalendarResult, timezone string) string {
	var b strings.Builder
	b.WriteString("✅ Your meeting has been scheduled!\n\n")
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	fmt.Fprintf(&b, "Date: %s\n", m.Date)
	fmt.Fprintf(&b, "Time: %s - %s (%s)\n", m.StartTime, m.EndTime, timezone)
	if m.AttendeeEmail != "" {
		fmt.Fprintf(&b, "Attendee: %s\n", m.AttendeeEmail)
	}
	fmt.Fprintf(&b, "\nView in calendar: %s\n", cal.EventLink)
	b.WriteString("\nBest regards,\nCalMesh Scheduler")
	return b.String()
}
