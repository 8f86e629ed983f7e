package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/calmesh/core"
	"github.com/hupe1980/calmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

const payload = `{
	"title": "Roadmap discussion",
	"date": "2025-06-11",
	"start_time": "14:00",
	"end_time": "15:00",
	"attendee_email": null,
	"description": "Discuss roadmap"
}`

func TestExtract_Success(t *testing.T) {
	m := model.NewMockModel("mock-model", "mock")
	m.AddResponse(Prompt("Schedule a meeting tomorrow at 2pm to discuss roadmap", now), payload)

	e := New(m)
	details, err := e.Extract(context.Background(), "Schedule a meeting tomorrow at 2pm to discuss roadmap", now)

	require.NoError(t, err)
	assert.Equal(t, "Roadmap discussion", details.Title)
	assert.Equal(t, "2025-06-11", details.Date)
	assert.Equal(t, "14:00", details.StartTime)
	assert.Equal(t, "15:00", details.EndTime)
	assert.Empty(t, details.AttendeeEmail)
	assert.Equal(t, "Discuss roadmap", details.Description)
}

func TestExtract_ModelFailureBecomesParseError(t *testing.T) {
	m := model.NewMockModel("mock-model", "mock")
	m.FailWith(errors.New("upstream 500"))

	e := New(m)
	_, err := e.Extract(context.Background(), "book a call", now)

	var pe *core.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "book a call", pe.Input)
	assert.Empty(t, pe.Response, "no response excerpt when the call itself failed")
}

func TestExtract_MalformedReplyBecomesParseError(t *testing.T) {
	m := model.NewMockModel("mock-model", "mock")
	m.AddResponse(Prompt("book a call", now), "Sure! I'd be happy to help with that.")

	e := New(m)
	_, err := e.Extract(context.Background(), "book a call", now)

	var pe *core.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Response, "happy to help")
}

func TestPrompt_GroundsOnReferenceTime(t *testing.T) {
	p := Prompt("lunch tomorrow", now)
	assert.Contains(t, p, "Today's date is: 2025-06-10")
	assert.Contains(t, p, "Current time is: 09:30")
	assert.Contains(t, p, `"lunch tomorrow"`)
}

func TestDecode_PlainJSON(t *testing.T) {
	details, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap discussion", details.Title)
}

func TestDecode_FencedJSON(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + payload + "\n```",
		"```\n" + payload + "\n```",
		"  ```json\n" + payload + "\n```  ",
	} {
		details, err := Decode(raw)
		require.NoError(t, err, "raw: %q", raw)
		assert.Equal(t, "Roadmap discussion", details.Title)
	}
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "I could not find a meeting in that text."},
		{"array", `[1, 2, 3]`},
		{"truncated", `{"title": "Meeting", "date": "2025-`},
		{"missing date", `{"title": "Meeting", "start_time": "14:00", "end_time": "15:00"}`},
		{"null start", `{"title": "Meeting", "date": "2025-06-11", "start_time": null, "end_time": "15:00"}`},
		{"empty title", `{"title": "", "date": "2025-06-11", "start_time": "14:00", "end_time": "15:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.Error(t, err)
		})
	}
}
