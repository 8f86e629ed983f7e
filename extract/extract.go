// Package extract turns free-text meeting requests into structured
// core.MeetingDetails by prompting a language model and decoding its JSON
// reply. The prompt grounds the model with the current date and time so
// relative phrases ("tomorrow at 2pm") resolve deterministically; the
// decoder tolerates the markdown fences models like to wrap JSON in.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/calmesh/core"
	"github.com/hupe1980/calmesh/logging"
	"github.com/hupe1980/calmesh/model"
	"github.com/tidwall/gjson"
)

// Options configures an Extractor.
type Options struct {
	// Logger receives LLM call telemetry; defaults to NoOpLogger.
	Logger logging.Logger
}

// Extractor is the core.Extractor backed by a model.Model.
type Extractor struct {
	model  model.Model
	logger *logging.PipelineLogger
}

var _ core.Extractor = (*Extractor)(nil)

// New creates an Extractor over the given model.
func New(m model.Model, optFns ...func(o *Options)) *Extractor {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Extractor{
		model:  m,
		logger: logging.NewPipelineLogger(opts.Logger),
	}
}

// Extract implements core.Extractor. Failures to call the model or to
// decode its reply surface as *core.ParseError; no partially populated
// record is ever returned.
func (e *Extractor) Extract(ctx context.Context, text string, now time.Time) (*core.MeetingDetails, error) {
	start := time.Now()
	resp, err := e.model.Complete(ctx, model.Request{Prompt: Prompt(text, now)})
	e.logger.LogLLMCall(e.model.Info().Name, time.Since(start), err)
	if err != nil {
		return nil, &core.ParseError{Input: text}
	}

	details, err := Decode(resp.Text)
	if err != nil {
		return nil, &core.ParseError{Input: text, Response: resp.Text}
	}
	return details, nil
}

// Prompt builds the extraction instruction for a request, grounded on now.
func Prompt(text string, now time.Time) string {
	return fmt.Sprintf(`Extract meeting details from this request: "%s"

Today's date is: %s
Current time is: %s

You MUST respond with ONLY valid JSON, nothing else. No explanation, no markdown.

Format:
{
    "title": "meeting title or 'Meeting' if not specified",
    "date": "YYYY-MM-DD format",
    "start_time": "HH:MM in 24-hour format",
    "end_time": "HH:MM in 24-hour format (1 hour after start if not specified)",
    "attendee_email": "email@example.com or null",
    "description": "brief description or null"
}

Rules:
- "tomorrow" = add 1 day to today's date
- "today" = use today's date
- "2pm" = "14:00"
- "5pm" = "17:00"
- If no end time mentioned, add 1 hour to start time
- If duration mentioned (e.g., "30 minutes"), calculate end time accordingly

Return ONLY the JSON object, nothing else.`,
		text,
		now.Format(core.DateLayout),
		now.Format(core.TimeLayout),
	)
}

// Decode parses a model reply into meeting details. It strips markdown code
// fences, verifies the remainder is a JSON object, and requires the four
// mandatory fields to be present and non-null.
func Decode(raw string) (*core.MeetingDetails, error) {
	content := stripFences(strings.TrimSpace(raw))

	if !gjson.Valid(content) || !gjson.Parse(content).IsObject() {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	for _, field := range []string{"title", "date", "start_time", "end_time"} {
		v := gjson.Get(content, field)
		if !v.Exists() || v.Type == gjson.Null || v.String() == "" {
			return nil, fmt.Errorf("missing required field %q", field)
		}
	}

	var details core.MeetingDetails
	if err := json.Unmarshal([]byte(content), &details); err != nil {
		return nil, fmt.Errorf("decode meeting details: %w", err)
	}
	return &details, nil
}

// stripFences removes a surrounding markdown code block, with or without a
// language tag, from a model reply.
func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}
	content = strings.TrimPrefix(content, "json")
	return strings.TrimSpace(content)
}
