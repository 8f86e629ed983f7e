// Package google implements the calendar and mail provider against the
// Google Calendar v3 and Gmail v1 REST APIs. Authentication mechanics live
// with the caller: the client only needs a TokenSource that yields a valid
// bearer token per request. Calls are single-shot and idempotency-unaware;
// the pipeline supplies the retry discipline.
package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/calmesh/core"
)

const (
	defaultCalendarEndpoint = "https://www.googleapis.com/calendar/v3"
	defaultGmailEndpoint    = "https://gmail.googleapis.com/gmail/v1"
)

// TokenSource supplies a bearer token for each outbound request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token. Suitable for tests
// and short-lived tooling; production callers should wire a refreshing
// source.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Options configures the Client.
type Options struct {
	// CalendarEndpoint overrides the Calendar API base URL (tests).
	CalendarEndpoint string
	// GmailEndpoint overrides the Gmail API base URL (tests).
	GmailEndpoint string
	// CalendarID selects the target calendar; defaults to "primary".
	CalendarID string
	// HTTPClient overrides the transport; defaults to a 30s-timeout client.
	HTTPClient *http.Client
}

// Client talks to Google Calendar and Gmail. It implements both
// core.CalendarService and core.MailService.
type Client struct {
	tokens           TokenSource
	httpClient       *http.Client
	calendarEndpoint string
	gmailEndpoint    string
	calendarID       string
}

var (
	_ core.CalendarService = (*Client)(nil)
	_ core.MailService     = (*Client)(nil)
)

// NewClient constructs a Client over the given token source.
func NewClient(tokens TokenSource, optFns ...func(o *Options)) *Client {
	opts := Options{
		CalendarEndpoint: defaultCalendarEndpoint,
		GmailEndpoint:    defaultGmailEndpoint,
		CalendarID:       "primary",
		HTTPClient:       &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{
		tokens:           tokens,
		httpClient:       opts.HTTPClient,
		calendarEndpoint: opts.CalendarEndpoint,
		gmailEndpoint:    opts.GmailEndpoint,
		calendarID:       opts.CalendarID,
	}
}

// eventTime is the Calendar API date-time shape.
type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// eventBody is the Calendar API event insert payload.
type eventBody struct {
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Start       eventTime  `json:"start"`
	End         eventTime  `json:"end"`
	Attendees   []attendee `json:"attendees,omitempty"`
}

type attendee struct {
	Email string `json:"email"`
}

// CreateEvent implements core.CalendarService.
func (c *Client) CreateEvent(ctx context.Context, req core.EventRequest) (core.CalendarResult, error) {
	body := eventBody{
		Summary:     req.Title,
		Description: req.Description,
		Start:       eventTime{DateTime: req.Start, TimeZone: req.Timezone},
		End:         eventTime{DateTime: req.End, TimeZone: req.Timezone},
	}
	if req.AttendeeEmail != "" {
		body.Attendees = []attendee{{Email: req.AttendeeEmail}}
	}

	url := fmt.Sprintf("%s/calendars/%s/events?sendUpdates=all", c.calendarEndpoint, c.calendarID)

	var created struct {
		ID       string `json:"id"`
		HTMLLink string `json:"htmlLink"`
	}
	if err := c.post(ctx, url, body, &created); err != nil {
		return core.CalendarResult{Success: false, Message: err.Error()}, err
	}

	return core.CalendarResult{
		Success:   true,
		EventID:   created.ID,
		EventLink: created.HTMLLink,
		Message:   fmt.Sprintf("Meeting '%s' scheduled successfully", req.Title),
	}, nil
}

// SendEmail implements core.MailService. The message is assembled as a
// minimal RFC 2822 text mail and submitted base64url-encoded, as the Gmail
// API requires.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) (core.EmailResult, error) {
	mime := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body)
	payload := map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(mime)),
	}

	url := fmt.Sprintf("%s/users/me/messages/send", c.gmailEndpoint)

	var sent struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, url, payload, &sent); err != nil {
		return core.EmailResult{Success: false, Message: err.Error()}, err
	}

	return core.EmailResult{
		Success:   true,
		MessageID: sent.ID,
		Message:   fmt.Sprintf("Email sent to %s", to),
	}, nil
}

// post issues an authenticated JSON request and decodes the response into out.
func (c *Client) post(ctx context.Context, url string, body, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return &core.AuthError{Message: fmt.Sprintf("failed to obtain access token: %v", err)}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError classifies HTTP failures into the pipeline taxonomy where the
// status is unambiguous, and reports everything else verbatim.
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &core.AuthError{Message: fmt.Sprintf("request rejected with status %d", resp.StatusCode)}
	case http.StatusTooManyRequests:
		retryAfter, _ := time.ParseDuration(resp.Header.Get("Retry-After") + "s")
		return &core.RateLimitError{RetryAfter: retryAfter}
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(snippet))
	}
}
