package core

import (
	"context"
	"time"
)

// Extractor converts free text into structured meeting details, grounded on
// the supplied reference time (so "tomorrow at 2pm" resolves consistently).
// Implementations are opaque to the pipeline; failures should surface as
// *ParseError where the response was malformed.
type Extractor interface {
	Extract(ctx context.Context, text string, now time.Time) (*MeetingDetails, error)
}

// CalendarService creates calendar events at the provider. Calls are
// idempotency-unaware and fallible; the pipeline wraps them in its retry
// discipline.
type CalendarService interface {
	CreateEvent(ctx context.Context, req EventRequest) (CalendarResult, error)
}

// MailService sends notification email at the provider. Same failure model
// as CalendarService.
type MailService interface {
	SendEmail(ctx context.Context, to, subject, body string) (EmailResult, error)
}

// CacheStats is the telemetry surface of an extraction cache.
type CacheStats struct {
	Size      int           `json:"size"`
	MaxSize   int           `json:"max_size"`
	TTL       time.Duration `json:"ttl"`
	Hits      uint64        `json:"hits"`
	Misses    uint64        `json:"misses"`
	Evictions uint64        `json:"evictions"`
}

// ExtractionCache stores extraction results keyed by normalized request
// text. Implementations must be safe for concurrent use; the pipeline holds
// no lock of its own around Get/Set.
type ExtractionCache interface {
	// Get returns the cached record for text, or ok=false on a miss or an
	// expired entry.
	Get(text string) (details *MeetingDetails, ok bool)

	// Set stores the record under the normalized key with a fresh expiry,
	// evicting the oldest-inserted entry first when at capacity.
	Set(text string, details *MeetingDetails)

	// Clear removes all entries.
	Clear()

	// Stats returns a snapshot of cache telemetry.
	Stats() CacheStats
}
