package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Input: "schedule something", Response: "not json"}
	assert.Equal(t, "failed to parse meeting details from: 'schedule something'", err.Error())
}

func TestParseError_TruncatesLongInput(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "abcdefghij"
	}
	err := &ParseError{Input: long}
	assert.Contains(t, err.Error(), "...")
	assert.Less(t, len(err.Error()), len(long))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "end_time", Value: "14:00", Reason: "End time must be after start time"}
	assert.Equal(t, "validation failed for end_time='14:00': End time must be after start time", err.Error())
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("503 backend unavailable")
	err := &ProviderError{Provider: "Calendar", Operation: "create_event", Err: cause}

	assert.Equal(t, "Calendar create_event failed: 503 backend unavailable", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestClassifyProviderError_WrapsUnclassified(t *testing.T) {
	err := ClassifyProviderError("Calendar", "create_event", fmt.Errorf("connection reset"))

	var pe *ProviderError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "Calendar", pe.Provider)
	assert.Equal(t, "create_event", pe.Operation)
}

func TestClassifyProviderError_PreservesTaxonomyMembers(t *testing.T) {
	auth := &AuthError{Message: "token expired"}
	err := ClassifyProviderError("Gmail", "send_email", auth)

	var ae *AuthError
	assert.ErrorAs(t, err, &ae)
	assert.Equal(t, "token expired", ae.Message)
}

func TestRateLimitError_Message(t *testing.T) {
	assert.Equal(t, "rate limit exceeded", (&RateLimitError{}).Error())
	assert.Equal(t, "rate limit exceeded, retry after 30s", (&RateLimitError{RetryAfter: 30 * time.Second}).Error())
}
