package core

import (
	"github.com/google/uuid"
)

// State is the mutable record a single pipeline run threads through its
// stages. Each run owns exactly one State: stages receive it, mutate it, and
// hand it forward; it is never shared between runs or goroutines and is
// discarded once the Outcome is produced.
type State struct {
	// RunID identifies this pipeline run in logs.
	RunID string

	// Input is the sanitized user request text.
	Input string
	// Email is the sanitized requester email.
	Email string

	// Meeting holds the extracted fields once Parse succeeds.
	Meeting *MeetingDetails

	// Calendar and Mail record the provider call outcomes.
	Calendar CalendarResult
	Mail     EmailResult

	// Outcome is assembled by the terminal stage.
	Outcome Outcome

	// Err is the first failure observed. Once set, downstream stages pass
	// the state through untouched except Notify, which branches to send a
	// failure notice instead of a confirmation.
	Err error
}

// NewState creates the state for one run over already-sanitized inputs.
func NewState(input, email string) *State {
	return &State{
		RunID: uuid.NewString(),
		Input: input,
		Email: email,
	}
}

// Fail records the first error; later failures do not overwrite it.
func (s *State) Fail(err error) {
	if s.Err == nil {
		s.Err = err
	}
}

// Failed reports whether an upstream stage has already failed.
func (s *State) Failed() bool { return s.Err != nil }
