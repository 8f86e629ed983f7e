package model

import (
	"context"
	"fmt"
)

// Request captures the normalized model input produced by the extraction layer.
type Request struct {
	// System primes the model; may be empty.
	System string `json:"system,omitempty"`
	// Prompt is the user-facing instruction the model completes.
	Prompt string `json:"prompt"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output.
type Response struct {
	Text  string      `json:"text"`
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface the extraction layer needs to drive generation.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
	err       error
	calls     int
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every subsequent Complete call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Calls returns how many times Complete has been invoked.
func (m *MockModel) Calls() int { return m.calls }

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (Response, error) {
	m.calls++
	if m.err != nil {
		return Response{}, m.err
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	full, ok := m.responses[req.Prompt]
	if !ok {
		full = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return Response{Text: full}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
