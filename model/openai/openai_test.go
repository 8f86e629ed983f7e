package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
)

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel()

	assert.Equal(t, openai.ChatModelGPT4oMini, m.opts.Model)
	assert.Equal(t, float64(0), m.opts.Temperature)
	assert.Equal(t, int64(1024), m.opts.MaxCompletionTokens)

	info := m.Info()
	assert.Equal(t, "openai", info.Provider)
}

func TestNewModel_OptionsApplied(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = "gpt-4o"
		o.APIKey = "sk-test"
	})

	assert.Equal(t, "gpt-4o", m.opts.Model)
	assert.Equal(t, "sk-test", m.opts.APIKey)
}
