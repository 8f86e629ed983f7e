// Package calmesh provides a high-level façade over the scheduling pipeline
// and its collaborators (extraction model, calendar/mail provider, cache &
// logging), turning a free-text meeting request into a confirmed calendar
// event and a notification email. Most applications interact with this
// package by:
//  1. Creating a Scheduler via New() (or NewFromConfig() for file/env wiring)
//  2. Calling Schedule() with the raw request text and requester email
//  3. Returning the resulting Outcome to their own transport layer
//
// The façade delegates orchestration to pipeline.Engine while keeping setup
// ergonomics concise. Defaults are safe for local development and testing;
// production deployments supply a real provider client and a structured
// logger.
package calmesh

import (
	"context"
	"fmt"

	"github.com/hupe1980/calmesh/cache"
	"github.com/hupe1980/calmesh/config"
	"github.com/hupe1980/calmesh/core"
	"github.com/hupe1980/calmesh/extract"
	"github.com/hupe1980/calmesh/logging"
	"github.com/hupe1980/calmesh/model"
	"github.com/hupe1980/calmesh/model/anthropic"
	"github.com/hupe1980/calmesh/model/openai"
	"github.com/hupe1980/calmesh/pipeline"
	"github.com/hupe1980/calmesh/provider/google"
	"github.com/hupe1980/calmesh/retry"
	"github.com/hupe1980/calmesh/sanitize"
)

// Options configures the Scheduler instance.
type Options struct {
	// Cache overrides the extraction cache (defaults to the in-memory
	// store with the standard 100-entry / 300s bounds).
	Cache core.ExtractionCache

	// Retryer overrides the provider-call retry discipline (defaults to
	// 3 attempts with 2s–10s exponential backoff).
	Retryer *retry.Retryer

	// Timezone is the fixed target zone for created events.
	Timezone string

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Scheduler is the high-level façade aggregating the pipeline engine and
// the sanitization gate. Safe for concurrent use: every Schedule call owns
// its own pipeline state.
type Scheduler struct {
	engine *pipeline.Engine
	logger *logging.PipelineLogger
}

// Status describes the running scheduler for health/status endpoints.
type Status struct {
	Agent  string          `json:"agent"`
	Stages []string        `json:"workflow_stages"`
	Cache  core.CacheStats `json:"cache"`
}

// New creates a Scheduler over the given collaborators with optional overrides.
func New(extractor core.Extractor, calendar core.CalendarService, mail core.MailService, optFns ...func(o *Options)) *Scheduler {
	opts := Options{
		Cache:    cache.NewInMemoryStore(),
		Retryer:  retry.New(),
		Timezone: pipeline.DefaultTimezone,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	engine := pipeline.New(extractor, calendar, mail, func(o *pipeline.Options) {
		o.Cache = opts.Cache
		o.Retryer = opts.Retryer
		o.Timezone = opts.Timezone
		o.Logger = opts.Logger
	})

	return &Scheduler{
		engine: engine,
		logger: logging.NewPipelineLogger(opts.Logger),
	}
}

// NewFromConfig wires a Scheduler from file/env configuration: the selected
// model backend, the Google provider over the given token source, and the
// configured cache and retry bounds.
func NewFromConfig(cfg config.Config, tokens google.TokenSource, logger logging.Logger) (*Scheduler, error) {
	var m model.Model
	switch cfg.Model.Provider {
	case "openai", "":
		m = openai.NewModel(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			o.APIKey = cfg.Model.APIKey
		})
	case "anthropic":
		m = anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			o.APIKey = cfg.Model.APIKey
		})
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}

	client := google.NewClient(tokens)
	extractor := extract.New(m, func(o *extract.Options) { o.Logger = logger })

	scheduler := New(extractor, client, client, func(o *Options) {
		o.Cache = cache.NewInMemoryStore(func(co *cache.Options) {
			co.MaxSize = cfg.Cache.MaxSize
			co.TTL = cfg.Cache.TTL()
		})
		o.Retryer = retry.New(func(ro *retry.Options) {
			ro.Attempts = cfg.Retry.Attempts
			ro.Multiplier = cfg.Retry.Multiplier
			ro.MinWait = cfg.Retry.MinWait()
			ro.MaxWait = cfg.Retry.MaxWait()
		})
		o.Timezone = cfg.Calendar.Timezone
		o.Logger = logger
	})

	return scheduler, nil
}

// Schedule is the sole entry point for a scheduling request. It sanitizes
// the raw inputs first; a sanitization failure aborts before the pipeline
// starts and is surfaced directly as the outcome. Every call returns a
// well-formed Outcome with a non-empty message.
func (s *Scheduler) Schedule(ctx context.Context, rawInput, rawEmail string) core.Outcome {
	cleanInput, cleanEmail, err := sanitize.ValidateAndSanitize(rawInput, rawEmail)
	if err != nil {
		s.logger.Error("Input validation failed", "error", err.Error())
		return core.Outcome{
			Success: false,
			Message: err.Error(),
			Error:   err.Error(),
		}
	}

	state := core.NewState(cleanInput, cleanEmail)
	return s.engine.Run(ctx, state)
}

// Status reports the scheduler's workflow shape and cache telemetry.
func (s *Scheduler) Status() Status {
	return Status{
		Agent:  "calmesh",
		Stages: pipeline.Stages(),
		Cache:  s.engine.Cache().Stats(),
	}
}

// ClearCache drops all cached extraction results.
func (s *Scheduler) ClearCache() { s.engine.Cache().Clear() }
