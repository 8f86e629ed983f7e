package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/calmesh/cache"
	"github.com/hupe1980/calmesh/core"
	"github.com/hupe1980/calmesh/logging"
	"github.com/hupe1980/calmesh/retry"
)

// DefaultTimezone is the fixed target zone attached to created events.
const DefaultTimezone = "Asia/Kolkata"

// Stages lists the engine's states in execution order.
func Stages() []string {
	return []string{"parse", "validate", "create_event", "notify"}
}

// Options configures an Engine via the functional options pattern.
type Options struct {
	// Cache stores extraction results between identical requests.
	// Defaults to an in-memory store with the standard bounds.
	Cache core.ExtractionCache

	// Retryer wraps provider calls. Defaults to the standard 3-attempt,
	// 2s–10s exponential budget.
	Retryer *retry.Retryer

	// Timezone names the fixed target zone for created events.
	Timezone string

	// Logger receives pipeline telemetry. Defaults to NoOpLogger.
	Logger logging.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine drives the state machine. One Engine serves any number of
// concurrent runs: all per-run mutable data lives on the core.State, and
// the only shared mutable resource is the cache, which synchronizes itself.
type Engine struct {
	extractor core.Extractor
	calendar  core.CalendarService
	mail      core.MailService
	cache     core.ExtractionCache
	retryer   *retry.Retryer
	timezone  string
	logger    *logging.PipelineLogger
	now       func() time.Time
}

// New constructs an Engine over the external collaborators.
func New(extractor core.Extractor, calendar core.CalendarService, mail core.MailService, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Cache:    cache.NewInMemoryStore(),
		Retryer:  retry.New(),
		Timezone: DefaultTimezone,
		Logger:   logging.NoOpLogger{},
		Now:      time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		extractor: extractor,
		calendar:  calendar,
		mail:      mail,
		cache:     opts.Cache,
		retryer:   opts.Retryer,
		timezone:  opts.Timezone,
		logger:    logging.NewPipelineLogger(opts.Logger),
		now:       opts.Now,
	}
}

// Cache exposes the engine's extraction cache for telemetry and clearing.
func (e *Engine) Cache() core.ExtractionCache { return e.cache }

// Run executes the state machine over s and returns the terminal outcome.
// Strictly sequential: no stage starts before the previous one returns.
func (e *Engine) Run(ctx context.Context, s *core.State) core.Outcome {
	log := e.logger.WithRun(s.RunID)
	log.Info("Pipeline run started", "user_email", s.Email)

	e.parse(ctx, s, log)
	e.validate(s, log)
	e.createEvent(ctx, s, log)
	e.notify(ctx, s, log)

	log.Info("Pipeline run completed", "success", s.Outcome.Success)
	return s.Outcome
}

// parse populates s.Meeting from the cache or the extraction service.
func (e *Engine) parse(ctx context.Context, s *core.State, log *logging.PipelineLogger) {
	key := cache.Key(s.Input)

	if cached, ok := e.cache.Get(s.Input); ok {
		log.LogCacheEvent(key, true)
		// Copy so concurrent runs never share a record.
		m := *cached
		s.Meeting = &m
		log.LogStage("parse", false, nil)
		return
	}
	log.LogCacheEvent(key, false)

	details, err := e.extractor.Extract(ctx, s.Input, e.now())
	if err != nil {
		s.Fail(err)
		log.LogStage("parse", false, err)
		return
	}

	// The cache keeps its own copy so mutation of run state after the run
	// cannot corrupt the stored entry.
	m := *details
	e.cache.Set(s.Input, &m)
	s.Meeting = details
	log.LogStage("parse", false, nil)
}

// validate shape-checks the extracted record. Cached records are validated
// with the same rigor as fresh ones, so an entry stored under old rules can
// never slip through.
func (e *Engine) validate(s *core.State, log *logging.PipelineLogger) {
	if s.Failed() {
		log.LogStage("validate", true, nil)
		return
	}

	if err := s.Meeting.Validate(e.now()); err != nil {
		s.Fail(err)
		log.LogStage("validate", false, err)
		return
	}
	log.LogStage("validate", false, nil)
}

// createEvent books the meeting at the provider through the retry wrapper.
func (e *Engine) createEvent(ctx context.Context, s *core.State, log *logging.PipelineLogger) {
	if s.Failed() {
		log.LogStage("create_event", true, nil)
		return
	}

	req := core.NewEventRequest(s.Meeting, e.timezone)

	start := time.Now()
	result, err := retry.DoValue(ctx, e.retryer, func(ctx context.Context) (core.CalendarResult, error) {
		return e.calendar.CreateEvent(ctx, req)
	})
	log.LogProviderCall("Calendar", "create_event", time.Since(start), err)

	if err != nil {
		s.Calendar = core.CalendarResult{Success: false, Message: err.Error()}
		s.Fail(core.ClassifyProviderError("Calendar", "create_event", err))
		log.LogStage("create_event", false, s.Err)
		return
	}

	s.Calendar = result
	if !result.Success {
		s.Fail(&core.ProviderError{
			Provider:  "Calendar",
			Operation: "create_event",
			Err:       errors.New(result.Message),
		})
		log.LogStage("create_event", false, s.Err)
		return
	}
	log.LogStage("create_event", false, nil)
}

// notify always runs: it reports the terminal result to the requester and
// assembles the outcome. A failed notification after a successful booking
// degrades the outcome but does not roll back the event.
func (e *Engine) notify(ctx context.Context, s *core.State, log *logging.PipelineLogger) {
	if s.Failed() {
		// The outcome carries the upstream error whether or not the
		// failure notice gets through.
		log.Warn("Sending failure notification", "error", s.Err.Error())
		s.Mail = e.send(ctx, s.Email, failureSubject, failureBody(s.Err), log)
		s.Outcome = core.Outcome{
			Success: false,
			Message: s.Err.Error(),
			Error:   s.Err.Error(),
		}
		log.LogStage("notify", false, nil)
		return
	}

	result := e.send(ctx, s.Email, successSubject(s.Meeting), successBody(s.Meeting, s.Calendar, e.timezone), log)
	s.Mail = result

	if !result.Success {
		err := &core.ProviderError{
			Provider:  "Gmail",
			Operation: "send_email",
			Err:       errors.New(result.Message),
		}
		s.Fail(err)
		s.Outcome = core.Outcome{
			Success: false,
			Message: "Event created but email failed: " + err.Error(),
			Error:   err.Error(),
		}
		log.LogStage("notify", false, err)
		return
	}

	s.Outcome = core.Outcome{
		Success:   true,
		Message:   "Meeting scheduled successfully!",
		EventLink: s.Calendar.EventLink,
	}
	log.LogStage("notify", false, nil)
}

// send delivers one notification through the retry wrapper, folding any
// terminal error into a failed EmailResult.
func (e *Engine) send(ctx context.Context, to, subject, body string, log *logging.PipelineLogger) core.EmailResult {
	start := time.Now()
	result, err := retry.DoValue(ctx, e.retryer, func(ctx context.Context) (core.EmailResult, error) {
		return e.mail.SendEmail(ctx, to, subject, body)
	})
	log.LogProviderCall("Gmail", "send_email", time.Since(start), err)

	if err != nil {
		return core.EmailResult{Success: false, Message: err.Error()}
	}
	return result
}
