// Package logging provides a minimal logging interface and adapters for CalMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the pipeline and its collaborators use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - PipelineLogger with run context and domain helpers for stage
//     transitions, cache events and external calls
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	scheduler := calmesh.New(func(o *calmesh.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
