// Package services defines shared utilities consumed by the pipeline stages.
//
// Key responsibilities:
//   - Context helpers that stamp source URLs, stage names, and run correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures as
//     retryable or final for their URL.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability, retries) stays uniform across the pipeline.
package services
