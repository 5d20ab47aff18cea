// Package app contains the host logic around the planning core. It loads and
// validates blueprint files, applies the step ceiling, memoizes plans,
// plans batches concurrently and publishes telemetry snapshots, decoupled
// from any specific entrypoint like a CLI.
package app
