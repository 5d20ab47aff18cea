// Package telemetry derives read-only progress views from a run: plan
// summaries, projections through a plan order, readiness signals and
// dashboard snapshots.
//
// Nothing here returns an error. Missing or empty run data resolves to
// neutral defaults so a dashboard refresh never fails.
package telemetry
