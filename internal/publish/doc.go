// Package publish delivers telemetry snapshots to dashboards, either over a
// Socket.IO connection or as JSON to an io.Writer.
package publish
