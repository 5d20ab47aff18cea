package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/playbookgrid/internal/playbook"
)

// Publisher sends telemetry snapshots to a consumer.
type Publisher interface {
	Publish(ctx context.Context, snapshot playbook.TelemetrySnapshot) error
	Close() error
}

// snapshotPayload converts a snapshot to the generic JSON shape emitted on
// the wire, so every transport sends identical field names.
func snapshotPayload(snapshot playbook.TelemetrySnapshot) (map[string]any, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot payload: %w", err)
	}
	return payload, nil
}
