package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	FromContext(ctx).Info("Planner: Scheduling complete.")
	assert.Contains(t, buf.String(), "Planner: Scheduling complete.")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Same(t, slog.Default(), FromContext(WithLogger(context.Background(), nil)))
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	stepCtx, logger := With(ctx, "blueprint_id", "db-failover", "step_id", "promote")
	assert.Same(t, logger, FromContext(stepCtx))

	FromContext(stepCtx).Info("Translating step.")
	assert.Contains(t, buf.String(), "blueprint_id=db-failover step_id=promote")

	buf.Reset()
	FromContext(ctx).Info("Outer scope.")
	assert.NotContains(t, buf.String(), "step_id")
}
