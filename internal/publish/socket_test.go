package publish

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io/v2/socket"
)

// dashboard is an in-process Socket.IO server that records snapshot events.
type dashboard struct {
	url      string
	received chan map[string]any
}

// startDashboard serves Socket.IO on an httptest server. When ackEvent is
// set, every snapshot is answered with it.
func startDashboard(t *testing.T, event, ackEvent string) *dashboard {
	t.Helper()

	io := socket.NewServer(nil, nil)
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	srv := httptest.NewServer(mux)

	d := &dashboard{url: srv.URL, received: make(chan map[string]any, 4)}
	_ = io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		_ = client.On(event, func(data ...any) {
			if len(data) > 0 {
				if payload, ok := data[0].(map[string]any); ok {
					d.received <- payload
				}
			}
			if ackEvent != "" {
				_ = client.Emit(ackEvent, "ok")
			}
		})
	})

	t.Cleanup(func() {
		io.Close(nil)
		srv.Close()
	})
	return d
}

func dial(t *testing.T, opts SocketOptions) *SocketPublisher {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pub, err := DialSocket(ctx, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })
	return pub
}

func TestSocketPublisher_EmitsSnapshot(t *testing.T) {
	d := startDashboard(t, "snapshot", "")
	pub := dial(t, SocketOptions{URL: d.url, Event: "snapshot", Timeout: 5 * time.Second})

	require.NoError(t, pub.Publish(context.Background(), sampleSnapshot()))

	select {
	case payload := <-d.received:
		projection, ok := payload["projection"].(map[string]any)
		require.True(t, ok, "payload carries the projection object: %v", payload)
		assert.Equal(t, "run-42", projection["runId"])
		assert.Equal(t, "promote", projection["activeStep"])
		assert.Equal(t, []any{"triage"}, projection["completedSteps"])
	case <-time.After(5 * time.Second):
		t.Fatal("dashboard did not receive the snapshot")
	}
}

func TestSocketPublisher_WaitsForAck(t *testing.T) {
	d := startDashboard(t, "snapshot", "snapshot:ack")
	pub := dial(t, SocketOptions{URL: d.url, Event: "snapshot", AckEvent: "snapshot:ack", Timeout: 5 * time.Second})

	require.NoError(t, pub.Publish(context.Background(), sampleSnapshot()))
	require.Len(t, d.received, 1, "the ack arrives after the server has handled the snapshot")
}

func TestSocketPublisher_AckTimeout(t *testing.T) {
	d := startDashboard(t, "snapshot", "")
	pub := dial(t, SocketOptions{URL: d.url, Event: "snapshot", AckEvent: "snapshot:ack", Timeout: 5 * time.Second})
	pub.opts.Timeout = 200 * time.Millisecond

	err := pub.Publish(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waiting for event 'snapshot:ack'")
}
