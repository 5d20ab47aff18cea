package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vk/playbookgrid/internal/ctxlog"
	"github.com/vk/playbookgrid/internal/playbook"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds the connect and acknowledgement waits when
// SocketOptions.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// ErrNotConnected is returned when publishing on a socket that has dropped.
var ErrNotConnected = errors.New("socket.io client is not connected")

// SocketOptions configures a SocketPublisher.
type SocketOptions struct {
	URL       string
	Namespace string
	// Event is the name snapshots are emitted under.
	Event string
	// AckEvent, when set, is awaited after every emit.
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketPublisher emits snapshots on a connected Socket.IO client.
type SocketPublisher struct {
	io   *socket.Socket
	opts SocketOptions
}

// DialSocket connects to the dashboard and waits for the connect event.
func DialSocket(ctx context.Context, opts SocketOptions) (*SocketPublisher, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", opts.URL)
	logger.Debug("Creating new client instance.")

	if opts.Event == "" {
		return nil, fmt.Errorf("socket.io publisher requires an event name")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if !strings.HasPrefix(opts.Namespace, "/") {
		opts.Namespace = "/" + opts.Namespace
	}

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("socket.io URL %q must include a scheme and host", opts.URL)
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Connection attempt failed.", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("Snapshot publisher connected.", "namespace", opts.Namespace, "sid", io.Id())
		return &SocketPublisher{io: io, opts: opts}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", opts.Timeout)
	}
}

// Publish emits the snapshot and, when an AckEvent is configured, waits for it.
func (p *SocketPublisher) Publish(ctx context.Context, snapshot playbook.TelemetrySnapshot) error {
	if !p.io.Connected() {
		return ErrNotConnected
	}
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "sid", p.io.Id(), "event", p.opts.Event)

	payload, err := snapshotPayload(snapshot)
	if err != nil {
		return err
	}

	var acked chan struct{}
	if p.opts.AckEvent != "" {
		acked = make(chan struct{}, 1)
		p.io.Once(types.EventName(p.opts.AckEvent), func(...any) {
			select {
			case acked <- struct{}{}:
			default:
			}
		})
	}

	logger.Debug("Emitting snapshot.")
	if err := p.io.Emit(p.opts.Event, payload); err != nil {
		return fmt.Errorf("failed to emit %q: %w", p.opts.Event, err)
	}
	if acked == nil {
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()
	select {
	case <-acked:
		logger.Debug("Snapshot acknowledged.", "ack_event", p.opts.AckEvent)
		return nil
	case <-opCtx.Done():
		return fmt.Errorf("timed out after %v waiting for event '%s'", p.opts.Timeout, p.opts.AckEvent)
	}
}

// Close disconnects the client.
func (p *SocketPublisher) Close() error {
	p.io.Disconnect()
	return nil
}
