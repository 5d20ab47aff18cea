package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/vk/playbookgrid/internal/playbook"
)

// WriterPublisher writes each snapshot as one JSON document to w.
type WriterPublisher struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// NewWriterPublisher creates a publisher writing to w. If w is also an
// io.Closer it is closed by Close.
func NewWriterPublisher(w io.Writer, indent bool) *WriterPublisher {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	p := &WriterPublisher{enc: enc}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// Publish encodes snapshot to the underlying writer.
func (p *WriterPublisher) Publish(ctx context.Context, snapshot playbook.TelemetrySnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying writer when it is closable.
func (p *WriterPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
