package socketio

import (
	"context"
	"fmt"

	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Client is a connected socket.io client.
type Client struct {
	socket *socket.Socket
}

// Socket returns the underlying socket.
func (c *Client) Socket() *socket.Socket {
	return c.socket
}

// Request emits event with data and waits for the first reply event. The
// reply's first argument is returned.
func (c *Client) Request(ctx context.Context, event string, data any, reply string) (any, error) {
	logger := ctxlog.FromContext(ctx).With("emitEvent", event, "onEvent", reply)

	done := make(chan any, 1)
	c.socket.Once(types.EventName(reply), func(args ...any) {
		var v any
		if len(args) > 0 {
			v = args[0]
		}
		done <- v
	})

	logger.Info("Emitting event")
	c.socket.Emit(event, data)

	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for event %q: %w", reply, ctx.Err())
	}
}

// Close disconnects the client.
func (c *Client) Close() {
	c.socket.Disconnect()
}
