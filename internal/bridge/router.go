package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Frame is the envelope of every websocket message in both directions.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Router dispatches inbound frames by type.
type Router struct {
	routes map[string]HandlerFunc
	logger *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{routes: make(map[string]HandlerFunc), logger: logger}
}

func (r *Router) Handle(frameType string, handler HandlerFunc) {
	r.routes[frameType] = handler
}

// Serve reads frames until the connection fails or ctx is done. Unknown
// types and handler errors are answered with an error frame and do not end
// the loop.
func (r *Router) Serve(ctx context.Context, conn *Conn) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var f Frame
		if err := conn.ReadFrame(&f); err != nil {
			return err
		}

		handler, ok := r.routes[f.Type]
		if !ok {
			r.logger.DebugContext(ctx, "unknown frame type", "type", f.Type)
			if err := conn.Send(TypeError, ErrorPayload{Type: f.Type, Message: "unknown message type"}); err != nil {
				return err
			}
			continue
		}
		if err := handler(ctx, f.Payload); err != nil {
			r.logger.DebugContext(ctx, "frame handler failed", "type", f.Type, "error", err)
			if err := conn.Send(TypeError, ErrorPayload{Type: f.Type, Message: err.Error()}); err != nil {
				return err
			}
		}
	}
}
