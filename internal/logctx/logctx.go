// Package logctx carries request-scoped logging data through a context and
// exposes a slog.Handler that renders it as attribute groups.
package logctx

import (
	"context"
	"log/slog"
)

// Handler wraps a slog.Handler and appends the "req", "rpc" and "handler"
// groups found in the record's context.
type Handler struct {
	slog.Handler
}

// NewHandler wraps h.
func NewHandler(h slog.Handler) Handler {
	return Handler{Handler: h}
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		r.AddAttrs(slog.Group("req",
			slog.String("id", rd.RequestID),
			slog.String("transport", rd.Transport),
			slog.String("method", rd.Method),
			slog.String("path", rd.Path),
			slog.String("remote_addr", rd.RemoteAddr),
			slog.String("user_agent", rd.UserAgent),
		))
	}

	if msg, ok := ctx.Value(rpcMsg{}).(*RPCMessage); ok {
		r.AddAttrs(slog.Group("rpc",
			slog.String("method", msg.Method),
			slog.String("id", msg.ID),
			slog.String("type", msg.Type),
		))
	}

	if hd, ok := ctx.Value(handlerDataKey{}).(*HandlerData); ok {
		r.AddAttrs(slog.Group("handler",
			slog.String("category", hd.Category),
			slog.String("key", hd.Key),
		))
	}

	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type rpcMsg struct{}

// RPCMessage identifies the JSON-RPC message being handled.
type RPCMessage struct {
	Method string
	ID     string
	Type   string
}

func WithRPCMessage(ctx context.Context, msg *RPCMessage) context.Context {
	return context.WithValue(ctx, rpcMsg{}, msg)
}

type requestDataKey struct{}

// RequestData describes the transport-level request a message arrived on.
// Fields that do not apply to a transport stay empty.
type RequestData struct {
	RequestID  string
	Transport  string
	Method     string
	Path       string
	RemoteAddr string
	UserAgent  string
}

func WithRequestData(ctx context.Context, data *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, data)
}

type handlerDataKey struct{}

// HandlerData names the registered tool, resource or prompt being invoked.
type HandlerData struct {
	Category string
	Key      string
}

func WithHandlerData(ctx context.Context, data *HandlerData) context.Context {
	return context.WithValue(ctx, handlerDataKey{}, data)
}
