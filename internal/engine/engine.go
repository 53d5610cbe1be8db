package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/ggoodman/mcp-framework-go/internal/jsonrpc"
	"github.com/ggoodman/mcp-framework-go/internal/logctx"
	"github.com/ggoodman/mcp-framework-go/mcp"
	"github.com/ggoodman/mcp-framework-go/mcpservice"
)

var (
	errRequestTimeout   = jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, "request timed out")
	errRequestCancelled = jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, "request cancelled")
)

// Engine resolves decoded JSON-RPC requests against a server's registry. It is
// transport-agnostic: stdio and the HTTP event gateway both decode a request,
// hand it to HandleRequest and write out whatever comes back.
//
// An Engine holds no per-request state and is safe for concurrent use.
type Engine struct {
	srv     *mcpservice.Server
	log     *slog.Logger
	timeout time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger for the Engine.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRequestTimeout bounds the execution of each handler. On expiry the
// request fails with an internal error and the handler's context is
// cancelled. Zero disables the bound.
func WithRequestTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d >= 0 {
			e.timeout = d
		}
	}
}

// NewEngine binds an engine to srv. A nil srv uses a server over the
// DefaultRegistry.
func NewEngine(srv *mcpservice.Server, opts ...EngineOption) *Engine {
	if srv == nil {
		srv = mcpservice.NewServer()
	}
	e := &Engine{
		srv: srv,
		log: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// HandleRequest dispatches req and returns the response to write. It returns
// nil for notifications, which are dispatched but never answered. Every
// failure, including handler panics, is converted to an error response.
func (e *Engine) HandleRequest(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	start := time.Now()
	log := e.log.With(slog.String("method", req.Method))
	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
		Method: req.Method,
		ID:     req.ID.String(),
		Type:   req.Type(),
	})

	res, err := e.dispatch(ctx, req)
	if err != nil {
		rpcErr := jsonrpc.AsError(err)
		attrs := []any{slog.String("err", rpcErr.Message), slog.Int64("dur_ms", time.Since(start).Milliseconds())}
		switch rpcErr.Code {
		case jsonrpc.ErrorCodeMethodNotFound:
			log.InfoContext(ctx, "engine.handle_request.not_found", attrs...)
		case jsonrpc.ErrorCodeInvalidParams, jsonrpc.ErrorCodeInvalidRequest:
			log.InfoContext(ctx, "engine.handle_request.invalid", attrs...)
		default:
			log.ErrorContext(ctx, "engine.handle_request.fail", attrs...)
		}
		if req.IsNotification() {
			return nil
		}
		return jsonrpc.NewErrorResponse(req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
	}

	log.InfoContext(ctx, "engine.handle_request.ok", append(resultAttrs(res), slog.Int64("dur_ms", time.Since(start).Milliseconds()))...)
	if req.IsNotification() {
		return nil
	}

	resp, err := jsonrpc.NewResultResponse(req.ID, res)
	if err != nil {
		log.ErrorContext(ctx, "engine.handle_request.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	return resp
}

func (e *Engine) dispatch(ctx context.Context, req *jsonrpc.Request) (any, error) {
	switch mcp.Method(req.Method) {
	case mcp.InitializeMethod:
		return e.srv.InitializeResult(), nil
	case mcp.InitializedNotificationMethod, mcp.PingMethod:
		return mcp.EmptyResult{}, nil
	case mcp.ToolsListMethod:
		return &mcp.ListToolsResult{Tools: e.srv.Registry().Tools()}, nil
	case mcp.ToolsCallMethod:
		return e.handleToolCall(ctx, req)
	case mcp.ResourcesListMethod:
		return &mcp.ListResourcesResult{Resources: e.srv.Registry().Resources()}, nil
	case mcp.ResourcesReadMethod:
		return e.handleResourcesRead(ctx, req)
	case mcp.PromptsListMethod:
		return &mcp.ListPromptsResult{Prompts: e.srv.Registry().Prompts()}, nil
	case mcp.PromptsGetMethod:
		return e.handlePromptsGet(ctx, req)
	}
	return nil, jsonrpc.NewError(jsonrpc.ErrorCodeMethodNotFound, "Method not found: %s", req.Method)
}

func (e *Engine) handleToolCall(ctx context.Context, req *jsonrpc.Request) (any, error) {
	var params mcp.CallToolRequestReceived
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "invalid params: missing tool name")
	}

	ctx = logctx.WithHandlerData(ctx, &logctx.HandlerData{Category: mcpservice.CategoryTool.String(), Key: params.Name})

	def, ok := e.srv.Registry().Tool(params.Name)
	if !ok {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeMethodNotFound, "Tool not found: %s", params.Name)
	}

	v, err := e.invoke(ctx, func(ctx context.Context) (any, error) {
		return def.Call(ctx, params.Arguments)
	})
	if err != nil {
		var argErr *mcpservice.ArgumentError
		if errors.As(err, &argErr) {
			return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "Tool '%s' error: %s", params.Name, argErr.Error())
		}
		return nil, handlerError("Tool", params.Name, err)
	}

	text, err := renderJSON(v)
	if err != nil {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, "Tool '%s' error: result is not JSON-encodable: %v", params.Name, err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{{Type: mcp.ContentTypeText, Text: text}},
	}, nil
}

func (e *Engine) handleResourcesRead(ctx context.Context, req *jsonrpc.Request) (any, error) {
	var params mcp.ReadResourceRequest
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, err
	}
	if params.URI == "" {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "invalid params: missing resource uri")
	}

	ctx = logctx.WithHandlerData(ctx, &logctx.HandlerData{Category: mcpservice.CategoryResource.String(), Key: params.URI})

	def, ok := e.srv.Registry().Resource(params.URI)
	if !ok {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeMethodNotFound, "Resource not found: %s", params.URI)
	}

	v, err := e.invoke(ctx, def.Read)
	if err != nil {
		return nil, handlerError("Resource", params.URI, err)
	}

	text, err := renderJSON(v)
	if err != nil {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, "Resource '%s' error: result is not JSON-encodable: %v", params.URI, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContents{{URI: params.URI, Text: text}},
	}, nil
}

func (e *Engine) handlePromptsGet(ctx context.Context, req *jsonrpc.Request) (any, error) {
	var params mcp.GetPromptRequestReceived
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "invalid params: missing prompt name")
	}

	ctx = logctx.WithHandlerData(ctx, &logctx.HandlerData{Category: mcpservice.CategoryPrompt.String(), Key: params.Name})

	def, ok := e.srv.Registry().Prompt(params.Name)
	if !ok {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeMethodNotFound, "Prompt not found: %s", params.Name)
	}

	raw := params.Context
	if len(raw) == 0 || isNull(raw) {
		raw = params.Arguments
	}
	pctx := map[string]any{}
	if len(raw) > 0 && !isNull(raw) {
		if err := json.Unmarshal(raw, &pctx); err != nil {
			return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "invalid params: prompt context must be a JSON object")
		}
	}

	v, err := e.invoke(ctx, func(ctx context.Context) (any, error) {
		return def.Render(ctx, pctx)
	})
	if err != nil {
		return nil, handlerError("Prompt", params.Name, err)
	}

	text, _ := v.(string)
	return &mcp.GetPromptResult{
		Description: text,
		Messages: []mcp.PromptMessage{{
			Role:    mcp.RoleUser,
			Content: mcp.ContentBlock{Type: mcp.ContentTypeText, Text: text},
		}},
	}, nil
}

// invoke runs fn under panic recovery and the engine's request timeout. A
// handler that ignores its context keeps running after invoke returns.
func (e *Engine) invoke(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type outcome struct {
		v   any
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.ErrorContext(ctx, "engine.handler.panic", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- outcome{v: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && ctx.Err() != nil && errors.Is(out.err, ctx.Err()) {
			return nil, ctxError(ctx)
		}
		return out.v, out.err
	case <-ctx.Done():
		return nil, ctxError(ctx)
	}
}

func ctxError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errRequestTimeout
	}
	return errRequestCancelled
}

// handlerError maps a handler failure to an internal error naming the
// handler. Errors that already carry a JSON-RPC code keep it.
func handlerError(kind, key string, err error) error {
	var rpcErr *jsonrpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, "%s '%s' error: %v", kind, key, err)
}

// decodeParams decodes a params object into v. Absent params leave v at its
// zero value.
func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "invalid params: %v", err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func resultAttrs(res any) []any {
	switch r := res.(type) {
	case *mcp.ListToolsResult:
		return []any{slog.Int("tool_count", len(r.Tools))}
	case *mcp.ListResourcesResult:
		return []any{slog.Int("resource_count", len(r.Resources))}
	case *mcp.ListPromptsResult:
		return []any{slog.Int("prompt_count", len(r.Prompts))}
	}
	return nil
}
