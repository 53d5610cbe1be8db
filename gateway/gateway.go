package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/ggoodman/mcp-framework-go/internal/engine"
	"github.com/ggoodman/mcp-framework-go/internal/jsonrpc"
	"github.com/ggoodman/mcp-framework-go/internal/logctx"
	"github.com/ggoodman/mcp-framework-go/mcpservice"
	"github.com/google/uuid"
)

const (
	defaultAllowOrigin  = "*"
	allowMethods        = "POST, OPTIONS"
	allowHeaders        = "Content-Type"
	defaultMaxBodyBytes = 4 << 20
)

var _ lambda.Handler = (*Handler)(nil)

// Handler adapts gateway events and plain HTTP requests to the engine. Every
// dispatched message is answered with status 200; JSON-RPC errors travel in
// the body. OPTIONS preflights are answered directly with CORS headers and an
// empty body.
type Handler struct {
	eng          *engine.Engine
	log          *slog.Logger
	timeout      time.Duration
	allowOrigin  string
	maxBodyBytes int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for the handler and its engine.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithRequestTimeout bounds each handler invocation (0 = unbounded).
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// WithAllowOrigin overrides the Access-Control-Allow-Origin value. The
// default is "*".
func WithAllowOrigin(origin string) Option {
	return func(h *Handler) {
		if origin != "" {
			h.allowOrigin = origin
		}
	}
}

// WithMaxBodyBytes caps request bodies read by ServeHTTP.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler constructs a gateway Handler for srv.
func NewHandler(srv *mcpservice.Server, opts ...Option) *Handler {
	h := &Handler{
		log:          slog.Default(),
		allowOrigin:  defaultAllowOrigin,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.eng = engine.NewEngine(srv, engine.WithLogger(h.log), engine.WithRequestTimeout(h.timeout))
	return h
}

// HandleEvent handles an API Gateway proxy event. The returned error is
// always nil; failures are reported in the response body.
func (h *Handler) HandleEvent(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx = logctx.WithRequestData(ctx, &logctx.RequestData{
		RequestID:  requestID(ev.RequestContext.RequestID),
		Transport:  "gateway",
		Method:     ev.HTTPMethod,
		Path:       ev.Path,
		RemoteAddr: ev.RequestContext.Identity.SourceIP,
		UserAgent:  ev.RequestContext.Identity.UserAgent,
	})

	if strings.EqualFold(ev.HTTPMethod, http.MethodOptions) {
		h.log.InfoContext(ctx, "gateway.preflight")
		return h.preflight(), nil
	}

	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return h.respond(ctx, nil, jsonrpc.NewError(jsonrpc.ErrorCodeParseError, "parse error: invalid base64 body: %v", err)), nil
		}
		body = decoded
	}
	req, err := jsonrpc.DecodeBody(body)
	return h.respond(ctx, req, err), nil
}

// eventHead holds the envelope members Invoke needs before decoding the
// request itself.
type eventHead struct {
	HTTPMethod     string `json:"httpMethod"`
	Path           string `json:"path"`
	RequestContext struct {
		RequestID string `json:"requestId"`
	} `json:"requestContext"`
}

// Invoke handles a raw event payload and returns the encoded proxy response.
// It implements lambda.Handler, so a Handler can be passed to lambda.Start
// directly. Payloads without a body member are treated as bare requests.
func (h *Handler) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	var head eventHead
	_ = json.Unmarshal(payload, &head)

	ctx = logctx.WithRequestData(ctx, &logctx.RequestData{
		RequestID: requestID(head.RequestContext.RequestID),
		Transport: "gateway",
		Method:    head.HTTPMethod,
		Path:      head.Path,
	})

	var resp events.APIGatewayProxyResponse
	if strings.EqualFold(head.HTTPMethod, http.MethodOptions) {
		h.log.InfoContext(ctx, "gateway.preflight")
		resp = h.preflight()
	} else {
		req, err := jsonrpc.DecodeEvent(payload)
		resp = h.respond(ctx, req, err)
	}
	return json.Marshal(resp)
}

// respond dispatches a decoded request, or reports its decode error, and
// wraps the outcome in a proxy response.
func (h *Handler) respond(ctx context.Context, req *jsonrpc.Request, decodeErr error) events.APIGatewayProxyResponse {
	start := time.Now()
	var resp *jsonrpc.Response
	if decodeErr != nil {
		rpcErr := jsonrpc.AsError(decodeErr)
		h.log.WarnContext(ctx, "gateway.decode.fail", slog.Int("code", int(rpcErr.Code)), slog.String("err", rpcErr.Message))
		var id *jsonrpc.RequestID
		if req != nil {
			id = req.ID
		}
		resp = jsonrpc.NewErrorResponse(id, rpcErr.Code, rpcErr.Message, nil)
	} else {
		resp = h.eng.HandleRequest(ctx, req)
	}

	out := events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    h.headers(true),
	}
	if resp == nil {
		h.log.InfoContext(ctx, "gateway.event.ok", slog.Bool("notification", true), slog.Int64("dur_ms", time.Since(start).Milliseconds()))
		return out
	}
	b, err := jsonrpc.MarshalResponse(resp)
	if err != nil {
		h.log.ErrorContext(ctx, "gateway.event.fail", slog.String("err", err.Error()))
		b, _ = jsonrpc.MarshalResponse(jsonrpc.NewErrorResponse(resp.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil))
	}
	out.Body = string(b)
	h.log.InfoContext(ctx, "gateway.event.ok", slog.Int64("dur_ms", time.Since(start).Milliseconds()))
	return out
}

func (h *Handler) preflight() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    h.headers(false),
	}
}

func (h *Handler) headers(withContentType bool) map[string]string {
	hdr := map[string]string{
		"Access-Control-Allow-Origin":  h.allowOrigin,
		"Access-Control-Allow-Methods": allowMethods,
		"Access-Control-Allow-Headers": allowHeaders,
	}
	if withContentType {
		hdr["Content-Type"] = jsonMediaType.String()
	}
	return hdr
}

func requestID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
