package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/elnormous/contenttype"
	"github.com/ggoodman/mcp-framework-go/internal/jsonrpc"
	"github.com/ggoodman/mcp-framework-go/internal/logctx"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// ServeHTTP exposes the handler on a plain net/http server. It accepts POST
// requests carrying a JSON body and OPTIONS preflights; other methods get 405
// and non-JSON content types get 415. A request without a Content-Type header
// is read as JSON.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := logctx.WithRequestData(r.Context(), &logctx.RequestData{
		RequestID:  requestID(r.Header.Get("X-Request-Id")),
		Transport:  "http",
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})

	switch r.Method {
	case http.MethodOptions:
		h.log.InfoContext(ctx, "gateway.preflight")
		writeHeaders(w, h.headers(false))
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", allowMethods)
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		h.log.InfoContext(ctx, "gateway.method.unsupported")
		return
	}

	if r.Header.Get("Content-Type") != "" {
		ctype, err := contenttype.GetMediaType(r)
		if err != nil || !ctype.Matches(jsonMediaType) {
			writeJSONError(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
			h.log.WarnContext(ctx, "gateway.content_type.unsupported")
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			h.log.WarnContext(ctx, "gateway.body.too_large", slog.Int64("limit", tooLarge.Limit))
			return
		}
		writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		h.log.WarnContext(ctx, "gateway.body.read_fail", slog.String("err", err.Error()))
		return
	}

	req, err := jsonrpc.DecodeBody(body)
	resp := h.respond(ctx, req, err)
	writeHeaders(w, resp.Headers)
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = io.WriteString(w, resp.Body)
	}
}

func writeHeaders(w http.ResponseWriter, hdr map[string]string) {
	for k, v := range hdr {
		w.Header().Set(k, v)
	}
}

// writeJSONError emits a transport-level rejection before any JSON-RPC
// exchange is possible. Shape: {"error":{"code":<httpStatus>,"message":"<reason>"}}
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": msg}})
}
