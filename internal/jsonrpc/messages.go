package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the supported JSON-RPC protocol version.
const ProtocolVersion = "2.0"

// Request represents a JSON-RPC request (with an ID) or notification (without ID).
type Request struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Method         string          `json:"method"`
	Params         json.RawMessage `json:"params,omitempty"`
	ID             *RequestID      `json:"id,omitempty"`
}

// IsNotification reports whether the request carries no ID. Notifications are
// dispatched like any other request but never answered.
func (r *Request) IsNotification() bool {
	return r.ID.IsNil()
}

// Type returns "request" or "notification".
func (r *Request) Type() string {
	if r.IsNotification() {
		return "notification"
	}
	return "request"
}

// Response represents a JSON-RPC response. Exactly one of Result or Error is set.
type Response struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	ID             *RequestID      `json:"id"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
}

// NewResultResponse builds a successful JSON-RPC response object. The result
// is encoded without HTML escaping.
func NewResultResponse(id *RequestID, result any) (*Response, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &Response{
		JSONRPCVersion: ProtocolVersion,
		Result:         bytes.TrimRight(buf.Bytes(), "\n"),
		ID:             id,
	}, nil
}

// NewErrorResponse builds an error JSON-RPC response with the given code.
func NewErrorResponse(id *RequestID, code ErrorCode, message string, data any) *Response {
	return &Response{
		JSONRPCVersion: ProtocolVersion,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	}
}

// DecodeRequest parses a single JSON-RPC request object.
//
// The "jsonrpc" member is optional on input and defaults to ProtocolVersion;
// when present it must match. An absent or null "id" yields a notification.
//
// On failure the returned error is a *Error (parse error for malformed JSON,
// invalid request for structural problems). When the payload was a JSON object
// the returned Request is non-nil and carries whatever ID could be recovered so
// callers can still address an error response.
func DecodeRequest(data []byte) (*Request, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, NewError(ErrorCodeParseError, "parse error: invalid JSON")
	}
	if len(data) > 0 && data[0] == '[' {
		return nil, NewError(ErrorCodeInvalidRequest, "batch requests are not supported")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, NewError(ErrorCodeInvalidRequest, "request must be a JSON object")
	}

	req := &Request{JSONRPCVersion: ProtocolVersion}

	if raw, ok := fields["id"]; ok && !isNull(raw) {
		var id RequestID
		if err := json.Unmarshal(raw, &id); err != nil {
			return req, NewError(ErrorCodeInvalidRequest, "invalid request id: %v", err)
		}
		req.ID = &id
	}

	if raw, ok := fields["jsonrpc"]; ok {
		var version string
		if err := json.Unmarshal(raw, &version); err != nil || version != ProtocolVersion {
			return req, NewError(ErrorCodeInvalidRequest, "invalid JSON-RPC version: expected %q, got %s", ProtocolVersion, string(raw))
		}
	}

	raw, ok := fields["method"]
	if !ok {
		return req, NewError(ErrorCodeInvalidRequest, "missing method")
	}
	if err := json.Unmarshal(raw, &req.Method); err != nil || req.Method == "" {
		return req, NewError(ErrorCodeInvalidRequest, "method must be a non-empty string")
	}

	if raw, ok := fields["params"]; ok && !isNull(raw) {
		req.Params = raw
	}

	return req, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// MarshalResponse encodes resp without HTML escaping and without a trailing
// newline.
func MarshalResponse(resp *Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
