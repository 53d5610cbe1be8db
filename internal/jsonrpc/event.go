package jsonrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
)

// DecodeEvent extracts a request from a gateway event envelope.
//
// Gateways deliver the request either wrapped or bare:
//   - {"body": "<json text>"}: body is parsed as the request. If the event
//     also sets "isBase64Encoded": true the body is base64-decoded first.
//   - {"body": {...}}: body is the request object itself.
//   - {...}: no body member, the event is the request.
func DecodeEvent(data []byte) (*Request, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, NewError(ErrorCodeParseError, "parse error: invalid JSON")
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil || env == nil {
		// Not an envelope; let DecodeRequest produce the precise error.
		return DecodeRequest(data)
	}

	body, ok := env["body"]
	if !ok {
		return DecodeRequest(data)
	}
	if isNull(body) {
		return nil, NewError(ErrorCodeInvalidRequest, "event body is empty")
	}

	var text string
	if err := json.Unmarshal(body, &text); err != nil {
		// Structured body.
		return DecodeRequest(body)
	}

	payload := []byte(text)
	if isBase64Encoded(env) {
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, NewError(ErrorCodeParseError, "parse error: invalid base64 body: %v", err)
		}
		payload = decoded
	}
	return DecodeBody(payload)
}

// DecodeBody decodes a raw HTTP body. An empty body is an invalid request
// rather than a parse error since there is nothing to parse.
func DecodeBody(body []byte) (*Request, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, NewError(ErrorCodeInvalidRequest, "event body is empty")
	}
	return DecodeRequest(body)
}

func isBase64Encoded(env map[string]json.RawMessage) bool {
	raw, ok := env["isBase64Encoded"]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}
