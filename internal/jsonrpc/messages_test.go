package jsonrpc

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantMethod   string
		wantID       any
		notification bool
		wantParams   string
	}{
		{
			name:       "full request",
			in:         `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{"cursor":"x"}}`,
			wantMethod: "tools/list",
			wantID:     int64(1),
			wantParams: `{"cursor":"x"}`,
		},
		{
			name:       "missing jsonrpc marker",
			in:         `{"method":"tools/call","params":{"name":"echo"},"id":1}`,
			wantMethod: "tools/call",
			wantID:     int64(1),
			wantParams: `{"name":"echo"}`,
		},
		{
			name:       "string id",
			in:         `{"jsonrpc":"2.0","id":"abc","method":"initialize"}`,
			wantMethod: "initialize",
			wantID:     "abc",
		},
		{
			name:         "notification without id",
			in:           `{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			wantMethod:   "notifications/initialized",
			notification: true,
		},
		{
			name:         "null id is a notification",
			in:           `{"jsonrpc":"2.0","id":null,"method":"ping"}`,
			wantMethod:   "ping",
			notification: true,
		},
		{
			name:       "null params dropped",
			in:         `{"id":7,"method":"ping","params":null}`,
			wantMethod: "ping",
			wantID:     int64(7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeRequest: %v", err)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("method: want %q, got %q", tt.wantMethod, req.Method)
			}
			if req.JSONRPCVersion != ProtocolVersion {
				t.Errorf("jsonrpc: want %q, got %q", ProtocolVersion, req.JSONRPCVersion)
			}
			if got := req.IsNotification(); got != tt.notification {
				t.Errorf("IsNotification: want %v, got %v", tt.notification, got)
			}
			if !tt.notification && req.ID.Value() != tt.wantID {
				t.Errorf("id: want %#v, got %#v", tt.wantID, req.ID.Value())
			}
			if string(req.Params) != tt.wantParams {
				t.Errorf("params: want %q, got %q", tt.wantParams, string(req.Params))
			}
		})
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantCode ErrorCode
		wantID   any
	}{
		{name: "invalid json", in: `{"method":`, wantCode: ErrorCodeParseError},
		{name: "batch", in: `[{"method":"ping","id":1}]`, wantCode: ErrorCodeInvalidRequest},
		{name: "not an object", in: `"ping"`, wantCode: ErrorCodeInvalidRequest},
		{name: "missing method", in: `{"id":3}`, wantCode: ErrorCodeInvalidRequest, wantID: int64(3)},
		{name: "empty method", in: `{"id":4,"method":""}`, wantCode: ErrorCodeInvalidRequest, wantID: int64(4)},
		{name: "wrong version", in: `{"jsonrpc":"1.0","id":"v","method":"ping"}`, wantCode: ErrorCodeInvalidRequest, wantID: "v"},
		{name: "object id", in: `{"id":{},"method":"ping"}`, wantCode: ErrorCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.in))
			if err == nil {
				t.Fatalf("expected error, got request %+v", req)
			}
			var rpcErr *Error
			if !errors.As(err, &rpcErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if rpcErr.Code != tt.wantCode {
				t.Errorf("code: want %d, got %d", tt.wantCode, rpcErr.Code)
			}
			if tt.wantID != nil {
				if req == nil || req.ID.Value() != tt.wantID {
					t.Errorf("recovered id: want %#v, got %+v", tt.wantID, req)
				}
			}
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		res, err := NewResultResponse(NewRequestID(int64(1)), map[string]any{"ok": true})
		if err != nil {
			t.Fatalf("NewResultResponse: %v", err)
		}
		b, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if want := `{"jsonrpc":"2.0","id":1,"result":{"ok":true}}`; string(b) != want {
			t.Fatalf("wire: want %s, got %s", want, b)
		}

		var back Response
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back.ID.Value() != int64(1) {
			t.Errorf("id: got %#v", back.ID.Value())
		}
		if string(back.Result) != `{"ok":true}` {
			t.Errorf("result: got %s", back.Result)
		}
		if back.Error != nil {
			t.Errorf("unexpected error member: %+v", back.Error)
		}
	})

	t.Run("error", func(t *testing.T) {
		res := NewErrorResponse(NewRequestID("req-9"), ErrorCodeMethodNotFound, "Method not found: bogus", nil)
		b, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if want := `{"jsonrpc":"2.0","id":"req-9","error":{"code":-32601,"message":"Method not found: bogus"}}`; string(b) != want {
			t.Fatalf("wire: want %s, got %s", want, b)
		}

		var back Response
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back.ID.String() != "req-9" {
			t.Errorf("id: got %q", back.ID.String())
		}
		if back.Error == nil || back.Error.Code != ErrorCodeMethodNotFound || back.Error.Message != "Method not found: bogus" {
			t.Errorf("error: got %+v", back.Error)
		}
		if len(back.Result) != 0 {
			t.Errorf("unexpected result member: %s", back.Result)
		}
	})

	t.Run("null id", func(t *testing.T) {
		b, err := json.Marshal(NewErrorResponse(nil, ErrorCodeParseError, "parse error", nil))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if want := `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"parse error"}}`; string(b) != want {
			t.Fatalf("wire: want %s, got %s", want, b)
		}
	})
}

func TestDecodeEvent(t *testing.T) {
	inner := `{"jsonrpc":"2.0","id":5,"method":"tools/list"}`

	tests := []struct {
		name string
		in   string
	}{
		{name: "string body", in: fmt.Sprintf(`{"httpMethod":"POST","body":%q}`, inner)},
		{name: "object body", in: `{"httpMethod":"POST","body":` + inner + `}`},
		{name: "bare request", in: inner},
		{name: "base64 body", in: fmt.Sprintf(`{"httpMethod":"POST","isBase64Encoded":true,"body":%q}`, base64.StdEncoding.EncodeToString([]byte(inner)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeEvent([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeEvent: %v", err)
			}
			if req.Method != "tools/list" {
				t.Errorf("method: got %q", req.Method)
			}
			if req.ID.Value() != int64(5) {
				t.Errorf("id: got %#v", req.ID.Value())
			}
		})
	}

	t.Run("invalid body json", func(t *testing.T) {
		_, err := DecodeEvent([]byte(`{"body":"{not json"}`))
		if rpcErr := AsError(err); rpcErr == nil || rpcErr.Code != ErrorCodeParseError {
			t.Fatalf("want parse error, got %v", err)
		}
	})

	t.Run("null body", func(t *testing.T) {
		_, err := DecodeEvent([]byte(`{"httpMethod":"POST","body":null}`))
		if rpcErr := AsError(err); rpcErr == nil || rpcErr.Code != ErrorCodeInvalidRequest {
			t.Fatalf("want invalid request, got %v", err)
		}
	})
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Fatal("AsError(nil) should be nil")
	}

	wrapped := fmt.Errorf("context: %w", NewError(ErrorCodeInvalidParams, "bad %s", "input"))
	if got := AsError(wrapped); got.Code != ErrorCodeInvalidParams || got.Message != "bad input" {
		t.Errorf("wrapped: got %+v", got)
	}

	if got := AsError(errors.New("boom")); got.Code != ErrorCodeInternalError || got.Message != "boom" {
		t.Errorf("plain: got %+v", got)
	}
}

func TestMarshalResponseKeepsHTML(t *testing.T) {
	res, err := NewResultResponse(NewRequestID(int64(4)), map[string]string{"text": "<a & b>"})
	if err != nil {
		t.Fatalf("NewResultResponse: %v", err)
	}
	b, err := MarshalResponse(res)
	if err != nil {
		t.Fatalf("MarshalResponse: %v", err)
	}
	want := `{"jsonrpc":"2.0","id":4,"result":{"text":"<a & b>"}}`
	if string(b) != want {
		t.Fatalf("encoding mismatch\n got: %s\nwant: %s", b, want)
	}
}

func TestRequestIDIdentity(t *testing.T) {
	tests := []struct {
		in        string
		wantValue any
		wantJSON  string
	}{
		{`"abc"`, "abc", `"abc"`},
		{`42`, int64(42), `42`},
		{`9007199254740993`, int64(9007199254740993), `9007199254740993`},
		{`3.0`, int64(3), `3`},
		{`1.5`, 1.5, `1.5`},
		{`null`, nil, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id RequestID
			if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if id.Value() != tt.wantValue {
				t.Fatalf("value: got %#v want %#v", id.Value(), tt.wantValue)
			}
			b, err := json.Marshal(&id)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tt.wantJSON {
				t.Fatalf("json: got %s want %s", b, tt.wantJSON)
			}
		})
	}

	for _, bad := range []string{`true`, `{}`, `[1]`} {
		var id RequestID
		if err := json.Unmarshal([]byte(bad), &id); err == nil {
			t.Fatalf("expected error for id %s", bad)
		}
	}

	var nilID *RequestID
	if !nilID.IsNil() || nilID.String() != "" {
		t.Fatalf("nil id should be empty")
	}
	if got := NewRequestID(7).String(); got != "7" {
		t.Fatalf("String: got %q", got)
	}
}
