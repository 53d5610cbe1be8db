package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type idKind uint8

const (
	idNone idKind = iota
	idString
	idInt
	idFloat
)

// RequestID is a JSON-RPC request id. It keeps the identity of the value the
// client sent: a string stays a string and an integral number stays an
// integer, so the response echoes the id back unchanged.
type RequestID struct {
	kind idKind
	s    string
	i    int64
	f    float64
}

// NewRequestID builds an id from a string or any Go number. Other values
// yield an empty id.
func NewRequestID(v any) *RequestID {
	switch x := v.(type) {
	case string:
		return &RequestID{kind: idString, s: x}
	case int:
		return &RequestID{kind: idInt, i: int64(x)}
	case int32:
		return &RequestID{kind: idInt, i: int64(x)}
	case int64:
		return &RequestID{kind: idInt, i: x}
	case uint32:
		return &RequestID{kind: idInt, i: int64(x)}
	case float32:
		return numericID(float64(x))
	case float64:
		return numericID(x)
	default:
		return &RequestID{}
	}
}

func numericID(f float64) *RequestID {
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return &RequestID{kind: idInt, i: int64(f)}
	}
	return &RequestID{kind: idFloat, f: f}
}

// IsNil reports whether the id is absent or null.
func (id *RequestID) IsNil() bool { return id == nil || id.kind == idNone }

// Value returns the id as string, int64 or float64, or nil when empty.
func (id *RequestID) Value() any {
	if id == nil {
		return nil
	}
	switch id.kind {
	case idString:
		return id.s
	case idInt:
		return id.i
	case idFloat:
		return id.f
	}
	return nil
}

// String renders the id for logs; empty ids render as "".
func (id *RequestID) String() string {
	if id == nil {
		return ""
	}
	switch id.kind {
	case idString:
		return id.s
	case idInt:
		return strconv.FormatInt(id.i, 10)
	case idFloat:
		return strconv.FormatFloat(id.f, 'g', -1, 64)
	}
	return ""
}

// MarshalJSON encodes an empty id as null, which is what error responses to
// unidentifiable requests carry.
func (id *RequestID) MarshalJSON() ([]byte, error) {
	if id == nil {
		return []byte("null"), nil
	}
	switch id.kind {
	case idString:
		return json.Marshal(id.s)
	case idInt:
		return strconv.AppendInt(nil, id.i, 10), nil
	case idFloat:
		return json.Marshal(id.f)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a string, a number or null.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = RequestID{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RequestID{kind: idString, s: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("JSON-RPC ID must be a string or number, got: %s", data)
	}
	if i, err := n.Int64(); err == nil {
		*id = RequestID{kind: idInt, i: i}
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("JSON-RPC ID out of range: %s", data)
	}
	*id = *numericID(f)
	return nil
}
