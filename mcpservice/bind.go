package mcpservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
)

// ArgumentError reports a tools/call arguments object that could not be bound
// to a tool's declared parameters. The engine maps it to InvalidParams.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Param == "" {
		return e.Reason
	}
	return fmt.Sprintf("argument %q: %s", e.Param, e.Reason)
}

// Arguments is a bound arguments object. Numbers are normalized to int64 when
// integral and float64 otherwise; defaults have been applied for omitted
// optional parameters.
type Arguments map[string]any

// Has reports whether the argument is present after binding.
func (a Arguments) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Value returns the raw bound value or nil.
func (a Arguments) Value(name string) any { return a[name] }

// String returns the argument as a string. Non-string values are formatted
// with fmt.
func (a Arguments) String(name string) string {
	switch v := a[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the argument as an int64, truncating floats.
func (a Arguments) Int(name string) int64 {
	switch v := a[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Float returns the argument as a float64.
func (a Arguments) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the argument as a bool.
func (a Arguments) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// bindArguments validates raw against params and returns the bound arguments.
// An absent, null or empty arguments value binds as an empty object. A JSON
// null for a parameter is treated as if the parameter had been omitted.
func bindArguments(params []Param, raw json.RawMessage, allowUnknown bool) (Arguments, error) {
	in := map[string]any{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&in); err != nil {
			return nil, &ArgumentError{Reason: "arguments must be a JSON object"}
		}
	}

	if !allowUnknown {
		var unknown []string
		for k := range in {
			if !slices.ContainsFunc(params, func(p Param) bool { return p.Name == k }) {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, &ArgumentError{Param: unknown[0], Reason: "unexpected argument"}
		}
	}

	out := make(Arguments, len(in))
	for k, v := range in {
		out[k] = normalize(v)
	}
	for _, p := range params {
		v, ok := out[p.Name]
		if !ok || v == nil {
			delete(out, p.Name)
			if !p.HasDefault {
				return nil, &ArgumentError{Param: p.Name, Reason: "missing required argument"}
			}
			if p.Default != nil {
				out[p.Name] = normalize(p.Default)
			}
			continue
		}
		cv, err := coerce(p, v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = cv
	}
	return out, nil
}

// coerce checks v against the parameter's declared type. Undeclared or
// unrecognised types accept any value.
func coerce(p Param, v any) (any, error) {
	t, ok := lookupType(p.Type)
	if !ok {
		return v, nil
	}
	mismatch := func() error {
		return &ArgumentError{Param: p.Name, Reason: fmt.Sprintf("expected %s, got %s", t, jsonKind(v))}
	}
	switch t {
	case TypeString:
		if _, ok := v.(string); !ok {
			return nil, mismatch()
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return nil, mismatch()
		}
	case TypeInteger:
		switch n := v.(type) {
		case int64:
		case float64:
			if n != math.Trunc(n) || math.IsInf(n, 0) {
				return nil, mismatch()
			}
			if n < -(1<<63) || n >= 1<<63 {
				return nil, &ArgumentError{Param: p.Name, Reason: "expected integer, value out of range"}
			}
			return int64(n), nil
		default:
			return nil, mismatch()
		}
	case TypeNumber:
		switch n := v.(type) {
		case int64:
			return float64(n), nil
		case float64:
		default:
			return nil, mismatch()
		}
	}
	return v, nil
}

// normalize replaces json.Number values, recursively, with int64 or float64.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case int:
		return int64(x)
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
