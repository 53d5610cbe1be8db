package mcpservice

import (
	"encoding/json"
	"testing"
)

func TestInferParameters(t *testing.T) {
	tests := []struct {
		name   string
		params []Param
		want   string
	}{
		{
			name:   "required and defaulted",
			params: []Param{P("a", "string"), P("b", "integer", WithDefault(5))},
			want:   `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"integer"}},"required":["a"]}`,
		},
		{
			name:   "no parameters",
			params: nil,
			want:   `{}`,
		},
		{
			name:   "all defaulted keeps empty required",
			params: []Param{P("x", "float", WithDefault(1.5)), P("flag", "bool", Optional())},
			want:   `{"type":"object","properties":{"flag":{"type":"boolean"},"x":{"type":"number"}},"required":[]}`,
		},
		{
			name:   "untyped and unknown hints map to string",
			params: []Param{P("q", ""), P("opts", "dict")},
			want:   `{"type":"object","properties":{"opts":{"type":"string"},"q":{"type":"string"}},"required":["q","opts"]}`,
		},
		{
			name:   "hints are case insensitive",
			params: []Param{P("n", " Int64 ")},
			want:   `{"type":"object","properties":{"n":{"type":"integer"}},"required":["n"]}`,
		},
		{
			name:   "description carried",
			params: []Param{P("city", "str", WithParamDescription("City name"))},
			want:   `{"type":"object","properties":{"city":{"type":"string","description":"City name"}},"required":["city"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(InferParameters(tt.params))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Fatalf("schema mismatch\n got: %s\nwant: %s", b, tt.want)
			}
		})
	}
}

func TestParamRequired(t *testing.T) {
	if !P("a", "string").Required() {
		t.Fatalf("expected parameter without default to be required")
	}
	if P("a", "string", WithDefault(nil)).Required() {
		t.Fatalf("expected parameter with nil default to be optional")
	}
}
