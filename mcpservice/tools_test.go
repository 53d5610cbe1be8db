package mcpservice

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ggoodman/mcp-framework-go/mcp"
)

type echoArgs struct {
	Text string `json:"text"`
}

type greetArgs struct {
	Name     string `json:"name" jsonschema:"description=Who to greet"`
	Greeting string `json:"greeting,omitempty" jsonschema:"default=Hello"`
	Times    int    `json:"times,omitempty"`
	Shout    bool   `json:"shout,omitempty"`
}

func TestNewToolReflectsParameters(t *testing.T) {
	tool := NewTool("greet", func(ctx context.Context, a greetArgs) (any, error) { return nil, nil },
		WithToolDescription("Greets someone"))

	if tool.Name != "greet" || tool.Description != "Greets someone" {
		t.Fatalf("unexpected descriptor: %+v", tool.Descriptor())
	}
	b, err := json.Marshal(tool.Parameters)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"object","properties":{"greeting":{"type":"string"},"name":{"type":"string","description":"Who to greet"},"shout":{"type":"boolean"},"times":{"type":"integer"}},"required":["name"]}`
	if string(b) != want {
		t.Fatalf("schema mismatch\n got: %s\nwant: %s", b, want)
	}
}

func TestNewToolBindsArguments(t *testing.T) {
	var got greetArgs
	tool := NewTool("greet", func(ctx context.Context, a greetArgs) (any, error) {
		got = a
		return map[string]any{"ok": true}, nil
	})

	res, err := tool.Call(context.Background(), json.RawMessage(`{"name":"Ada","times":2}`))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !reflect.DeepEqual(res, map[string]any{"ok": true}) {
		t.Fatalf("unexpected result: %#v", res)
	}
	want := greetArgs{Name: "Ada", Greeting: "Hello", Times: 2}
	if got != want {
		t.Fatalf("bound args mismatch: got %+v want %+v", got, want)
	}
}

func TestNewToolArgumentErrors(t *testing.T) {
	tool := NewTool("echo", func(ctx context.Context, a echoArgs) (any, error) {
		return map[string]any{"echo": a.Text}, nil
	})
	cases := map[string]string{
		"missing":    `{}`,
		"wrong type": `{"text":5}`,
		"unknown":    `{"text":"hi","loud":true}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tool.Call(context.Background(), json.RawMessage(raw))
			var ae *ArgumentError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *ArgumentError, got %v", err)
			}
		})
	}

	lenient := NewTool("echo", func(ctx context.Context, a echoArgs) (any, error) {
		return a.Text, nil
	}, WithToolAllowAdditionalArguments(true))
	res, err := lenient.Call(context.Background(), json.RawMessage(`{"text":"hi","loud":true}`))
	if err != nil || res != "hi" {
		t.Fatalf("lenient call: res=%v err=%v", res, err)
	}
}

func TestNewToolRejectsOutOfRangeIntegers(t *testing.T) {
	called := false
	tool := NewTool("greet", func(ctx context.Context, a greetArgs) (any, error) {
		called = true
		return a.Times, nil
	})
	for _, raw := range []string{
		`{"name":"Ada","times":1e300}`,
		`{"name":"Ada","times":9223372036854775808}`,
		`{"name":"Ada","times":-1e19}`,
	} {
		_, err := tool.Call(context.Background(), json.RawMessage(raw))
		var ae *ArgumentError
		if !errors.As(err, &ae) || ae.Param != "times" {
			t.Fatalf("%s: expected *ArgumentError for times, got %v", raw, err)
		}
	}
	if called {
		t.Fatalf("handler must not run when binding fails")
	}
}

func TestNewToolNonStructArguments(t *testing.T) {
	tool := NewTool("sum", func(ctx context.Context, a map[string]float64) (any, error) {
		total := 0.0
		for _, v := range a {
			total += v
		}
		return total, nil
	})
	if !tool.Parameters.IsEmpty() {
		t.Fatalf("expected empty schema, got %+v", tool.Parameters)
	}
	res, err := tool.Call(context.Background(), json.RawMessage(`{"a":1,"b":2.5}`))
	if err != nil || res != 3.5 {
		t.Fatalf("call: res=%v err=%v", res, err)
	}
}

func TestNewFuncTool(t *testing.T) {
	tool := NewFuncTool("add",
		[]Param{P("a", "int"), P("b", "int", WithDefault(5))},
		func(ctx context.Context, args Arguments) (any, error) {
			return args.Int("a") + args.Int("b"), nil
		},
		WithToolDescription("Add two integers"),
	)
	b, _ := json.Marshal(tool.Descriptor())
	want := `{"name":"add","description":"Add two integers","parameters":{"type":"object","properties":{"a":{"type":"integer"},"b":{"type":"integer"}},"required":["a"]}}`
	if string(b) != want {
		t.Fatalf("descriptor mismatch\n got: %s\nwant: %s", b, want)
	}

	res, err := tool.Call(context.Background(), json.RawMessage(`{"a":2}`))
	if err != nil || res != int64(7) {
		t.Fatalf("call: res=%v err=%v", res, err)
	}
}

func TestWithParametersWins(t *testing.T) {
	explicit := mcp.ParameterSchema{
		Type:       "object",
		Properties: map[string]mcp.SchemaProperty{"text": {Type: "string", Description: "Text to echo"}},
		Required:   []string{"text"},
	}
	tool := NewTool("echo", func(ctx context.Context, a echoArgs) (any, error) { return a.Text, nil }, WithParameters(explicit))
	if !reflect.DeepEqual(tool.Parameters, explicit) {
		t.Fatalf("expected explicit schema, got %+v", tool.Parameters)
	}
}

func TestWithParametersNestedSchema(t *testing.T) {
	closed := false
	explicit := mcp.ParameterSchema{
		Type: "object",
		Properties: map[string]mcp.SchemaProperty{
			"unit": {Type: "string", Default: "celsius", Enum: []any{"celsius", "fahrenheit"}},
			"tags": {Type: "array", Items: &mcp.SchemaProperty{Type: "string"}},
			"where": {Type: "object", Properties: map[string]mcp.SchemaProperty{
				"city": {Type: "string", Description: "City name"},
			}},
		},
		Required:             []string{"where"},
		AdditionalProperties: &closed,
	}
	tool := NewFuncTool("forecast",
		[]Param{P("where", "object"), P("unit", "str", WithDefault("celsius")), P("tags", "list", Optional())},
		func(ctx context.Context, args Arguments) (any, error) { return args.String("unit"), nil },
		WithParameters(explicit))

	if tool.Parameters.IsEmpty() {
		t.Fatalf("explicit schema reported empty")
	}
	b, err := json.Marshal(tool.Descriptor().Parameters)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"object","properties":{"tags":{"type":"array","items":{"type":"string"}},"unit":{"type":"string","default":"celsius","enum":["celsius","fahrenheit"]},"where":{"type":"object","properties":{"city":{"type":"string","description":"City name"}}}},"required":["where"],"additionalProperties":false}`
	if string(b) != want {
		t.Fatalf("schema mismatch\n got: %s\nwant: %s", b, want)
	}

	res, err := tool.Call(context.Background(), json.RawMessage(`{"where":{"city":"Oslo"}}`))
	if err != nil || res != "celsius" {
		t.Fatalf("call: res=%v err=%v", res, err)
	}
}

func TestDefinitionsWithoutHandler(t *testing.T) {
	if _, err := (ToolDefinition{Name: "x"}).Call(context.Background(), nil); err == nil {
		t.Fatalf("expected error for tool without handler")
	}
	if _, err := (ResourceDefinition{URI: "x://"}).Read(context.Background()); err == nil {
		t.Fatalf("expected error for resource without handler")
	}
	if _, err := (PromptDefinition{Name: "x"}).Render(context.Background(), nil); err == nil {
		t.Fatalf("expected error for prompt without handler")
	}
}

func TestPromptRenderNilContext(t *testing.T) {
	p := NewPrompt("p", "d", func(ctx context.Context, pctx map[string]any) (string, error) {
		if pctx == nil {
			return "", errors.New("nil context")
		}
		return "ok", nil
	})
	if out, err := p.Render(context.Background(), nil); err != nil || out != "ok" {
		t.Fatalf("render: out=%q err=%v", out, err)
	}
}
