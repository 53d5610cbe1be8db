package mcpservice

import (
	"strings"

	"github.com/ggoodman/mcp-framework-go/mcp"
)

// Schema types a parameter can be advertised with.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Param declares one named tool parameter.
//
// Type is a free-form type hint ("string", "int", "float64", "bool", ...).
// Hints that do not name a string, integer, number or boolean type are
// advertised as "string" and are not type-checked when arguments are bound.
type Param struct {
	Name        string
	Type        string
	Description string
	Default     any
	HasDefault  bool
}

// ParamOption configures a Param.
type ParamOption func(*Param)

// WithDefault marks the parameter optional and supplies the value bound when
// the caller omits it.
func WithDefault(v any) ParamOption {
	return func(p *Param) {
		p.Default = v
		p.HasDefault = true
	}
}

// Optional marks the parameter optional without a default value.
func Optional() ParamOption {
	return func(p *Param) { p.HasDefault = true }
}

// WithParamDescription documents the parameter in the generated schema.
func WithParamDescription(desc string) ParamOption {
	return func(p *Param) { p.Description = desc }
}

// P declares a parameter.
func P(name, typ string, opts ...ParamOption) Param {
	p := Param{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Required reports whether callers must supply the parameter.
func (p Param) Required() bool { return !p.HasDefault }

// SchemaType maps the parameter's type hint onto a schema type.
func (p Param) SchemaType() string {
	if t, ok := lookupType(p.Type); ok {
		return t
	}
	return TypeString
}

var typeHints = map[string]string{
	"string": TypeString,
	"str":    TypeString,

	"integer": TypeInteger,
	"int":     TypeInteger,
	"int8":    TypeInteger,
	"int16":   TypeInteger,
	"int32":   TypeInteger,
	"int64":   TypeInteger,
	"uint":    TypeInteger,
	"uint8":   TypeInteger,
	"uint16":  TypeInteger,
	"uint32":  TypeInteger,
	"uint64":  TypeInteger,

	"number":  TypeNumber,
	"float":   TypeNumber,
	"float32": TypeNumber,
	"float64": TypeNumber,
	"double":  TypeNumber,

	"boolean": TypeBoolean,
	"bool":    TypeBoolean,
}

// lookupType resolves a type hint. ok is false for empty or unknown hints.
func lookupType(hint string) (string, bool) {
	t, ok := typeHints[strings.ToLower(strings.TrimSpace(hint))]
	return t, ok
}

// InferParameters builds the parameter schema advertised for a tool from its
// declared parameters. A parameter is required iff it has no default. A tool
// without parameters gets the empty schema, which encodes as {}.
func InferParameters(params []Param) mcp.ParameterSchema {
	if len(params) == 0 {
		return mcp.ParameterSchema{}
	}
	props := make(map[string]mcp.SchemaProperty, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		props[p.Name] = mcp.SchemaProperty{Type: p.SchemaType(), Description: p.Description}
		if p.Required() {
			required = append(required, p.Name)
		}
	}
	return mcp.ParameterSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
