package mcpservice

import (
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"
)

// reflectParams derives a parameter list from the exported fields of struct A.
// isStruct is false when A is not a struct (or pointer to one); such tools
// decode their arguments directly into A and advertise no parameters.
func reflectParams[A any]() (params []Param, isStruct bool) {
	t := reflect.TypeFor[A]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, false
	}

	r := &jsonschema.Reflector{
		DoNotReference:            true, // inline defs
		ExpandedStruct:            true, // put struct at root
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(new(A))
	if s == nil || s.Properties == nil {
		return nil, true
	}

	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, pair.Value
		p := Param{Name: name}
		if prop != nil {
			p.Type = prop.Type
			p.Description = prop.Description
			if prop.Default != nil {
				p.Default = prop.Default
				p.HasDefault = true
			}
		}
		if !slices.Contains(s.Required, name) {
			p.HasDefault = true
		}
		params = append(params, p)
	}
	return params, true
}
