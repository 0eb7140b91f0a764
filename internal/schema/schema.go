// Package schema describes entity fields once and derives from that
// description the JSON Schema used for validation, the coercion of submitted
// form values and the defaults of a new draft.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is one entry of an ordered field schema.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	// MinLength and MaxLength apply to text; zero means unbounded.
	MinLength int
	MaxLength int
	// Minimum and Maximum apply to numbers; nil means unbounded.
	Minimum *float64
	Maximum *float64
	Integer bool
	Options []Option
	Default any
	// Immutable fields are rendered read-only when editing an existing record.
	Immutable bool
	// Secret inputs are never echoed back.
	Secret      bool
	Placeholder string
	Description string
}

// Bound is a helper for Minimum/Maximum literals.
func Bound(v float64) *float64 { return &v }

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Errors maps a field name to its human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid: " + strings.Join(parts, "; ")
}

func (e Errors) set(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Schema is an ordered, compiled list of fields.
type Schema struct {
	fields   []Field
	index    map[string]int
	compiled *gojsonschema.Schema
}

func New(fields ...Field) (*Schema, error) {
	s := &Schema{fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d has no name", i)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		switch f.Kind {
		case KindText, KindNumber, KindBoolean:
		case KindEnum:
			if len(f.Options) == 0 {
				return nil, fmt.Errorf("schema: enum field %q has no options", f.Name)
			}
		default:
			return nil, fmt.Errorf("schema: field %q has unknown kind %q", f.Name, f.Kind)
		}
		s.index[f.Name] = i
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.JSONSchema()))
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}
	s.compiled = compiled
	return s, nil
}

func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// JSONSchema renders the draft-07 document for the record object.
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.fields))
	required := []any{}
	for _, f := range s.fields {
		p := map[string]any{"title": f.label()}
		switch f.Kind {
		case KindText:
			p["type"] = "string"
			if f.MinLength > 0 {
				p["minLength"] = f.MinLength
			}
			if f.MaxLength > 0 {
				p["maxLength"] = f.MaxLength
			}
		case KindNumber:
			p["type"] = "number"
			if f.Integer {
				p["type"] = "integer"
			}
			if f.Minimum != nil {
				p["minimum"] = *f.Minimum
			}
			if f.Maximum != nil {
				p["maximum"] = *f.Maximum
			}
		case KindBoolean:
			p["type"] = "boolean"
		case KindEnum:
			vals := make([]any, 0, len(f.Options))
			for _, o := range f.Options {
				vals = append(vals, o.Value)
			}
			p["type"] = "string"
			p["enum"] = vals
		}
		props[f.Name] = p
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Defaults returns the values of a fresh draft.
func (s *Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if f.Default != nil {
			out[f.Name] = f.Default
			continue
		}
		if f.Kind == KindBoolean {
			out[f.Name] = false
		}
	}
	return out
}

// Validate checks doc against every rule and returns one message per failing
// field, or nil when doc is valid.
func (s *Schema) Validate(doc map[string]any) Errors {
	if doc == nil {
		doc = map[string]any{}
	}
	res, err := s.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Errors{"": err.Error()}
	}
	if res.Valid() {
		return nil
	}
	errs := Errors{}
	for _, re := range res.Errors() {
		name := re.Field()
		if re.Type() == "required" {
			if p, ok := re.Details()["property"].(string); ok {
				name = p
			}
		}
		f, ok := s.Field(name)
		if !ok {
			errs.set(name, re.Description())
			continue
		}
		errs.set(name, message(f, re.Type()))
	}
	return errs
}

// ValidateRecord validates a typed record through its JSON form.
func (s *Schema) ValidateRecord(v any) Errors {
	doc, err := ToMap(v)
	if err != nil {
		return Errors{"": err.Error()}
	}
	return s.Validate(doc)
}

func message(f Field, rule string) string {
	l := f.label()
	switch rule {
	case "required":
		return l + " is required"
	case "string_gte":
		return fmt.Sprintf("%s must contain at least %d character(s)", l, f.MinLength)
	case "string_lte":
		return fmt.Sprintf("%s must contain at most %d character(s)", l, f.MaxLength)
	case "number_gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", l, formatNumber(*f.Minimum))
	case "number_lte":
		return fmt.Sprintf("%s must be less than or equal to %s", l, formatNumber(*f.Maximum))
	case "enum":
		return l + " must be one of " + strings.Join(optionValues(f), ", ")
	case "out_of_range":
		return l + " must be a whole number within range"
	case "invalid_type":
		switch f.Kind {
		case KindNumber:
			if f.Integer {
				return l + " must be a whole number"
			}
			return l + " must be a number"
		case KindBoolean:
			return l + " must be true or false"
		default:
			return l + " must be text"
		}
	default:
		return l + " is invalid"
	}
}

func optionValues(f Field) []string {
	out := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		out = append(out, o.Value)
	}
	return out
}

// ToMap converts a record into its JSON object form.
func ToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// BindErrors maps a FromMap failure onto the field it came from. Failures
// that name no known field are reported under the empty key.
func (s *Schema) BindErrors(err error) Errors {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		if f, ok := s.Field(te.Field); ok {
			rule := "invalid_type"
			if f.Kind == KindNumber && strings.HasPrefix(te.Value, "number") {
				rule = "out_of_range"
			}
			return Errors{f.Name: message(f, rule)}
		}
	}
	return Errors{"": err.Error()}
}

// FromMap converts a validated document into a typed record.
func FromMap[T any](doc map[string]any) (T, error) {
	var out T
	b, err := json.Marshal(doc)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}
