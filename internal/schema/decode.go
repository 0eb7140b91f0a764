package schema

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Decode coerces submitted form values into a document keyed by field name.
// Numbers are parsed from text, checkboxes are true when present, empty
// optional inputs are left out. Fields that cannot be coerced are reported
// and omitted from the document.
func (s *Schema) Decode(values url.Values) (map[string]any, Errors) {
	doc := make(map[string]any, len(s.fields))
	errs := Errors{}
	for _, f := range s.fields {
		raw, present := values[f.Name]
		v := ""
		if len(raw) > 0 {
			v = raw[len(raw)-1]
		}
		switch f.Kind {
		case KindBoolean:
			doc[f.Name] = present && checked(v)
		case KindNumber:
			t := strings.TrimSpace(v)
			if t == "" {
				if f.Required {
					errs.set(f.Name, message(f, "required"))
				}
				continue
			}
			if f.Integer {
				n, rule := parseInteger(t)
				if rule != "" {
					errs.set(f.Name, message(f, rule))
					continue
				}
				doc[f.Name] = n
				continue
			}
			n, err := strconv.ParseFloat(t, 64)
			if err != nil {
				errs.set(f.Name, message(f, "invalid_type"))
				continue
			}
			doc[f.Name] = n
		case KindEnum:
			if v == "" {
				if f.Required {
					errs.set(f.Name, message(f, "required"))
				}
				continue
			}
			doc[f.Name] = v
		default:
			if !present && !f.Required {
				continue
			}
			doc[f.Name] = v
		}
	}
	if len(errs) == 0 {
		return doc, nil
	}
	return doc, errs
}

// Check decodes and validates in one pass; coercion errors win over rule errors.
func (s *Schema) Check(values url.Values) (map[string]any, Errors) {
	doc, errs := s.Decode(values)
	if verrs := s.Validate(doc); verrs != nil {
		if errs == nil {
			errs = Errors{}
		}
		for k, v := range verrs {
			errs.set(k, v)
		}
	}
	if len(errs) == 0 {
		return doc, nil
	}
	return doc, errs
}

// parseInteger reads a whole number that fits a Go int. Exponent forms such
// as "1e3" are accepted when they are exact.
func parseInteger(t string) (int64, string) {
	n, err := strconv.ParseInt(t, 10, strconv.IntSize)
	if err == nil {
		return n, ""
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, "out_of_range"
	}
	x, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
		return 0, "invalid_type"
	}
	if math.Abs(x) > maxExact {
		return 0, "out_of_range"
	}
	return int64(x), ""
}

// maxExact is the largest magnitude a float64 holds without rounding.
const maxExact = 1 << 53

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "on", "true", "1", "yes":
		return true
	}
	return false
}

// Format renders a document value back into form input text.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
