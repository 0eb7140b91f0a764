package form

import (
	"github.com/lightgame/panel/internal/schema"
)

// Control describes one rendered input.
type Control struct {
	Name        string
	Label       string
	Type        string // text, password, number, checkbox or select
	Value       string
	Checked     bool
	Error       string
	Required    bool
	ReadOnly    bool
	Step        string
	Min         string
	Max         string
	MinLength   int
	MaxLength   int
	Placeholder string
	Description string
	Options     []schema.Option
}

// Controls returns one control per schema field, in schema order, bound to
// the current draft values and errors.
func (f *Form[T]) Controls() []Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields := f.schema.Fields()
	out := make([]Control, 0, len(fields))
	for _, fl := range fields {
		c := Control{
			Name:        fl.Name,
			Label:       fl.Label,
			Required:    fl.Required,
			ReadOnly:    f.editing && fl.Immutable,
			Error:       f.errs[fl.Name],
			MinLength:   fl.MinLength,
			MaxLength:   fl.MaxLength,
			Placeholder: fl.Placeholder,
			Description: fl.Description,
		}
		if c.Label == "" {
			c.Label = fl.Name
		}
		v := f.values[fl.Name]
		text := schema.Format(v)
		if raw, ok := f.raw[fl.Name]; ok && len(raw) > 0 && !c.ReadOnly {
			text = raw[len(raw)-1]
		}
		switch fl.Kind {
		case schema.KindBoolean:
			c.Type = "checkbox"
			b, _ := v.(bool)
			c.Checked = b
		case schema.KindNumber:
			c.Type = "number"
			c.Value = text
			c.Step = "any"
			if fl.Integer {
				c.Step = "1"
			}
			if fl.Minimum != nil {
				c.Min = schema.Format(*fl.Minimum)
			}
			if fl.Maximum != nil {
				c.Max = schema.Format(*fl.Maximum)
			}
		case schema.KindEnum:
			c.Type = "select"
			c.Value = text
			c.Options = fl.Options
		default:
			c.Type = "text"
			c.Value = text
			if fl.Secret {
				c.Type = "password"
				c.Value = ""
			}
		}
		out = append(out, c)
	}
	return out
}
