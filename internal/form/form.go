// Package form binds a draft record to a field schema and runs the submit
// workflow: validate, call the handler, surface field or general failures.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/clock"
	"github.com/lightgame/panel/internal/schema"
)

// MinVisible is how long the submitting state stays on after a submit starts.
const MinVisible = 500 * time.Millisecond

var (
	// ErrInvalid is returned when the draft failed validation locally or was
	// rejected field by field by the server. The messages are on the form.
	ErrInvalid = errors.New("form: invalid draft")
	// ErrInFlight is returned when a submit is attempted while another is running.
	ErrInFlight = errors.New("form: submit already in flight")
)

// Handler receives the validated draft.
type Handler[T any] func(ctx context.Context, draft T) error

type options struct {
	clock      clock.Clock
	minVisible time.Duration
}

type Option func(*options)

func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

func WithMinVisible(d time.Duration) Option { return func(o *options) { o.minVisible = d } }

type Form[T any] struct {
	schema *schema.Schema
	opts   options

	mu        sync.Mutex
	draft     T
	values    map[string]any
	raw       url.Values
	errs      schema.Errors
	editing   bool
	inFlight  bool
	startedAt time.Time
}

func New[T any](s *schema.Schema, opts ...Option) *Form[T] {
	o := options{clock: clock.Real(), minVisible: MinVisible}
	for _, fn := range opts {
		fn(&o)
	}
	f := &Form[T]{schema: s, opts: o}
	f.ResetDefaults()
	return f
}

func (f *Form[T]) Schema() *schema.Schema { return f.schema }

// ResetDefaults loads a fresh draft built from the schema defaults.
func (f *Form[T]) ResetDefaults() {
	doc := f.schema.Defaults()
	draft, _ := schema.FromMap[T](doc)
	f.mu.Lock()
	f.draft = draft
	f.values = doc
	f.raw = nil
	f.errs = nil
	f.editing = false
	f.mu.Unlock()
}

// Reset starts a new draft from the given values.
func (f *Form[T]) Reset(draft T) error {
	if err := f.Load(draft); err != nil {
		return err
	}
	f.mu.Lock()
	f.editing = false
	f.mu.Unlock()
	return nil
}

// Load pre-populates the form with an existing record for editing.
func (f *Form[T]) Load(record T) error {
	doc, err := schema.ToMap(record)
	if err != nil {
		return fmt.Errorf("form: load: %w", err)
	}
	f.mu.Lock()
	f.draft = record
	f.values = doc
	f.raw = nil
	f.errs = nil
	f.editing = true
	f.mu.Unlock()
	return nil
}

func (f *Form[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form[T]) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editing
}

// Errors returns a copy of the current per-field messages.
func (f *Form[T]) Errors() schema.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) == 0 {
		return nil
	}
	out := make(schema.Errors, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// SetErrors replaces the per-field messages.
func (f *Form[T]) SetErrors(errs map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = schema.Errors{}
	for k, v := range errs {
		f.errs[k] = v
	}
}

// Submitting reports whether the submit control should be disabled at now.
func (f *Form[T]) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return true
	}
	if f.startedAt.IsZero() {
		return false
	}
	return f.opts.clock.Now().Before(f.startedAt.Add(f.opts.minVisible))
}

// Submit validates values and, only when every rule passes, calls h with the
// typed draft. A nil return means the caller should close the dialog.
func (f *Form[T]) Submit(ctx context.Context, values url.Values, h Handler[T]) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrInFlight
	}
	doc, errs := f.schema.Decode(values)
	if f.editing {
		f.keepImmutable(doc)
		for name := range f.immutable() {
			delete(errs, name)
		}
	}
	errs = mergeErrors(errs, f.schema.Validate(doc))
	f.values = doc
	f.raw = values
	if errs != nil {
		f.errs = errs
		f.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrInvalid, errs)
	}
	draft, err := schema.FromMap[T](doc)
	if err != nil {
		f.errs = f.schema.BindErrors(err)
		f.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrInvalid, f.errs)
	}
	f.draft = draft
	f.errs = nil
	f.inFlight = true
	f.startedAt = f.opts.clock.Now()
	f.mu.Unlock()

	herr := h(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if herr == nil {
		return nil
	}
	if fields, ok := apiclient.FieldErrors(herr); ok {
		f.errs = schema.Errors{}
		for k, v := range fields {
			f.errs[k] = v
		}
		return fmt.Errorf("%w: %v", ErrInvalid, herr)
	}
	return herr
}

// keepImmutable restores read-only fields from the loaded record.
func (f *Form[T]) keepImmutable(doc map[string]any) {
	orig, err := schema.ToMap(f.draft)
	if err != nil {
		return
	}
	for _, fl := range f.schema.Fields() {
		if fl.Immutable {
			if v, ok := orig[fl.Name]; ok {
				doc[fl.Name] = v
			} else {
				delete(doc, fl.Name)
			}
		}
	}
}

func (f *Form[T]) immutable() map[string]bool {
	out := map[string]bool{}
	for _, fl := range f.schema.Fields() {
		if fl.Immutable {
			out[fl.Name] = true
		}
	}
	return out
}

// mergeErrors keeps the first message seen per field.
func mergeErrors(first, second schema.Errors) schema.Errors {
	out := schema.Errors{}
	for k, v := range first {
		out[k] = v
	}
	for k, v := range second {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// GeneralErrors returns messages keyed by names the schema does not know.
func (f *Form[T]) GeneralErrors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.errs {
		if _, ok := f.schema.Field(k); !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			out = append(out, f.errs[k])
			continue
		}
		out = append(out, k+": "+f.errs[k])
	}
	return out
}
