package entity

import (
	"slices"

	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/listview"
)

// Snapshot is a read-only copy of a manager's state for rendering.
type Snapshot[T Record] struct {
	Name       string
	ReadOnly   bool
	Loading    bool
	Fault      *Fault
	Items      []T
	Table      listview.Page[T]
	Action     Action
	Target     *T
	Controls   []form.Control
	General    []string
	Submitting bool
	Busy       bool
}

func (m *Manager[T]) Snapshot() Snapshot[T] {
	m.mu.Lock()
	s := Snapshot[T]{
		Name:     m.cfg.Name,
		ReadOnly: m.cfg.ReadOnly,
		Loading:  m.loading,
		Items:    slices.Clone(m.items),
		Action:   m.action,
		Busy:     m.busy,
	}
	if m.fault != nil {
		f := *m.fault
		s.Fault = &f
	}
	if id, ok := m.action.Target(); ok {
		if i := m.indexOf(id); i >= 0 {
			rec := m.items[i]
			s.Target = &rec
		}
	}
	m.mu.Unlock()

	if s.Fault == nil {
		s.Table = m.table.View(s.Items, s.Loading)
	}
	if k := s.Action.Kind(); k == KindCreating || k == KindEditing {
		s.Controls = m.form.Controls()
		s.General = m.form.GeneralErrors()
	}
	s.Submitting = s.Busy || m.form.Submitting()
	return s
}
