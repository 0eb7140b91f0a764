package entity

import "fmt"

type ActionKind int

const (
	KindIdle ActionKind = iota
	KindCreating
	KindEditing
	KindDeleting
)

func (k ActionKind) String() string {
	switch k {
	case KindCreating:
		return "creating"
	case KindEditing:
		return "editing"
	case KindDeleting:
		return "deleting"
	default:
		return "idle"
	}
}

// Action is the open dialog of a manager. Editing and Deleting always carry
// the target id; Idle and Creating never do.
type Action struct {
	kind ActionKind
	id   int
}

// Idle is the state with no dialog open.
func Idle() Action { return Action{} }

// Creating opens the create dialog.
func Creating() Action { return Action{kind: KindCreating} }

// Editing opens the edit dialog for record id.
func Editing(id int) Action { return Action{kind: KindEditing, id: id} }

// Deleting opens the delete confirmation for record id.
func Deleting(id int) Action { return Action{kind: KindDeleting, id: id} }

func (a Action) Kind() ActionKind { return a.kind }

// Target returns the record id for Editing and Deleting.
func (a Action) Target() (int, bool) {
	switch a.kind {
	case KindEditing, KindDeleting:
		return a.id, true
	}
	return 0, false
}

// Open reports whether a dialog is shown.
func (a Action) Open() bool { return a.kind != KindIdle }

func (a Action) String() string {
	if id, ok := a.Target(); ok {
		return fmt.Sprintf("%s(%d)", a.kind, id)
	}
	return a.kind.String()
}
