// tasks/ui/state.go
package ui

import "github.com/vinizap/lumi/tasks/domain"

type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
	DialogConfirmDiscard
	DialogConfirmDelete
)

func (d DialogState) String() string {
	switch d {
	case DialogClosed:
		return "closed"
	case DialogOpen:
		return "open"
	case DialogConfirmDiscard:
		return "confirm-discard"
	case DialogConfirmDelete:
		return "confirm-delete"
	default:
		return "unknown"
	}
}

const (
	LabelAdd    = "Add Task"
	LabelUpdate = "Update Task"
)

type Field int

const (
	FieldTitle Field = iota
	FieldDate
	FieldDescription
	FieldPriority
)

var Fields = []Field{FieldTitle, FieldDate, FieldDescription, FieldPriority}

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldDate:
		return "Date"
	case FieldDescription:
		return "Description"
	case FieldPriority:
		return "Priority"
	default:
		return "?"
	}
}

// Form holds the raw input values of the task form.
type Form struct {
	Title       string
	Date        string
	Description string
	Priority    string
}

func FormFromTask(t domain.Task) Form {
	return Form{
		Title:       t.Title,
		Date:        t.Date,
		Description: t.Description,
		Priority:    t.Priority,
	}
}

func (f Form) Get(field Field) string {
	switch field {
	case FieldTitle:
		return f.Title
	case FieldDate:
		return f.Date
	case FieldDescription:
		return f.Description
	case FieldPriority:
		return f.Priority
	}
	return ""
}

func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldDate:
		f.Date = value
	case FieldDescription:
		f.Description = value
	case FieldPriority:
		f.Priority = value
	}
}

func (f Form) IsEmpty() bool {
	for _, field := range Fields {
		if f.Get(field) != "" {
			return false
		}
	}
	return true
}

// Differs compares field by field against t.
func (f Form) Differs(t domain.Task) bool {
	return f != FormFromTask(t)
}

func (f Form) Task(id string) domain.Task {
	return domain.Task{
		ID:          id,
		Title:       f.Title,
		Date:        f.Date,
		Description: f.Description,
		Priority:    f.Priority,
	}
}

// State is everything the controller knows. Tasks mirrors the server and is
// rebuilt from a full fetch after every mutation.
type State struct {
	Tasks         []domain.Task
	Current       domain.Task
	Form          Form
	Dialog        DialogState
	PendingDelete string
	SubmitLabel   string
	Err           error

	// dialog to go back to when a delete confirmation is dismissed
	beforeDelete DialogState
}

// TaskView is one rendered task with its actions bound to the task id.
type TaskView struct {
	ID    string
	Lines []string
}
