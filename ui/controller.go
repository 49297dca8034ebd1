// tasks/ui/controller.go

// Package ui implements the task list/form/confirmation controller shared by
// the terminal front end, plus that front end.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/tasks/domain"
)

var ErrUnknownTask = errors.New("unknown task")

// TaskAPI is the server as the controller sees it. *client.Client satisfies it.
type TaskAPI interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, t domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// Controller drives State through the form dialog state machine. It is not
// safe for concurrent use.
type Controller struct {
	api   TaskAPI
	state State
	newID func(title string) string
	log   zerolog.Logger
}

func NewController(api TaskAPI, log zerolog.Logger) *Controller {
	return &Controller{
		api:   api,
		state: State{Tasks: []domain.Task{}, SubmitLabel: LabelAdd},
		newID: domain.NewID,
		log:   log.With().Str("component", "ui").Logger(),
	}
}

// State returns a snapshot; the task slice is copied.
func (c *Controller) State() State {
	s := c.state
	s.Tasks = append([]domain.Task(nil), c.state.Tasks...)
	return s
}

func (c *Controller) IsDirty() bool {
	return !c.state.Form.IsEmpty() && c.state.Form.Differs(c.state.Current)
}

func (c *Controller) SetField(field Field, value string) {
	c.state.Form.Set(field, value)
}

// LoadTasks replaces the local list with the server's. On failure the list
// is left as it was and the error is kept in State.Err.
func (c *Controller) LoadTasks(ctx context.Context) error {
	return c.apply(c.loadRequest()(ctx))
}

func (c *Controller) RenderTaskList() []TaskView {
	views := make([]TaskView, 0, len(c.state.Tasks))
	for _, t := range c.state.Tasks {
		views = append(views, TaskView{
			ID: t.ID,
			Lines: []string{
				"Title: " + t.Title,
				"Due Date: " + t.Date,
				"Priority: " + t.Priority,
				"Description: " + t.Description,
			},
		})
	}
	return views
}

func (c *Controller) OpenForm() {
	if c.state.Dialog == DialogClosed {
		c.state.Dialog = DialogOpen
	}
}

// SubmitTask saves the form as a new task, or as an update of the task being
// edited, then reloads and resets whatever the server said.
func (c *Controller) SubmitTask(ctx context.Context) error {
	return c.apply(c.submitRequest()(ctx))
}

func (c *Controller) BeginEdit(id string) error {
	for _, t := range c.state.Tasks {
		if t.ID == id {
			c.state.Current = t
			c.state.Form = FormFromTask(t)
			c.state.SubmitLabel = LabelUpdate
			c.state.Dialog = DialogOpen
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTask, id)
}

// RequestDelete asks for confirmation before deleting id. A newer request
// replaces an unconfirmed older one.
func (c *Controller) RequestDelete(id string) {
	if c.state.Dialog != DialogConfirmDelete {
		c.state.beforeDelete = c.state.Dialog
	}
	c.state.Dialog = DialogConfirmDelete
	c.state.PendingDelete = id
}

// CloseForm resets the form, asking first when the input would be lost.
func (c *Controller) CloseForm() {
	if c.IsDirty() {
		c.state.Dialog = DialogConfirmDiscard
		return
	}
	c.Reset()
}

// Confirm accepts the pending confirmation dialog, if any.
func (c *Controller) Confirm(ctx context.Context) error {
	if req := c.confirmRequest(); req != nil {
		return c.apply(req(ctx))
	}
	return nil
}

// Cancel dismisses the pending confirmation dialog without side effects.
func (c *Controller) Cancel() {
	switch c.state.Dialog {
	case DialogConfirmDiscard:
		c.state.Dialog = DialogOpen
	case DialogConfirmDelete:
		c.state.Dialog = c.state.beforeDelete
		c.state.PendingDelete = ""
	}
}

func (c *Controller) Reset() {
	c.state.Form = Form{}
	c.state.Current = domain.Task{}
	c.state.SubmitLabel = LabelAdd
	c.state.Dialog = DialogClosed
}

type requestKind int

const (
	requestLoad requestKind = iota
	requestSubmit
	requestDelete
)

// request is one server round trip. It holds only the API and the values it
// captured, so it may run off the goroutine that owns the controller; apply
// folds its result back into State.
type request func(ctx context.Context) result

type result struct {
	kind    requestKind
	id      string
	tasks   []domain.Task
	mutErr  error
	loadErr error
}

func (c *Controller) loadRequest() request {
	api := c.api
	return func(ctx context.Context) result {
		tasks, err := api.List(ctx)
		return result{kind: requestLoad, tasks: tasks, loadErr: err}
	}
}

// submitRequest captures the form as it is now. The mutation is followed by
// a reload whatever its outcome.
func (c *Controller) submitRequest() request {
	api := c.api
	id := c.state.Current.ID
	editing := id != ""
	if !editing {
		id = c.newID(c.state.Form.Title)
	}
	task := c.state.Form.Task(id)

	return func(ctx context.Context) result {
		var err error
		if editing {
			_, err = api.Update(ctx, task)
		} else {
			_, err = api.Create(ctx, task)
		}
		res := result{kind: requestSubmit, id: id, mutErr: err}
		res.tasks, res.loadErr = api.List(ctx)
		return res
	}
}

// confirmRequest leaves the confirmation dialog right away. Only a confirmed
// delete needs the server; a discard returns nil.
func (c *Controller) confirmRequest() request {
	switch c.state.Dialog {
	case DialogConfirmDiscard:
		c.Reset()

	case DialogConfirmDelete:
		id := c.state.PendingDelete
		c.state.PendingDelete = ""
		c.state.Dialog = c.state.beforeDelete

		api := c.api
		return func(ctx context.Context) result {
			res := result{kind: requestDelete, id: id, mutErr: api.Delete(ctx, id)}
			res.tasks, res.loadErr = api.List(ctx)
			return res
		}
	}
	return nil
}

func (c *Controller) apply(res result) error {
	if res.loadErr != nil {
		c.state.Err = res.loadErr
		c.log.Error().Err(res.loadErr).Msg("load tasks")
	} else {
		c.state.Tasks = append(c.state.Tasks[:0], res.tasks...)
		c.state.Err = nil
		c.log.Debug().Int("count", len(res.tasks)).Msg("tasks loaded")
	}

	if res.kind == requestSubmit {
		c.Reset()
	}

	if res.mutErr != nil {
		c.state.Err = res.mutErr
		switch res.kind {
		case requestSubmit:
			c.log.Error().Err(res.mutErr).Str("task_id", res.id).Msg("submit task")
		case requestDelete:
			c.log.Error().Err(res.mutErr).Str("task_id", res.id).Msg("delete task")
		}
	}
	return errors.Join(res.mutErr, res.loadErr)
}
