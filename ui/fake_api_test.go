package ui

import (
	"context"
	"errors"

	"github.com/vinizap/lumi/tasks/domain"
)

var errOffline = errors.New("offline")

// fakeAPI keeps tasks in memory and records every call.
type fakeAPI struct {
	tasks   []domain.Task
	calls   []string
	listErr error
	mutErr  error
}

func (f *fakeAPI) List(ctx context.Context) ([]domain.Task, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	f.calls = append(f.calls, "create "+t.ID)
	if f.mutErr != nil {
		return domain.Task{}, f.mutErr
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeAPI) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	f.calls = append(f.calls, "update "+t.ID)
	if f.mutErr != nil {
		return domain.Task{}, f.mutErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = t
			return t, nil
		}
	}
	return domain.Task{}, errors.New("not found")
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete "+id)
	if f.mutErr != nil {
		return f.mutErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

// blockingAPI answers List only when ctx ends.
type blockingAPI struct {
	*fakeAPI
}

func (b *blockingAPI) List(ctx context.Context) ([]domain.Task, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
