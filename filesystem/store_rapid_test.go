package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"pgregory.net/rapid"

	"github.com/vinizap/lumi/tasks/domain"
)

var rapidCounter atomic.Int64

// newRapidStore gives every rapid iteration its own file.
func newRapidStore(t *testing.T) *Store {
	dir := t.TempDir()
	n := rapidCounter.Add(1)
	return NewStore(filepath.Join(dir, fmt.Sprintf("tasks-%d.json", n)), zerolog.Nop())
}

func fieldGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just(""),
		rapid.StringMatching(`[A-Za-z0-9 .,!?-]{1,40}`),
	)
}

func taskGenerator(id string) *rapid.Generator[domain.Task] {
	return rapid.Custom(func(t *rapid.T) domain.Task {
		return domain.Task{
			ID:          id,
			Title:       fieldGenerator().Draw(t, "title"),
			Date:        fieldGenerator().Draw(t, "date"),
			Description: fieldGenerator().Draw(t, "description"),
			Priority:    rapid.SampledFrom([]string{"", "low", "medium", "high"}).Draw(t, "priority"),
		}
	})
}

func optionalField(t *rapid.T, label string) *string {
	if !rapid.Bool().Draw(t, label+"_set") {
		return nil
	}
	v := fieldGenerator().Draw(t, label)
	return &v
}

// TestStoreMatchesModel checks that any serialized sequence of operations
// leaves the store equal to a plain in-memory slice driven the same way.
func TestStoreMatchesModel(t *testing.T) {
	parent := t
	rapid.Check(t, func(t *rapid.T) {
		s := newRapidStore(parent)
		defer os.Remove(s.Path())

		var model []domain.Task
		nextID := 0
		ids := func() []string {
			out := []string{"absent"}
			for _, m := range model {
				out = append(out, m.ID)
			}
			return out
		}

		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				nextID++
				task := taskGenerator(fmt.Sprintf("t%d", nextID)).Draw(t, "task")
				created, err := s.Create(task)
				if err != nil {
					t.Fatalf("create: %v", err)
				}
				if created != task {
					t.Fatalf("create returned %+v, want %+v", created, task)
				}
				model = append(model, task)

			case 1:
				id := rapid.SampledFrom(ids()).Draw(t, "update_id")
				p := domain.Patch{
					Title:       optionalField(t, "title"),
					Date:        optionalField(t, "date"),
					Description: optionalField(t, "description"),
					Priority:    optionalField(t, "priority"),
				}
				_, err := s.Update(id, p)
				found := false
				for j := range model {
					if model[j].ID == id {
						model[j] = p.Apply(model[j])
						found = true
					}
				}
				if found && err != nil {
					t.Fatalf("update %s: %v", id, err)
				}
				if !found && err != ErrNotFound {
					t.Fatalf("update %s: got %v, want ErrNotFound", id, err)
				}

			case 2:
				id := rapid.SampledFrom(ids()).Draw(t, "delete_id")
				err := s.Delete(id)
				kept := model[:0:0]
				for _, m := range model {
					if m.ID != id {
						kept = append(kept, m)
					}
				}
				if len(kept) == len(model) && err != ErrNotFound {
					t.Fatalf("delete %s: got %v, want ErrNotFound", id, err)
				}
				if len(kept) != len(model) && err != nil {
					t.Fatalf("delete %s: %v", id, err)
				}
				model = kept
			}

			got, err := s.List()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(model) {
				t.Fatalf("list has %d tasks, model has %d", len(got), len(model))
			}
			for j := range got {
				if got[j] != model[j] {
					t.Fatalf("task %d: got %+v, want %+v", j, got[j], model[j])
				}
			}
		}
	})
}
