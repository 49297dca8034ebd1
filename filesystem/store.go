// tasks/filesystem/store.go
package filesystem

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/tasks/domain"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrStoreUnreadable = errors.New("task store unreadable")
)

// Store keeps every task in one JSON array file. Each operation reads the
// whole file, and each mutation writes the whole file back, under one lock.
type Store struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "store").Str("path", path).Logger(),
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) List() ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := readTasks(s.path)
	if err != nil {
		s.log.Error().Err(err).Msg("read tasks")
		return nil, err
	}
	return tasks, nil
}

// Create appends t as given. Ids are not checked for collisions; an empty id
// is filled in so the record stays addressable.
func (s *Store) Create(t domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := readTasks(s.path)
	if err != nil {
		s.log.Error().Err(err).Msg("read tasks before create")
		return domain.Task{}, err
	}

	if t.ID == "" {
		t.ID = domain.NewID(t.Title)
	}
	tasks = append(tasks, t)

	if err := writeTasks(s.path, tasks); err != nil {
		s.log.Error().Err(err).Str("task_id", t.ID).Msg("write tasks")
		return domain.Task{}, err
	}

	s.log.Debug().Str("task_id", t.ID).Int("count", len(tasks)).Msg("task created")
	return t, nil
}

func (s *Store) Update(id string, p domain.Patch) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := readTasks(s.path)
	if err != nil {
		s.log.Error().Err(err).Msg("read tasks before update")
		return domain.Task{}, err
	}

	index := -1
	for i := range tasks {
		if tasks[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return domain.Task{}, ErrNotFound
	}

	tasks[index] = p.Apply(tasks[index])

	if err := writeTasks(s.path, tasks); err != nil {
		s.log.Error().Err(err).Str("task_id", id).Msg("write tasks")
		return domain.Task{}, err
	}

	s.log.Debug().Str("task_id", id).Msg("task updated")
	return tasks[index], nil
}

// Delete removes every record with the given id. The file is only rewritten
// when something was removed.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := readTasks(s.path)
	if err != nil {
		s.log.Error().Err(err).Msg("read tasks before delete")
		return err
	}

	kept := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return ErrNotFound
	}

	if err := writeTasks(s.path, kept); err != nil {
		s.log.Error().Err(err).Str("task_id", id).Msg("write tasks")
		return err
	}

	s.log.Debug().Str("task_id", id).Int("count", len(kept)).Msg("task deleted")
	return nil
}
