package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
)

type fakeTasksRepo struct {
	byID map[string]*models.Task
	seq  int

	createErr error
}

func newFakeTasksRepo() *fakeTasksRepo {
	return &fakeTasksRepo{byID: map[string]*models.Task{}}
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	task.ID = fmt.Sprintf("t%d", f.seq)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	f.byID[task.ID] = &stored
	return task, nil
}

func (f *fakeTasksRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTasksRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	result := []*models.Task{}
	for _, t := range f.byID {
		if t.OwnerID == ownerID {
			clone := *t
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if _, ok := f.byID[task.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	task.UpdatedAt = time.Now()
	stored := *task
	f.byID[task.ID] = &stored
	return task, nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func newTaskService(t *testing.T) (*TaskService, *fakeTasksRepo) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	repo := newFakeTasksRepo()
	return NewTaskService(db, &fakeRepoManager{t: repo}), repo
}

func TestTaskCreate_OwnerComesFromCaller(t *testing.T) {
	s, _ := newTaskService(t)

	task, err := s.Create(context.Background(), "alice", CreateTaskParams{Title: "Buy groceries"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if task.OwnerID != "alice" {
		t.Fatalf("owner: got %q want %q", task.OwnerID, "alice")
	}
	if task.Status != models.StatusPending || task.Priority != models.PriorityMedium {
		t.Fatalf("defaults not applied: %+v", task)
	}
}

func TestTaskCreate_Validation(t *testing.T) {
	s, _ := newTaskService(t)

	if _, err := s.Create(context.Background(), "alice", CreateTaskParams{}); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("missing title: want ErrorValidation, got %v", err)
	}

	_, err := s.Create(context.Background(), "alice", CreateTaskParams{Title: "x", Status: "DONE"})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("bad status: want ErrorValidation, got %v", err)
	}

	_, err = s.Create(context.Background(), "alice", CreateTaskParams{Title: "x", Priority: "URGENT"})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("bad priority: want ErrorValidation, got %v", err)
	}
}

func TestTaskGet_OwnershipPolicy(t *testing.T) {
	s, _ := newTaskService(t)

	created, err := s.Create(context.Background(), "alice", CreateTaskParams{Title: "Prepare presentation"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// owner reads fine
	got, err := s.Get(context.Background(), created.ID, "alice")
	if err != nil {
		t.Fatalf("Get as owner error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("got wrong task: %+v", got)
	}

	// another user is rejected after the task is located
	if _, err := s.Get(context.Background(), created.ID, "bob"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	// a missing id is not found, for owners and strangers alike
	if _, err := s.Get(context.Background(), "missing", "alice"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestTaskUpdate_PartialPatch(t *testing.T) {
	s, _ := newTaskService(t)

	created, err := s.Create(context.Background(), "alice", CreateTaskParams{
		Title:       "Fix authentication bugs",
		Description: "Resolve issues with token validation",
		Priority:    models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	status := models.StatusInProgress
	updated, err := s.Update(context.Background(), created.ID, "alice", UpdateTaskParams{Status: &status})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Fatalf("status not updated: %+v", updated)
	}
	if updated.Title != created.Title || updated.Priority != created.Priority {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestTaskUpdate_ForbiddenForNonOwner(t *testing.T) {
	s, _ := newTaskService(t)

	created, err := s.Create(context.Background(), "alice", CreateTaskParams{Title: "x"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	title := "hijacked"
	_, err = s.Update(context.Background(), created.ID, "bob", UpdateTaskParams{Title: &title})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestTaskDelete(t *testing.T) {
	s, repo := newTaskService(t)

	created, err := s.Create(context.Background(), "alice", CreateTaskParams{Title: "x"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := s.Delete(context.Background(), created.ID, "bob"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	if err := s.Delete(context.Background(), created.ID, "alice"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok := repo.byID[created.ID]; ok {
		t.Fatalf("task still present after delete")
	}

	if err := s.Delete(context.Background(), created.ID, "alice"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestTaskListByOwner(t *testing.T) {
	s, _ := newTaskService(t)

	for _, title := range []string{"a", "b"} {
		if _, err := s.Create(context.Background(), "alice", CreateTaskParams{Title: title}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	if _, err := s.Create(context.Background(), "bob", CreateTaskParams{Title: "c"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	list, err := s.ListByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length: got %d want 2", len(list))
	}
	for _, task := range list {
		if task.OwnerID != "alice" {
			t.Fatalf("foreign task in list: %+v", task)
		}
	}
}
