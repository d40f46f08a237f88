package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/dmitrijs2005/taskhub/internal/server/repositories/repomanager"
)

// TaskService implements task CRUD with the single-owner access rule:
// a task is visible and mutable only by the user who created it.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// CreateTaskParams carries the caller-supplied task fields. The owner is
// never part of the params; it always comes from the authenticated caller.
type CreateTaskParams struct {
	Title       string
	Description string
	Status      models.Status
	Priority    models.Priority
	DueDate     *time.Time
	Category    string
	Labels      string
}

// UpdateTaskParams is a partial patch; nil fields are left untouched.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
	DueDate     *time.Time
	Category    *string
	Labels      *string
}

// authorizeOwner is the ownership policy shared by read, update, and
// delete. The lookup runs first, so a missing id is reported as not found
// while an existing task owned by someone else is forbidden.
func authorizeOwner(task *models.Task, callerID string) error {
	if task.OwnerID != callerID {
		return common.ErrForbidden
	}
	return nil
}

// Create stores a new task owned by ownerID. Empty status and priority
// take the defaults of the schema.
func (s *TaskService) Create(ctx context.Context, ownerID string, p CreateTaskParams) (*models.Task, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if !p.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, p.Status)
	}
	if !p.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, p.Priority)
	}

	task := &models.Task{
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		Category:    p.Category,
		Labels:      p.Labels,
		OwnerID:     ownerID,
	}

	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return created, nil
}

// ListByOwner returns every task owned by callerID. No ownership check is
// needed since the query itself is scoped to the caller.
func (s *TaskService) ListByOwner(ctx context.Context, callerID string) ([]*models.Task, error) {
	result, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

// Get loads the task by id and authorizes the caller as its owner.
func (s *TaskService) Get(ctx context.Context, id, callerID string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(task, callerID); err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies a partial patch to a task the caller owns.
func (s *TaskService) Update(ctx context.Context, id, callerID string, p UpdateTaskParams) (*models.Task, error) {
	task, err := s.Get(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if *p.Title == "" {
			return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
		}
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, *p.Status)
		}
		task.Status = *p.Status
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, *p.Priority)
		}
		task.Priority = *p.Priority
	}
	if p.DueDate != nil {
		task.DueDate = p.DueDate
	}
	if p.Category != nil {
		task.Category = *p.Category
	}
	if p.Labels != nil {
		task.Labels = *p.Labels
	}

	updated, err := s.repomanager.Tasks(s.db).Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	return updated, nil
}

// Delete removes a task the caller owns.
func (s *TaskService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.Get(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.repomanager.Tasks(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}

	return nil
}
