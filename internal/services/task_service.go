package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Achintya-Chatterjee/task-management-api/internal/models"
	"github.com/Achintya-Chatterjee/task-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("Task not found")
	// ErrNotTaskOwner is returned when the task exists but belongs to a
	// different user. Existence is only disclosed to the owner's benefit:
	// a wrong owner gets 403, a missing id gets 404.
	ErrNotTaskOwner = errors.New("Not authorized to access this task")
)

// TaskService handles owner-scoped task business logic. Every operation
// takes the authenticated user's id; a caller-supplied owner is never
// trusted.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasksInput represents filters for listing tasks. Status and Priority
// are raw query values; empty means no filter.
type ListTasksInput struct {
	OwnerID    string
	Status     string
	Priority   string
	IsArchived bool
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// List returns one page of the user's tasks plus the unpaginated total.
func (s *TaskService) List(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:    input.OwnerID,
		IsArchived: input.IsArchived,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, 0, invalidStatusError()
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority := models.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, 0, invalidPriorityError()
		}
		filter.Priority = &priority
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Get returns a task if it exists and belongs to the owner.
func (s *TaskService) Get(taskID, ownerID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != ownerID {
		return nil, ErrNotTaskOwner
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task. Status and Priority
// are raw values; empty selects the defaults.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        []string
}

// Create creates a task owned by ownerID. The server assigns the id and
// timestamps.
func (s *TaskService) Create(ownerID string, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, newFieldError("title", "Title is required")
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, invalidStatusError()
		}
	}

	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		priority = models.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, invalidPriorityError()
		}
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		Tags:        tags,
		UserID:      ownerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	Tags        []string
	IsArchived  *bool
}

// Update merges the provided fields into the task. The write runs as one
// conditional UPDATE scoped to the owner, so the ownership check and the
// mutation cannot race with a concurrent delete.
func (s *TaskService) Update(taskID, ownerID string, input UpdateTaskInput) (*models.Task, error) {
	fields := map[string]interface{}{}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, newFieldError("title", "Title cannot be empty")
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, invalidStatusError()
		}
		fields["status"] = status
	}
	if input.Priority != nil {
		priority := models.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return nil, invalidPriorityError()
		}
		fields["priority"] = priority
	}
	if input.DueDate != nil {
		fields["due_date"] = input.DueDate
	}
	if input.Tags != nil {
		// Map-based updates bypass the model's JSON serializer, so the
		// column value is marshalled here.
		encoded, err := json.Marshal(input.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		fields["tags"] = string(encoded)
	}
	if input.IsArchived != nil {
		fields["is_archived"] = *input.IsArchived
	}

	if len(fields) == 0 {
		// Nothing to write; still enforce existence and ownership.
		return s.Get(taskID, ownerID)
	}

	rows, err := s.taskRepo.UpdateOwned(taskID, ownerID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if rows == 0 {
		return nil, s.resolveMissingWrite(taskID)
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}

// Delete hard-deletes a task owned by ownerID. Deleting an already deleted
// id reports not found.
func (s *TaskService) Delete(taskID, ownerID string) error {
	rows, err := s.taskRepo.DeleteOwned(taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if rows == 0 {
		return s.resolveMissingWrite(taskID)
	}
	return nil
}

// resolveMissingWrite disambiguates a conditional write that touched no
// rows: the task either never existed (not found) or belongs to someone
// else (forbidden).
func (s *TaskService) resolveMissingWrite(taskID string) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	return ErrNotTaskOwner
}
