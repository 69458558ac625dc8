package repository

import (
	"github.com/Achintya-Chatterjee/task-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email (exact, case-sensitive match)
	FindByEmail(email string) (*models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// List retrieves tasks matching the filter plus the unpaginated total
	List(filter TaskFilter) ([]models.Task, int64, error)

	// UpdateOwned applies the given column values to the task only if it is
	// owned by ownerID, in a single conditional statement. Returns the number
	// of rows affected.
	UpdateOwned(taskID, ownerID string, fields map[string]interface{}) (int64, error)

	// DeleteOwned hard-deletes the task only if it is owned by ownerID.
	// Returns the number of rows affected.
	DeleteOwned(taskID, ownerID string) (int64, error)
}

// TaskFilter holds filtering, sorting and pagination options for listing
// tasks. OwnerID is always required; every query is owner scoped.
type TaskFilter struct {
	OwnerID    string
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	IsArchived bool
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}
