package repository

import (
	"fmt"
	"strings"

	"github.com/Achintya-Chatterjee/task-management-api/internal/database"
	"github.com/Achintya-Chatterjee/task-management-api/internal/models"
	"gorm.io/gorm"
)

// sortColumns is the allow-list of client-facing sort fields. Anything not
// listed here falls back to created_at; client input is never interpolated
// into the ORDER BY clause.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter with a deterministic total order:
// the requested sort column first, then id as a tiebreak so pagination never
// duplicates or drops rows across pages.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).
		Where("user_id = ?", filter.OwnerID).
		Where("is_archived = ?", filter.IsArchived)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	err := query.
		Order(fmt.Sprintf("%s %s, id ASC", column, direction)).
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateOwned applies fields to the task in a single conditional UPDATE so
// the ownership check and the write cannot race.
func (r *GormTaskRepository) UpdateOwned(taskID, ownerID string, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, ownerID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// DeleteOwned hard-deletes the task in a single conditional DELETE.
func (r *GormTaskRepository) DeleteOwned(taskID, ownerID string) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", taskID, ownerID).
		Delete(&models.Task{})
	return result.RowsAffected, result.Error
}
