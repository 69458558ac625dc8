package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Achintya-Chatterjee/task-management-api/internal/middleware"
	"github.com/Achintya-Chatterjee/task-management-api/internal/models"
	"github.com/Achintya-Chatterjee/task-management-api/internal/repository"
	"github.com/Achintya-Chatterjee/task-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskHandlerTestSuite exercises the task routes end to end: token in,
// owner-scoped CRUD out.
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	tokens *services.TokenService
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Task{})
	suite.Require().NoError(err)

	suite.tokens, err = services.NewTokenService("test-secret")
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	handler := NewTaskHandler(services.NewTaskService(taskRepo))

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	tasks := suite.router.Group("/tasks")
	tasks.Use(middleware.RequireAuth(suite.tokens, userRepo))
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.GET("/:id", handler.GetTask)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.DELETE("/:id", handler.DeleteTask)
	}
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helpers

func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, ownerID string) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		UserID:      ownerID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskHandlerTestSuite) request(method, url string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := suite.tokens.Issue(user.ID, user.Email)
		suite.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// Tests

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthenticated() {
	w := suite.request("GET", "/tasks", nil, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_OwnerScoped() {
	alice := suite.createTestUser("alice@x.com")
	bob := suite.createTestUser("bob@x.com")
	suite.createTestTask("Alice's task", alice.ID)
	suite.createTestTask("Bob's task", bob.ID)

	w := suite.request("GET", "/tasks", nil, alice)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), "Alice's task", tasks[0].(map[string]interface{})["title"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_HidesArchivedByDefault() {
	user := suite.createTestUser("alice@x.com")
	suite.createTestTask("Visible", user.ID)
	archived := suite.createTestTask("Hidden", user.ID)
	suite.Require().NoError(suite.db.Model(archived).Update("is_archived", true).Error)

	w := suite.request("GET", "/tasks", nil, user)
	response := suite.decode(w)
	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), "Visible", tasks[0].(map[string]interface{})["title"])

	w = suite.request("GET", "/tasks?isArchived=true", nil, user)
	response = suite.decode(w)
	tasks = response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), "Hidden", tasks[0].(map[string]interface{})["title"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_Pagination() {
	user := suite.createTestUser("alice@x.com")
	for i := 0; i < 5; i++ {
		suite.createTestTask(fmt.Sprintf("Task %d", i), user.ID)
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		w := suite.request("GET", fmt.Sprintf("/tasks?page=%d&limit=2", page), nil, user)
		assert.Equal(suite.T(), http.StatusOK, w.Code)

		response := suite.decode(w)
		pagination := response["pagination"].(map[string]interface{})
		assert.EqualValues(suite.T(), 5, pagination["total"])
		assert.EqualValues(suite.T(), page, pagination["page"])
		assert.EqualValues(suite.T(), 2, pagination["limit"])
		assert.EqualValues(suite.T(), 3, pagination["totalPages"])

		for _, item := range response["tasks"].([]interface{}) {
			id := item.(map[string]interface{})["id"].(string)
			assert.False(suite.T(), seen[id], "task %s appeared on two pages", id)
			seen[id] = true
		}
	}
	assert.Len(suite.T(), seen, 5)
}

func (suite *TaskHandlerTestSuite) TestListTasks_PermissiveParamCoercion() {
	user := suite.createTestUser("alice@x.com")
	suite.createTestTask("Task", user.ID)

	// Non-numeric paging input falls back to defaults instead of failing
	w := suite.request("GET", "/tasks?page=abc&limit=xyz", nil, user)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	pagination := response["pagination"].(map[string]interface{})
	assert.EqualValues(suite.T(), 1, pagination["page"])
	assert.EqualValues(suite.T(), 10, pagination["limit"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_StatusFilter() {
	user := suite.createTestUser("alice@x.com")
	task := suite.createTestTask("Done task", user.ID)
	suite.Require().NoError(suite.db.Model(task).Update("status", models.TaskStatusCompleted).Error)
	suite.createTestTask("Pending task", user.ID)

	w := suite.request("GET", "/tasks?status=COMPLETED", nil, user)
	response := suite.decode(w)
	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), "Done task", tasks[0].(map[string]interface{})["title"])

	w = suite.request("GET", "/tasks?status=BOGUS", nil, user)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Sorting() {
	user := suite.createTestUser("alice@x.com")
	for _, title := range []string{"banana", "apple", "cherry"} {
		suite.createTestTask(title, user.ID)
	}

	w := suite.request("GET", "/tasks?sortBy=title&sortOrder=asc", nil, user)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	tasks := response["tasks"].([]interface{})
	titles := make([]string, len(tasks))
	for i, item := range tasks {
		titles[i] = item.(map[string]interface{})["title"].(string)
	}
	assert.Equal(suite.T(), []string{"apple", "banana", "cherry"}, titles)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Success() {
	user := suite.createTestUser("alice@x.com")
	task := suite.createTestTask("Test Task", user.ID)

	w := suite.request("GET", "/tasks/"+task.ID, nil, user)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	got := response["task"].(map[string]interface{})
	assert.Equal(suite.T(), task.ID, got["id"])
	assert.Equal(suite.T(), "Test Task", got["title"])
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	user := suite.createTestUser("alice@x.com")

	w := suite.request("GET", "/tasks/no-such-id", nil, user)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_ForbiddenForNonOwner() {
	alice := suite.createTestUser("alice@x.com")
	bob := suite.createTestUser("bob@x.com")
	task := suite.createTestTask("Alice's task", alice.ID)

	w := suite.request("GET", "/tasks/"+task.ID, nil, bob)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), "Alice's task")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Defaults() {
	user := suite.createTestUser("alice@x.com")

	w := suite.request("POST", "/tasks", map[string]interface{}{"title": "Buy milk"}, user)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decode(w)
	task := response["task"].(map[string]interface{})
	assert.Equal(suite.T(), "Buy milk", task["title"])
	assert.Equal(suite.T(), "PENDING", task["status"])
	assert.Equal(suite.T(), "MEDIUM", task["priority"])
	assert.Equal(suite.T(), false, task["isArchived"])
	assert.Equal(suite.T(), user.ID, task["userId"])
	assert.NotEmpty(suite.T(), task["id"])
}

func (suite *TaskHandlerTestSuite) TestCreateTask_WithFields() {
	user := suite.createTestUser("alice@x.com")

	w := suite.request("POST", "/tasks", map[string]interface{}{
		"title":    "Ship release",
		"status":   "IN_PROGRESS",
		"priority": "URGENT",
		"dueDate":  "2026-09-15T12:00:00Z",
		"tags":     []string{"work", "release"},
	}, user)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decode(w)
	task := response["task"].(map[string]interface{})
	assert.Equal(suite.T(), "IN_PROGRESS", task["status"])
	assert.Equal(suite.T(), "URGENT", task["priority"])
	assert.NotNil(suite.T(), task["dueDate"])
	assert.Equal(suite.T(), []interface{}{"work", "release"}, task["tags"])
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("alice@x.com")

	w := suite.request("POST", "/tasks", map[string]interface{}{"description": "no title"}, user)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Title is required")
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Merge() {
	user := suite.createTestUser("alice@x.com")
	task := suite.createTestTask("Buy milk", user.ID)

	w := suite.request("PUT", "/tasks/"+task.ID, map[string]interface{}{"status": "COMPLETED"}, user)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	updated := response["task"].(map[string]interface{})
	assert.Equal(suite.T(), "COMPLETED", updated["status"])
	// Omitted fields keep their previous values
	assert.Equal(suite.T(), "Buy milk", updated["title"])
	assert.Equal(suite.T(), "Test Description", updated["description"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidStatus() {
	user := suite.createTestUser("alice@x.com")
	task := suite.createTestTask("Buy milk", user.ID)

	w := suite.request("PUT", "/tasks/"+task.ID, map[string]interface{}{"status": "FINISHED"}, user)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "IN_PROGRESS")
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ForbiddenForNonOwner() {
	alice := suite.createTestUser("alice@x.com")
	bob := suite.createTestUser("bob@x.com")
	task := suite.createTestTask("Alice's task", alice.ID)

	w := suite.request("PUT", "/tasks/"+task.ID, map[string]interface{}{"title": "Hijacked"}, bob)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var fresh models.Task
	suite.Require().NoError(suite.db.Where("id = ?", task.ID).First(&fresh).Error)
	assert.Equal(suite.T(), "Alice's task", fresh.Title)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	user := suite.createTestUser("alice@x.com")
	task := suite.createTestTask("Doomed task", user.ID)

	w := suite.request("DELETE", "/tasks/"+task.ID, nil, user)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Hard delete: the second attempt reports not found
	w = suite.request("DELETE", "/tasks/"+task.ID, nil, user)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_ForbiddenForNonOwner() {
	alice := suite.createTestUser("alice@x.com")
	bob := suite.createTestUser("bob@x.com")
	task := suite.createTestTask("Alice's task", alice.ID)

	w := suite.request("DELETE", "/tasks/"+task.ID, nil, bob)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	assert.EqualValues(suite.T(), 1, count)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
