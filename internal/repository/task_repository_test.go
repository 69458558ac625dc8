package repository

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// anyTime matches any time argument; GORM stamps updated_at itself.
type anyTime struct{}

func (anyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

func setupMockRepo(t *testing.T) (TaskRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewTaskRepository(db), mock
}

// The ownership predicate must live in the statement itself, not in a
// separate read before the write.
func TestUpdateOwned_ConditionalStatement(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `tasks` SET `status`=?,`updated_at`=? WHERE id = ? AND user_id = ?")).
		WithArgs("COMPLETED", anyTime{}, "task-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows, err := repo.UpdateOwned("task-1", "user-1", map[string]interface{}{"status": "COMPLETED"})
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOwned_ReportsZeroRows(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `tasks` SET `status`=?,`updated_at`=? WHERE id = ? AND user_id = ?")).
		WithArgs("COMPLETED", anyTime{}, "task-1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	rows, err := repo.UpdateOwned("task-1", "someone-else", map[string]interface{}{"status": "COMPLETED"})
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwned_ConditionalStatement(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `tasks` WHERE id = ? AND user_id = ?")).
		WithArgs("task-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows, err := repo.DeleteOwned("task-1", "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwned_ReportsZeroRows(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `tasks` WHERE id = ? AND user_id = ?")).
		WithArgs("task-1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	rows, err := repo.DeleteOwned("task-1", "someone-else")
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
