package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/tree-api/internal/utils"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestFindOneWithEagerRelationships_SingleJoinQuery(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "trees_owned", "assigned_to_id", "AssignedTo__id", "AssignedTo__login"}).
		AddRow(1, 4, 2, 2, "user")
	mock.ExpectQuery("SELECT .* FROM `banks` LEFT JOIN `users` `AssignedTo` ON `banks`.`assigned_to_id` = `AssignedTo`.`id` WHERE `banks`.`id` = \\?").
		WillReturnRows(rows)

	bank, err := NewBankRepository(db).FindOneWithEagerRelationships(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, bank.AssignedTo)
	assert.Equal(t, "user", bank.AssignedTo.Login)
	assert.Equal(t, 4, *bank.TreesOwned)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllWithEagerRelationships_OrdersByQualifiedColumn(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .* FROM `trees` LEFT JOIN `users` `AssignedTo` .* ORDER BY `trees`.`id` DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	trees, err := NewTreeRepository(db).FindAllWithEagerRelationships(context.Background(), utils.Sort{Column: "id", Desc: true})
	require.NoError(t, err)
	assert.Empty(t, trees)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `timers` WHERE `timers`.`id` = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "duration"}).AddRow(3, 60))

	timer, err := NewTimerRepository(db).FindByIDForUpdate(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), timer.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID_IssuesSingleDelete(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM `banks` WHERE `banks`.`id` = \\?").
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewBankRepository(db).DeleteByID(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}
