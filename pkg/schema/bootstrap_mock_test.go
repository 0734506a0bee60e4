package schema

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/home-controller-schema/pkg/common"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

func TestApply_StatementOrder(t *testing.T) {
	common.SetTestLoggerNop()
	conn, mock := setupMockDB(t)

	for _, table := range Tables() {
		mock.ExpectExec(table.DDL).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Apply(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevert_ReverseOrder(t *testing.T) {
	common.SetTestLoggerNop()
	conn, mock := setupMockDB(t)

	names := TableNames()
	for i := len(names) - 1; i >= 0; i-- {
		mock.ExpectExec("DROP TABLE IF EXISTS " + names[i]).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Revert(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	common.SetTestLoggerNop()
	conn, mock := setupMockDB(t)

	lost := errors.New("connection lost")
	tables := Tables()
	mock.ExpectExec(tables[0].DDL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(tables[1].DDL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(tables[2].DDL).WillReturnError(lost)

	err := Apply(context.Background(), conn)
	require.Error(t, err)
	assert.ErrorIs(t, err, lost)

	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, TableDeviceCommand, schemaErr.Table)

	// nothing after the failing statement may run
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevert_StopsAtFirstFailure(t *testing.T) {
	common.SetTestLoggerNop()
	conn, mock := setupMockDB(t)

	lost := errors.New("disk I/O error")
	mock.ExpectExec("DROP TABLE IF EXISTS zone_command_if").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS zone_command_action").WillReturnError(lost)

	err := Revert(context.Background(), conn)
	require.ErrorIs(t, err, lost)
	assert.EqualError(t, err, "schema revert zone_command_action: disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}
