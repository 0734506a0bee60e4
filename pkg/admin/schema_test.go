package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/home-controller-schema/pkg/common"
	"liyu1981.xyz/home-controller-schema/pkg/schema"
	_ "liyu1981.xyz/home-controller-schema/pkg/testing"
)

func TestSchemaService_Lifecycle(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()

	ctrl, adminObj, _ := GetMockAdminWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	status, err := adminObj.Schema.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Complete)
	assert.Len(t, status.Report.Missing(), 14)
	require.Len(t, status.Migrations, 1)
	assert.False(t, status.Migrations[0].Applied())

	applied, err := adminObj.Schema.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, applied)

	status, err = adminObj.Schema.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Complete)
	assert.True(t, status.Migrations[0].Applied())

	ddl, err := adminObj.Schema.DDL(ctx)
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE zone_command_if")
	assert.Contains(t, ddl, "schema_migrations", "gorm quotes the name it creates")

	reverted, err := adminObj.Schema.Down(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, reverted)

	status, err = adminObj.Schema.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Report.Empty())
}

func TestSchemaService_DDLOnEmptyDatabase(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, adminObj, _ := GetMockAdminWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	ddl, err := adminObj.Schema.DDL(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ddl)
}

func TestSchemaService_UpFailure(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()

	ctrl, adminObj, _ := GetMockAdminWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	require.NoError(t, adminObj.Db.Conn.Exec("CREATE TABLE timer (id INTEGER PRIMARY KEY)").Error)

	applied, err := adminObj.Schema.Up(ctx)
	assert.Empty(t, applied)
	assert.True(t, schema.IsTableExists(err))
}

func TestWithServices_KeepsExistingOnNil(t *testing.T) {
	ctrl, adminObj, mockISchema := GetMockAdminWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	adminObj.WithServices(ServiceOpts{})
	assert.Same(t, mockISchema, adminObj.Schema)
}
