package admin

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/home-controller-schema/pkg/admin/mocks"
	"liyu1981.xyz/home-controller-schema/pkg/db"
)

func GetMockAdminWithMemorySqliteDialector(t *testing.T, useMockISchema bool) (
	*gomock.Controller,
	*Admin,
	*mocks.MockISchema,
) {
	ctrl := gomock.NewController(t)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbInstance.Close() })

	adminInstance := &Admin{Db: *dbInstance}
	mockISchema := mocks.NewMockISchema(ctrl)

	schemaService := adminInstance.GetISchema()
	if useMockISchema {
		schemaService = mockISchema
	}

	adminInstance.WithServices(ServiceOpts{Schema: schemaService})

	return ctrl, adminInstance, mockISchema
}
