package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/home-controller-schema/pkg/admin"
	"liyu1981.xyz/home-controller-schema/pkg/admin/mocks"
	"liyu1981.xyz/home-controller-schema/pkg/common"
	"liyu1981.xyz/home-controller-schema/pkg/db"
	"liyu1981.xyz/home-controller-schema/pkg/migrate"
	_ "liyu1981.xyz/home-controller-schema/pkg/testing"
)

func setupTestServerWithLimiter(t *testing.T, limiter *admin.RateLimiterStore) *RestfulServer {
	gin.SetMode(gin.TestMode)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbInstance.Close() })

	adminObj := admin.Admin{Db: *dbInstance}
	adminObj.WithServices(admin.ServiceOpts{Schema: adminObj.GetISchema()})

	rs := &RestfulServer{
		Server:           gin.New(),
		Admin:            &adminObj,
		RateLimiterStore: limiter,
	}
	rs.Setup()

	return rs
}

// no limiter by default
func setupTestServer(t *testing.T) *RestfulServer {
	return setupTestServerWithLimiter(t, nil)
}

func postMigrate(rs *RestfulServer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/schema/migrate", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func getStatus(t *testing.T, rs *RestfulServer) migrate.SchemaStatus {
	req := httptest.NewRequest("GET", "/schema", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var status migrate.SchemaStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return status
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMigrateUpAndDown(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	status := getStatus(t, rs)
	assert.False(t, status.Complete)

	w := postMigrate(rs, `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"direction":"up","versions":[1]}`, w.Body.String())

	status = getStatus(t, rs)
	assert.True(t, status.Complete)
	assert.Len(t, status.Report.Tables, 14)
	require.Len(t, status.Migrations, 1)
	assert.NotNil(t, status.Migrations[0].AppliedAt)

	// nothing pending
	w = postMigrate(rs, `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"direction":"up","versions":[]}`, w.Body.String())

	req := httptest.NewRequest("GET", "/schema/ddl", nil)
	ddlW := httptest.NewRecorder()
	rs.Server.ServeHTTP(ddlW, req)
	assert.Equal(t, http.StatusOK, ddlW.Code)
	assert.Contains(t, ddlW.Body.String(), "CREATE TABLE device_command")

	w = postMigrate(rs, `{"direction":"down","steps":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"direction":"down","versions":[1]}`, w.Body.String())

	status = getStatus(t, rs)
	assert.True(t, status.Report.Empty())
}

func TestMigrate_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	for _, payload := range []string{
		`{}`,
		`{"direction":"sideways"}`,
		`{"direction":"down","steps":-1}`,
	} {
		rs := setupTestServer(t)
		w := postMigrate(rs, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
	}

	{
		rs := setupTestServer(t)
		// a stray table makes the bootstrap fail
		require.NoError(t, rs.Admin.Db.Conn.Exec("CREATE TABLE user (id INTEGER PRIMARY KEY)").Error)

		w := postMigrate(rs, `{"direction":"up"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	}

	{
		rs := setupTestServer(t)
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockISchema := mocks.NewMockISchema(ctrl)
		rs.Admin.Schema = mockISchema
		mockISchema.EXPECT().
			Down(gomock.Any(), gomock.Eq(2)).
			Return(nil, fmt.Errorf("just causing error")).
			Times(1)

		w := postMigrate(rs, `{"direction":"down","steps":2}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"just causing error"}`, w.Body.String())
	}
}

func TestStatusAndDDL_Errors(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockISchema := mocks.NewMockISchema(ctrl)
	rs.Admin.Schema = mockISchema

	mockISchema.EXPECT().Status(gomock.Any()).Return(nil, fmt.Errorf("no db")).Times(1)
	mockISchema.EXPECT().DDL(gomock.Any()).Return("", fmt.Errorf("no db")).Times(1)

	for _, path := range []string{"/schema", "/schema/ddl"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
	}
}

func TestMigrateWithLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(t, admin.NewRateLimiterStore(0.001, 2))
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockISchema := mocks.NewMockISchema(ctrl)
	rs.Admin.Schema = mockISchema

	mockISchema.EXPECT().Up(gomock.Any()).Return([]uint{}, nil).Times(2)

	assert.Equal(t, http.StatusOK, postMigrate(rs, `{"direction":"up"}`).Code)
	assert.Equal(t, http.StatusOK, postMigrate(rs, `{"direction":"up"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, postMigrate(rs, `{"direction":"up"}`).Code)

	// reads are not limited
	mockISchema.EXPECT().Status(gomock.Any()).Return(&migrate.SchemaStatus{}, nil).Times(1)
	req := httptest.NewRequest("GET", "/schema", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
