package schema

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"liyu1981.xyz/home-controller-schema/pkg/db"
)

func GetMemorySqliteConn(t *testing.T) *sql.DB {
	t.Helper()

	instance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)

	sqlDB, err := instance.SqlDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return sqlDB
}

func ParseLogs(r io.Reader) []map[string]any {
	scanner := bufio.NewScanner(r)
	var logs []map[string]any

	for scanner.Scan() {
		var j map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
