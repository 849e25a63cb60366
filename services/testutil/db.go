package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"banquet-backoffice/pkg/db"
)

var dbSeq atomic.Int64

// NewTestDB opens a throwaway in-memory SQLite database, migrates the given
// models and closes the pool when the test ends. The DSN is keyed by test
// name plus a sequence number so parallel tests and subtests never share
// state; cache=shared with a single pooled connection keeps the schema alive
// for the lifetime of the test.
func NewTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: db.NewZapGormLogger(zap.NewNop(), logger.Silent, false),
	})
	require.NoError(t, err, "open test database")

	if len(models) > 0 {
		require.NoError(t, gdb.AutoMigrate(models...), "migrate test database")
	}

	pool, err := gdb.DB()
	require.NoError(t, err)
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = pool.Close() })

	return gdb
}
