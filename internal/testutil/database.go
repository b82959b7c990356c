package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"orderdesk/internal/infrastructure/mysql"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// SetupTestDB returns a connection to a throwaway MySQL started in a
// container, shared by every test of the package. The test is skipped when
// no container runtime is available.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	containerOnce.Do(func() {
		ctx := context.Background()
		container, err := tcmysql.Run(ctx, "mysql:8.0",
			tcmysql.WithDatabase("orderdesk_test"),
			tcmysql.WithUsername("orderdesk"),
			tcmysql.WithPassword("secret"),
		)
		if err != nil {
			containerErr = err
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "parseTime=true")
	})
	if containerErr != nil {
		t.Skipf("test database not available: %v", containerErr)
	}

	db, err := sql.Open("mysql", containerDSN)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the schema used by the repositories.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := mysql.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for _, table := range []string{"Orders", "Product"} {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
