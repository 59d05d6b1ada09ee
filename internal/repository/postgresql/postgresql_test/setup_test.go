package postgresql_test

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/petropump/attendance-backend/internal/pkg/database"
	"github.com/petropump/attendance-backend/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *database.DB

// TestMain connects to TEST_DATABASE_URL when set, otherwise starts a throwaway
// postgres container. Tests skip when neither is available or with -short.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	dsn := os.Getenv("TEST_DATABASE_URL")

	var container *postgres.PostgresContainer
	if dsn == "" {
		var err error
		container, dsn, err = startPostgres(ctx)
		if err != nil {
			log.Printf("postgres container unavailable, repository tests will be skipped: %v", err)
			os.Exit(m.Run())
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		log.Fatalf("connect test database: %v", err)
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate test database: %v", err)
	}
	testDB = db

	code := m.Run()

	db.Close()
	if container != nil {
		_ = container.Terminate(ctx)
	}
	os.Exit(code)
}

func startPostgres(ctx context.Context) (container *postgres.PostgresContainer, dsn string, err error) {
	// testcontainers panics when no docker host can be found
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("docker unavailable: %v", p)
		}
	}()

	container, err = postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("pump_attendance_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}
	return container, dsn, nil
}

// setupTestDB skips the test without a database and empties every table.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("no test database available")
	}

	ctx := context.Background()
	_, err := testDB.Exec(ctx, "TRUNCATE TABLE users, admins, credentials, attendance_ledger, user_attendance")
	require.NoError(t, err)
	return testDB
}
