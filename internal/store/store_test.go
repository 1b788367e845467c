// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"diabolohub/internal/database"
	"diabolohub/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "diabolohub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "diabolohub")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway user and removes it (and everything that
// cascades from it) when the test finishes.
func testUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()
	cleanUsers(t, db, username)
	u, err := NewUserStore(db).Create(Registration{
		Username: username,
		Password: "testpass123",
		FullName: "Test " + username,
		Country:  "Spain",
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, username) })
	return u
}

// testMedia inserts a media row owned by uploader.
func testMedia(t *testing.T, db *sql.DB, uploader uuid.UUID, kind models.UploadKind, contentType string) *models.Media {
	t.Helper()
	key := string(kind) + "/test/" + uuid.NewString()
	m, err := NewMediaStore(db).Create(&models.Media{
		Kind:         kind,
		Filename:     "file",
		OriginalName: "file",
		ContentType:  contentType,
		SizeBytes:    42,
		Bucket:       "test",
		S3Key:        key,
		URL:          "http://localhost/" + key,
		UploaderID:   uploader,
	})
	if err != nil {
		t.Fatalf("create test media: %v", err)
	}
	return m
}

// cleanUsers removes test users by username. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, name := range usernames {
		db.Exec("DELETE FROM users WHERE LOWER(username) = LOWER($1)", name)
	}
}
