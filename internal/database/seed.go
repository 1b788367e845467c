package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates the super admin account and a couple of welcome posts when
// the users table is empty.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var adminID string
	err = tx.QueryRow(`
		INSERT INTO users (username, password_hash, full_name, country, bio, role)
		VALUES ($1, $2, $3, $4, $5, 'SUPER_ADMIN')
		RETURNING id
	`, "admin", string(hash), "Diabolo Hub", "México", "Community administrator.").Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	posts := []struct {
		channel, content string
	}{
		{"DIABOLO GLOBAL", "Welcome to Diabolo Hub! / ¡Bienvenidos a Diabolo Hub!"},
		{"DIABOLO EUROPA", "EJC registration is now open. Who is going?"},
	}
	for _, p := range posts {
		_, err := tx.Exec(`
			INSERT INTO forum_posts (user_id, username, user_country, channel, content, content_html)
			VALUES ($1, 'admin', 'México', $2, $3, $4)
		`, adminID, p.channel, p.content, "<p>"+p.content+"</p>\n")
		if err != nil {
			return fmt.Errorf("seed insert post: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"username", "admin",
		"password", "admin",
	)
	return nil
}
