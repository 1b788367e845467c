// Package store provides database access methods for all Diabolo Hub
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"diabolohub/internal/models"
)

// ErrUsernameTaken is returned by Create when the username already exists,
// compared case-insensitively.
var ErrUsernameTaken = errors.New("username already taken")

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// userColumns lists the columns selected in user queries.
const userColumns = `id, username, password_hash, full_name, country, residence, age,
	play_style, instagram, facebook, tiktok, bio, avatar_url, cover_url,
	role, totp_secret, totp_enabled, joined_at, updated_at`

// scanUser scans a user row from the result set.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Country, &u.Residence, &u.Age,
		&u.PlayStyle, &u.Socials.Instagram, &u.Socials.Facebook, &u.Socials.TikTok,
		&u.Bio, &u.AvatarURL, &u.CoverURL,
		&u.Role, &u.TOTPSecret, &u.TOTPEnabled, &u.JoinedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsername retrieves a user by username, ignoring case.
// Returns nil if not found.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`,
		strings.TrimSpace(username))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Registration holds the fields a new member fills in when signing up.
type Registration struct {
	Username string
	Password string
	FullName string
	Country  string
}

// Create inserts a new user with a bcrypt-hashed password. The role is
// derived from the username (see models.RoleForUsername).
func (s *UserStore) Create(r Registration) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	username := strings.TrimSpace(r.Username)
	row := s.db.QueryRow(`
		INSERT INTO users (username, password_hash, full_name, country, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		username, string(hash), strings.TrimSpace(r.FullName), strings.TrimSpace(r.Country),
		models.RoleForUsername(username),
	)
	u, err := scanUser(row)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdateProfile writes the editable profile fields of u.
func (s *UserStore) UpdateProfile(u *models.User) error {
	res, err := s.db.Exec(`
		UPDATE users SET full_name = $1, country = $2, residence = $3, age = $4,
			play_style = $5, instagram = $6, facebook = $7, tiktok = $8, bio = $9,
			updated_at = NOW()
		WHERE id = $10
	`, u.FullName, u.Country, u.Residence, u.Age, u.PlayStyle,
		u.Socials.Instagram, u.Socials.Facebook, u.Socials.TikTok, u.Bio, u.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update profile: user %s not found", u.ID)
	}
	return nil
}

// SetAvatarURL replaces the user's avatar image URL.
func (s *UserStore) SetAvatarURL(userID uuid.UUID, url string) error {
	_, err := s.db.Exec(`UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2`, url, userID)
	if err != nil {
		return fmt.Errorf("set avatar url: %w", err)
	}
	return nil
}

// SetCoverURL replaces the user's profile cover image URL.
func (s *UserStore) SetCoverURL(userID uuid.UUID, url string) error {
	_, err := s.db.Exec(`UPDATE users SET cover_url = $1, updated_at = NOW() WHERE id = $2`, url, userID)
	if err != nil {
		return fmt.Errorf("set cover url: %w", err)
	}
	return nil
}

// SetRole changes a user's role.
func (s *UserStore) SetRole(userID uuid.UUID, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("set role: invalid role %q", role)
	}
	_, err := s.db.Exec(`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for a user.
func (s *UserStore) ResetTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// Delete removes a user by ID.
func (s *UserStore) Delete(userID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
