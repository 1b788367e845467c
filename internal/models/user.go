// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the community.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// superAdminUsernames are promoted to SUPER_ADMIN on registration.
// Compared case-insensitively.
var superAdminUsernames = []string{"aldairdiabolist", "admin"}

// RoleForUsername returns the role a newly registered username receives.
func RoleForUsername(username string) Role {
	u := strings.ToLower(strings.TrimSpace(username))
	for _, s := range superAdminUsernames {
		if u == s {
			return RoleSuperAdmin
		}
	}
	return RoleUser
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Socials holds optional social media handles.
type Socials struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// User represents a community member with profile and 2FA fields.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	FullName     string    `json:"full_name"`
	Country      string    `json:"country"`
	Residence    *string   `json:"residence,omitempty"` // private, see Public
	Age          *int      `json:"age,omitempty"`
	PlayStyle    string    `json:"play_style,omitempty"`
	Socials      Socials   `json:"socials"`
	Bio          string    `json:"bio,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CoverURL     string    `json:"cover_url,omitempty"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	JoinedAt     time.Time `json:"joined_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true for ADMIN and SUPER_ADMIN users.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// Requires2FA returns true if logging in as this user needs a TOTP code.
// Only admin accounts can enroll.
func (u *User) Requires2FA() bool {
	return u.IsAdmin() && u.TOTPEnabled
}

// Public returns a copy of the user suitable for showing to viewer.
// Residence is only visible to the user themselves.
func (u *User) Public(viewer uuid.UUID) User {
	cp := *u
	if viewer != u.ID {
		cp.Residence = nil
		cp.TOTPEnabled = false
	}
	return cp
}

// PostCountry returns the country shown on the user's forum posts.
func (u *User) PostCountry() string {
	if c := strings.TrimSpace(u.Country); c != "" {
		return c
	}
	return "Global"
}
