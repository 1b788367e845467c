package models

import (
	"testing"

	"github.com/google/uuid"
)

// TestUserIsAdmin verifies that IsAdmin accepts both admin roles.
func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "user role", role: RoleUser, want: false},
		{name: "admin role", role: RoleAdmin, want: true},
		{name: "super admin role", role: RoleSuperAdmin, want: true},
		{name: "empty role", role: Role(""), want: false},
		{name: "lowercase admin", role: Role("admin"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("User{Role: %q}.IsAdmin() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestRoleForUsername(t *testing.T) {
	tests := []struct {
		username string
		want     Role
	}{
		{"AldairDiabolist", RoleSuperAdmin},
		{"aldairdiabolist", RoleSuperAdmin},
		{" ADMIN ", RoleSuperAdmin},
		{"admin2", RoleUser},
		{"circusjane", RoleUser},
	}
	for _, tt := range tests {
		if got := RoleForUsername(tt.username); got != tt.want {
			t.Errorf("RoleForUsername(%q) = %q, want %q", tt.username, got, tt.want)
		}
	}
}

func TestUserRequires2FA(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		enabled bool
		want    bool
	}{
		{"user never", RoleUser, true, false},
		{"admin not enrolled", RoleAdmin, false, false},
		{"admin enrolled", RoleAdmin, true, true},
		{"super admin enrolled", RoleSuperAdmin, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role, TOTPEnabled: tt.enabled}
			if got := u.Requires2FA(); got != tt.want {
				t.Errorf("Requires2FA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserPublicHidesResidence(t *testing.T) {
	home := "Guadalajara"
	u := &User{ID: uuid.New(), Username: "aldair", Residence: &home}

	if got := u.Public(u.ID); got.Residence == nil {
		t.Error("owner should see their own residence")
	}
	if got := u.Public(uuid.New()); got.Residence != nil {
		t.Error("other viewers must not see residence")
	}
	if got := u.Public(uuid.Nil); got.Residence != nil {
		t.Error("anonymous viewers must not see residence")
	}
	if u.Residence == nil {
		t.Error("Public must not modify the receiver")
	}
}

func TestUserPostCountry(t *testing.T) {
	if got := (&User{Country: "México"}).PostCountry(); got != "México" {
		t.Errorf("PostCountry = %q", got)
	}
	if got := (&User{Country: "  "}).PostCountry(); got != "Global" {
		t.Errorf("PostCountry blank = %q, want Global", got)
	}
}
