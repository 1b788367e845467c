package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"diabolohub/internal/session"

	"github.com/google/uuid"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:    uuid.New(),
		Username:  "tester",
		Role:      role,
		TwoFADone: twoFADone,
	}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// fakeSessions implements SessionGetter.
type fakeSessions struct {
	data *session.Data
	err  error
}

func (f fakeSessions) Get(_ context.Context, _ *http.Request) (*session.Data, error) {
	return f.data, f.err
}

func decodeErrorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession("ADMIN", true)
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Username != sess.Username || got.Role != sess.Role {
			t.Errorf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	sess := newTestSession("USER", true)

	tests := []struct {
		name    string
		store   fakeSessions
		wantNil bool
	}{
		{"session found", fakeSessions{data: sess}, false},
		{"no session", fakeSessions{}, true},
		{"store error", fakeSessions{err: errors.New("valkey down")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = SessionFromCtx(r.Context())
			})

			rr := httptest.NewRecorder()
			LoadSession(tt.store)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

			if !called {
				t.Fatal("next handler not called")
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("session nil = %v, want %v", got == nil, tt.wantNil)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("passes with session", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req = req.WithContext(WithSession(req.Context(), newTestSession("USER", true)))
		rr := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler was not called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})

	t.Run("401 without session", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

		if *called {
			t.Error("next handler should not run")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if msg := decodeErrorBody(t, rr); msg != "authentication required" {
			t.Errorf("error: got %q", msg)
		}
	})
}

func TestRequire2FA(t *testing.T) {
	tests := []struct {
		name       string
		sess       *session.Data
		wantStatus int
	}{
		{"verified", newTestSession("ADMIN", true), http.StatusOK},
		{"pending", newTestSession("ADMIN", false), http.StatusForbidden},
		{"no session", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
			if tt.sess != nil {
				req = req.WithContext(WithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()

			Require2FA(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		sess *session.Data
		want int
	}{
		{"admin", newTestSession("ADMIN", true), http.StatusOK},
		{"super admin", newTestSession("SUPER_ADMIN", true), http.StatusOK},
		{"user", newTestSession("USER", true), http.StatusForbidden},
		{"empty role", newTestSession("", true), http.StatusForbidden},
		{"lower-case role", newTestSession("admin", true), http.StatusForbidden},
		{"no session", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/forum/posts/1", nil)
			if tt.sess != nil {
				req = req.WithContext(WithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()

			RequireAdmin(next).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			if *called != (tt.want == http.StatusOK) {
				t.Errorf("next called = %v", *called)
			}
		})
	}
}
