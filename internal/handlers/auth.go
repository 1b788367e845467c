package handlers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"diabolohub/internal/middleware"
	"diabolohub/internal/models"
	"diabolohub/internal/session"
	"diabolohub/internal/store"
)

// totpIssuer is the name shown in authenticator apps.
const totpIssuer = "Diabolo Hub"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Country  string `json:"country"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse is returned by register, login and me. TwoFactorRequired
// tells the client to ask for a TOTP code before anything else.
type authResponse struct {
	User              models.User `json:"user"`
	TwoFactorRequired bool        `json:"two_factor_required"`
}

// Register handles POST /api/v1/auth/register.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := validateRegistration(req.Username, req.Password, req.FullName, req.Country); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.userStore.Create(store.Registration{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Country:  req.Country,
	})
	if errors.Is(err, store.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "Username is already taken.")
		return
	}
	if err != nil {
		writeInternal(w, "register failed", err)
		return
	}

	if err := a.startSession(w, r, user); err != nil {
		writeInternal(w, "session create failed", err)
		return
	}

	slog.Info("member registered", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusCreated, authResponse{User: *user})
}

// Login handles POST /api/v1/auth/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := a.userStore.FindByUsername(req.Username)
	if err != nil {
		writeInternal(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	if err := a.startSession(w, r, user); err != nil {
		writeInternal(w, "session create failed", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: *user, TwoFactorRequired: user.Requires2FA()})
}

// startSession creates the login session. Members with TOTP enabled start
// with TwoFADone false and must call Verify2FA.
func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		TwoFADone: !user.Requires2FA(),
	})
	return err
}

// Logout handles POST /api/v1/auth/logout.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		writeInternal(w, "me lookup failed", err)
		return
	}
	if user == nil {
		// Account deleted while the session was alive.
		a.sessions.Destroy(r.Context(), w, r)
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: *user, TwoFactorRequired: !sess.TwoFADone})
}

// TwoFASetup handles POST /api/v1/auth/2fa/setup. It issues a fresh TOTP
// secret and returns it with a QR code as a PNG data URI. Only admins
// can enroll.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeInternal(w, "user lookup for 2fa failed", err)
		return
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Two-factor authentication is available to admins only.")
		return
	}
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "Two-factor authentication is already enabled.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Username,
	})
	if err != nil {
		writeInternal(w, "totp generate failed", err)
		return
	}

	if err := a.userStore.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		writeInternal(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeInternal(w, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_code": "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify handles POST /api/v1/auth/2fa/verify. The first valid code
// after setup enables TOTP on the account; every valid code completes the
// current session's second factor.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeInternal(w, "user lookup for 2fa failed", err)
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "Two-factor authentication is not set up.")
		return
	}

	if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			writeInternal(w, "enable totp failed", err)
			return
		}
		user.TOTPEnabled = true
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		writeInternal(w, "session update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: *user})
}
