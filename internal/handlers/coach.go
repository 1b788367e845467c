package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"diabolohub/internal/coach"
	"diabolohub/internal/locale"
	"diabolohub/internal/session"
)

// CoachCookieName identifies anonymous coach conversations.
const CoachCookieName = "dh_coach"

// Coach serves the AI coach chat.
type Coach struct {
	client coach.Client
	secure bool
}

// NewCoach creates the Coach handler group. client may be nil when no
// model is configured; the endpoint then answers 503.
func NewCoach(client coach.Client, secure bool) *Coach {
	return &Coach{client: client, secure: secure}
}

type coachRequest struct {
	Message string `json:"message"`
	Lang    string `json:"lang"`
}

// Send handles POST /api/v1/coach/messages.
func (h *Coach) Send(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "The coach is not available.")
		return
	}

	var req coachRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	lang := locale.Parse(req.Lang)
	reply, err := h.client.Send(r.Context(), h.conversationID(w, r), lang, req.Message)
	if errors.Is(err, coach.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "Message is required.")
		return
	}
	if err != nil {
		writeInternal(w, "coach send failed", err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// conversationID keys the chat history. Signed-in members use their
// session; anonymous visitors get a long-lived random cookie.
func (h *Coach) conversationID(w http.ResponseWriter, r *http.Request) string {
	if id := session.ID(r); id != "" {
		return "s:" + id
	}
	if c, err := r.Cookie(CoachCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return "a:" + c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CoachCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(session.DefaultTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return "a:" + id
}
