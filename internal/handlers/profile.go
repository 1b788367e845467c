package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"diabolohub/internal/middleware"
	"diabolohub/internal/models"
	"diabolohub/internal/store"
)

// Profile groups the member profile endpoints.
type Profile struct {
	users    *store.UserStore
	uploader *Uploader
}

// NewProfile creates the Profile handler group.
func NewProfile(users *store.UserStore, uploader *Uploader) *Profile {
	return &Profile{users: users, uploader: uploader}
}

// Show handles GET /api/v1/users/{username}. Private fields are only
// included when members look at their own profile.
func (h *Profile) Show(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		writeInternal(w, "profile lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Member not found.")
		return
	}

	viewer := uuid.Nil
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		viewer = sess.UserID
	}
	writeJSON(w, http.StatusOK, user.Public(viewer))
}

// Update handles PATCH /api/v1/profile.
func (h *Profile) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var in profileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := validateProfile(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeInternal(w, "profile lookup failed", err)
		return
	}

	applyProfile(user, in)
	if err := h.users.UpdateProfile(user); err != nil {
		writeInternal(w, "profile update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// applyProfile copies the non-nil fields of in onto u. Empty optional
// strings clear the field.
func applyProfile(u *models.User, in profileInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&u.FullName, in.FullName)
	set(&u.Country, in.Country)
	set(&u.PlayStyle, in.PlayStyle)
	set(&u.Bio, in.Bio)
	set(&u.Socials.Instagram, in.Instagram)
	set(&u.Socials.Facebook, in.Facebook)
	set(&u.Socials.TikTok, in.TikTok)

	if in.Residence != nil {
		if v := strings.TrimSpace(*in.Residence); v != "" {
			u.Residence = &v
		} else {
			u.Residence = nil
		}
	}
	if in.Age != nil {
		age := *in.Age
		u.Age = &age
	}
}

// Avatar handles POST /api/v1/profile/avatar.
func (h *Profile) Avatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, avatarRule)
}

// Cover handles POST /api/v1/profile/cover.
func (h *Profile) Cover(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, coverRule)
}

// replaceImage uploads a new avatar or cover, points the profile at it and
// removes the previous image.
func (h *Profile) replaceImage(w http.ResponseWriter, r *http.Request, rule uploadRule) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeInternal(w, "profile lookup failed", err)
		return
	}

	m, uerr := h.uploader.receive(w, r, rule, user.ID)
	if uerr != nil {
		writeError(w, uerr.status, uerr.msg)
		return
	}

	var old string
	if rule.kind == models.UploadAvatar {
		old = user.AvatarURL
		err = h.users.SetAvatarURL(user.ID, m.URL)
		user.AvatarURL = m.URL
	} else {
		old = user.CoverURL
		err = h.users.SetCoverURL(user.ID, m.URL)
		user.CoverURL = m.URL
	}
	if err != nil {
		h.uploader.forget(r, m)
		writeInternal(w, "profile image update failed", err)
		return
	}

	h.uploader.discard(r, old)
	writeJSON(w, http.StatusOK, user)
}
