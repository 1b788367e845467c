// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"diabolohub/internal/middleware"
	"diabolohub/internal/models"
	"diabolohub/internal/storage"
	"diabolohub/internal/store"
)

// presignExpiry is how long a moderator's link to a private video is valid.
const presignExpiry = 1 * time.Hour

// Admin groups the moderation endpoints. Routes are mounted behind
// RequireAuth, Require2FA and RequireAdmin.
type Admin struct {
	submissions *store.SubmissionStore
	media       *store.MediaStore
	users       *store.UserStore
	storage     *storage.Client
}

// NewAdmin creates the Admin handler group. storageClient may be nil.
func NewAdmin(submissions *store.SubmissionStore, media *store.MediaStore, users *store.UserStore, storageClient *storage.Client) *Admin {
	return &Admin{
		submissions: submissions,
		media:       media,
		users:       users,
		storage:     storageClient,
	}
}

// Submissions handles GET /api/v1/admin/submissions?status=pending. Video
// URLs are replaced by presigned links when storage is configured.
func (a *Admin) Submissions(w http.ResponseWriter, r *http.Request) {
	status := models.SubmissionStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.SubmissionPending
	}
	if !validSubmissionStatus(status) {
		writeError(w, http.StatusBadRequest, "Unknown status.")
		return
	}
	limit, offset := page(r)

	subs, err := a.submissions.ListByStatus(status, limit, offset)
	if err != nil {
		writeInternal(w, "list submissions failed", err)
		return
	}

	if a.storage != nil {
		for i := range subs {
			m, err := a.media.FindByID(subs[i].VideoID)
			if err != nil || m == nil {
				slog.Warn("submission video lookup failed", "error", err, "submission", subs[i].ID)
				continue
			}
			url, err := a.storage.PresignedURL(r.Context(), m.Bucket, m.S3Key, presignExpiry)
			if err != nil {
				slog.Warn("presign failed", "error", err, "key", m.S3Key)
				continue
			}
			subs[i].VideoURL = url
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      status,
		"submissions": subs,
		"limit":       limit,
		"offset":      offset,
	})
}

// SetSubmissionStatus handles POST /api/v1/admin/submissions/{id}/status.
func (a *Admin) SetSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}

	var req struct {
		Status models.SubmissionStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Status != models.SubmissionApproved && req.Status != models.SubmissionRejected {
		writeError(w, http.StatusBadRequest, "Status must be approved or rejected.")
		return
	}

	found, err := a.submissions.SetStatus(id, req.Status)
	if err != nil {
		writeInternal(w, "set submission status failed", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Submission not found.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	slog.Info("submission moderated", "submission", id, "status", req.Status, "by", sess.Username)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

// SetRole handles POST /api/v1/admin/users/{id}/role. Only SUPER_ADMIN may
// promote or demote members, and nobody can change their own role.
func (a *Admin) SetRole(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if models.Role(sess.Role) != models.RoleSuperAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	if id == sess.UserID {
		writeError(w, http.StatusBadRequest, "You cannot change your own role.")
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil || !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "Role must be USER, ADMIN or SUPER_ADMIN.")
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		writeInternal(w, "user lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Member not found.")
		return
	}

	if err := a.users.SetRole(id, req.Role); err != nil {
		writeInternal(w, "set role failed", err)
		return
	}
	user.Role = req.Role

	slog.Info("role changed", "user_id", id, "role", req.Role, "by", sess.Username)
	writeJSON(w, http.StatusOK, user)
}

func validSubmissionStatus(s models.SubmissionStatus) bool {
	switch s {
	case models.SubmissionPending, models.SubmissionApproved, models.SubmissionRejected:
		return true
	}
	return false
}
