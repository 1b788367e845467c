// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"diabolohub/internal/markdown"
	"diabolohub/internal/middleware"
	"diabolohub/internal/models"
	"diabolohub/internal/slug"
	"diabolohub/internal/store"
)

// Forum groups the regional channel endpoints.
type Forum struct {
	posts *store.ForumStore
	users *store.UserStore
}

// NewForum creates the Forum handler group.
func NewForum(posts *store.ForumStore, users *store.UserStore) *Forum {
	return &Forum{posts: posts, users: users}
}

type channelView struct {
	Name  models.Channel `json:"name"`
	Posts int            `json:"posts"`
}

// Channels handles GET /api/v1/forum/channels.
func (h *Forum) Channels(w http.ResponseWriter, r *http.Request) {
	counts, err := h.posts.CountByChannel()
	if err != nil {
		writeInternal(w, "count forum posts failed", err)
		return
	}
	out := make([]channelView, 0, len(models.Channels))
	for _, c := range models.Channels {
		out = append(out, channelView{Name: c, Posts: counts[c]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"channels": out})
}

// Posts handles GET /api/v1/forum/channels/{channel}/posts.
func (h *Forum) Posts(w http.ResponseWriter, r *http.Request) {
	channel, ok := models.ParseChannel(chi.URLParam(r, "channel"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown channel.")
		return
	}
	limit, offset := page(r)

	posts, err := h.posts.ListByChannel(channel, limit, offset)
	if err != nil {
		writeInternal(w, "list forum posts failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"channel": channel,
		"posts":   posts,
		"limit":   limit,
		"offset":  offset,
	})
}

type createPostRequest struct {
	Channel   string           `json:"channel"`
	Content   string           `json:"content"`
	MediaType models.MediaType `json:"media_type"`
	MediaURL  string           `json:"media_url"`
}

// Create handles POST /api/v1/forum/posts.
func (h *Forum) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	channel, ok := models.ParseChannel(req.Channel)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown channel.")
		return
	}
	req.MediaURL = strings.TrimSpace(req.MediaURL)
	if msg := validatePost(req.Content, req.MediaURL); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	mediaType, ok := postMediaType(req.MediaType, req.MediaURL)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid media type.")
		return
	}

	content := strings.TrimSpace(req.Content)
	html, err := markdown.ToHTML(content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Content could not be rendered.")
		return
	}

	author, err := h.users.FindByID(sess.UserID)
	if err != nil || author == nil {
		writeInternal(w, "post author lookup failed", err)
		return
	}

	post := &models.ForumPost{
		UserID:      author.ID,
		Username:    author.Username,
		UserCountry: author.PostCountry(),
		AvatarURL:   author.AvatarURL,
		Channel:     channel,
		Content:     content,
		ContentHTML: html,
		Slug:        slug.Generate(markdown.Excerpt(content, 60)),
		MediaType:   mediaType,
	}
	if req.MediaURL != "" {
		post.MediaURL = &req.MediaURL
	}

	created, err := h.posts.Create(post)
	if err != nil {
		writeInternal(w, "create forum post failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// postMediaType resolves the media type of a new post. Without a URL the
// post is plain text; with a URL and no explicit type it is a link.
func postMediaType(requested models.MediaType, url string) (models.MediaType, bool) {
	if url == "" {
		return models.MediaText, requested == "" || requested == models.MediaText
	}
	if requested == "" {
		return models.MediaLink, true
	}
	return requested, requested.Valid() && requested != models.MediaText
}

// Like handles POST /api/v1/forum/posts/{id}/like.
func (h *Forum) Like(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}

	likes, err := h.posts.Like(id, sess.UserID)
	if errors.Is(err, store.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "Post not found.")
		return
	}
	if err != nil {
		writeInternal(w, "like forum post failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "likes": likes})
}

// Delete handles DELETE /api/v1/forum/posts/{id}. Admin only.
func (h *Forum) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}

	deleted, err := h.posts.Delete(id)
	if err != nil {
		writeInternal(w, "delete forum post failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Post not found.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	slog.Info("forum post removed", "post_id", id, "by", sess.Username)
	w.WriteHeader(http.StatusNoContent)
}
