// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"diabolohub/internal/middleware"
	"diabolohub/internal/models"
	"diabolohub/internal/slug"
	"diabolohub/internal/storage"
	"diabolohub/internal/store"
	"diabolohub/internal/tutorial"
)

const (
	// resizeQuality is the JPEG quality for downscaled avatars and covers.
	resizeQuality = 85

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	maxImagePixels = 50_000_000

	// formOverhead is allowed on top of the file size for other form fields.
	formOverhead = 64 << 10
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var videoTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// uploadRule describes what one upload endpoint accepts.
type uploadRule struct {
	kind     models.UploadKind
	maxSize  int64
	allowed  map[string]bool
	private  bool
	maxWidth int // images wider than this are downscaled to JPEG; 0 keeps the original
}

var (
	forumRule = uploadRule{
		kind:    models.UploadForum,
		maxSize: 50 << 20,
		allowed: union(imageTypes, videoTypes),
	}
	avatarRule = uploadRule{
		kind:     models.UploadAvatar,
		maxSize:  5 << 20,
		allowed:  imageTypes,
		maxWidth: 512,
	}
	coverRule = uploadRule{
		kind:     models.UploadCover,
		maxSize:  10 << 20,
		allowed:  imageTypes,
		maxWidth: 1600,
	}
	tutorialRule = uploadRule{
		kind:    models.UploadTutorial,
		maxSize: 200 << 20,
		allowed: videoTypes,
		private: true,
	}
)

func union(sets ...map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}

// uploadError is a failed upload with the status and message to answer.
type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

// Uploader stores multipart uploads in object storage and records them in
// the media table. A nil storage client disables every upload endpoint.
type Uploader struct {
	storage *storage.Client
	media   *store.MediaStore
}

// NewUploader creates an Uploader. storageClient may be nil.
func NewUploader(storageClient *storage.Client, media *store.MediaStore) *Uploader {
	return &Uploader{storage: storageClient, media: media}
}

// Enabled reports whether object storage is configured.
func (u *Uploader) Enabled() bool {
	return u != nil && u.storage != nil
}

// receive reads the "file" field of a multipart request, validates it
// against rule, uploads it and records it. The request's multipart form is
// parsed, so callers may read other form values afterwards.
func (u *Uploader) receive(w http.ResponseWriter, r *http.Request, rule uploadRule, uploaderID uuid.UUID) (*models.Media, *uploadError) {
	if !u.Enabled() {
		return nil, &uploadError{http.StatusServiceUnavailable, "Object storage is not configured."}
	}

	tooLarge := &uploadError{http.StatusRequestEntityTooLarge,
		fmt.Sprintf("File too large. Maximum size is %d MB.", rule.maxSize>>20)}

	r.Body = http.MaxBytesReader(w, r.Body, rule.maxSize+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, tooLarge
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "No file provided."}
	}
	defer file.Close()

	if header.Size > rule.maxSize {
		return nil, tooLarge
	}

	contentType, err := sniffContentType(file, header)
	if err != nil {
		return nil, &uploadError{http.StatusInternalServerError, "Failed to read file."}
	}
	if !rule.allowed[contentType] {
		return nil, &uploadError{http.StatusBadRequest, fmt.Sprintf("File type %q is not allowed.", contentType)}
	}

	var (
		body io.Reader = file
		size           = header.Size
		ext            = strings.ToLower(filepath.Ext(header.Filename))
	)
	if ext == "" {
		ext = extensionFromType(contentType)
	}

	if rule.maxWidth > 0 && contentType != "image/gif" {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, &uploadError{http.StatusInternalServerError, "Failed to read file."}
		}
		resized, err := downscale(bytes.NewReader(data), rule.maxWidth)
		if err != nil {
			return nil, &uploadError{http.StatusBadRequest, "Could not decode image."}
		}
		if resized != nil {
			data = resized
			contentType = "image/jpeg"
			ext = ".jpg"
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}

	bucket := u.storage.PublicBucket()
	if rule.private {
		bucket = u.storage.PrivateBucket()
	}
	key := storage.ObjectKey(string(rule.kind), uploaderID, ext, time.Now())

	if err := u.storage.Upload(r.Context(), bucket, key, contentType, body, size); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		return nil, &uploadError{http.StatusBadGateway, "Failed to upload file."}
	}

	url := "s3://" + bucket + "/" + key
	if !rule.private {
		url = u.storage.FileURL(key)
	}

	created, err := u.media.Create(&models.Media{
		Kind:         rule.kind,
		Filename:     filepath.Base(key),
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    size,
		Bucket:       bucket,
		S3Key:        key,
		URL:          url,
		UploaderID:   uploaderID,
	})
	if err != nil {
		slog.Error("media db insert failed", "error", err, "key", key)
		if err := u.storage.Delete(r.Context(), bucket, key); err != nil {
			slog.Warn("s3 cleanup failed", "error", err, "key", key)
		}
		return nil, &uploadError{http.StatusInternalServerError, "Failed to save file metadata."}
	}

	slog.Info("upload stored", "kind", rule.kind, "key", key, "size", size, "uploader", uploaderID)
	return created, nil
}

// discard removes a previously uploaded public object, given its URL.
// URLs that do not point at our bucket are ignored.
func (u *Uploader) discard(r *http.Request, url string) {
	if !u.Enabled() || url == "" {
		return
	}
	key, ok := u.storage.ExtractS3Key(url)
	if !ok {
		return
	}
	bucket := u.storage.PublicBucket()
	if _, err := u.media.DeleteByKey(bucket, key); err != nil {
		slog.Warn("media row delete failed", "error", err, "key", key)
	}
	if err := u.storage.Delete(r.Context(), bucket, key); err != nil {
		slog.Warn("s3 delete failed", "error", err, "key", key)
	}
}

// sniffContentType detects the type from the first 512 bytes and rewinds
// the file. QuickTime is not recognised by the sniffer, so .mov falls back
// to the extension.
func sniffContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(buf[:n])
	if contentType == "application/octet-stream" && strings.EqualFold(filepath.Ext(header.Filename), ".mov") {
		contentType = "video/quicktime"
	}
	return contentType, nil
}

// downscale re-encodes an image as JPEG no wider than maxWidth, keeping
// the aspect ratio. Returns nil if the image is already narrow enough.
func downscale(src io.ReadSeeker, maxWidth int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width <= maxWidth {
		return nil, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	height := int(float64(bounds.Dy()) * float64(maxWidth) / float64(bounds.Dx()))
	if height < 1 {
		height = 1
	}
	// JPEG has no alpha channel; transparent pixels land on white.
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: resizeQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	default:
		return ""
	}
}

// Uploads groups the upload endpoints that are not tied to a profile.
type Uploads struct {
	uploader    *Uploader
	submissions *store.SubmissionStore
}

// NewUploads creates the Uploads handler group.
func NewUploads(uploader *Uploader, submissions *store.SubmissionStore) *Uploads {
	return &Uploads{uploader: uploader, submissions: submissions}
}

// Forum handles POST /api/v1/forum/uploads. The returned URL and media
// type are meant to be attached to a post.
func (h *Uploads) Forum(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	m, uerr := h.uploader.receive(w, r, forumRule, sess.UserID)
	if uerr != nil {
		writeError(w, uerr.status, uerr.msg)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           m.ID,
		"url":          m.URL,
		"media_type":   m.PostMediaType(),
		"content_type": m.ContentType,
		"size":         m.HumanSize(),
		"filename":     m.OriginalName,
	})
}

// SubmitTutorial handles POST /api/v1/tutorials/submissions. The video
// goes to the private bucket and waits for moderation.
func (h *Uploads) SubmitTutorial(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	m, uerr := h.uploader.receive(w, r, tutorialRule, sess.UserID)
	if uerr != nil {
		writeError(w, uerr.status, uerr.msg)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	category, err := tutorial.ParseCategory(r.FormValue("category"))
	msg := validateSubmission(title, description)
	if msg == "" && err != nil {
		msg = "Unknown category."
	}
	if msg != "" {
		h.uploader.forget(r, m)
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if category == tutorial.CategoryAll {
		category = ""
	}

	sub, err := h.submissions.Create(&models.TutorialSubmission{
		UserID:      sess.UserID,
		Title:       title,
		Description: description,
		Slug:        slug.Generate(title),
		Category:    category,
		VideoID:     m.ID,
		VideoURL:    m.URL,
	})
	if err != nil {
		h.uploader.forget(r, m)
		writeInternal(w, "create submission failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// forget undoes receive: drops the media row and the stored object.
func (u *Uploader) forget(r *http.Request, m *models.Media) {
	if _, err := u.media.Delete(m.ID); err != nil {
		slog.Warn("media row delete failed", "error", err, "id", m.ID)
	}
	if err := u.storage.Delete(r.Context(), m.Bucket, m.S3Key); err != nil {
		slog.Warn("s3 delete failed", "error", err, "key", m.S3Key)
	}
}
