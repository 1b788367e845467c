// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"diabolohub/internal/models"
)

// ErrPostNotFound is returned by Like when the post does not exist.
var ErrPostNotFound = errors.New("forum post not found")

// ForumStore handles forum post database operations.
type ForumStore struct {
	db *sql.DB
}

// NewForumStore creates a new ForumStore with the given database connection.
func NewForumStore(db *sql.DB) *ForumStore {
	return &ForumStore{db: db}
}

// postColumns lists the columns selected in forum post queries.
const postColumns = `id, user_id, username, user_country, avatar_url, channel,
	content, content_html, slug, media_type, media_url, likes, comments, created_at`

// scanPost scans a forum post row from the result set.
func scanPost(scanner interface{ Scan(...any) error }) (*models.ForumPost, error) {
	var p models.ForumPost
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Username, &p.UserCountry, &p.AvatarURL, &p.Channel,
		&p.Content, &p.ContentHTML, &p.Slug, &p.MediaType, &p.MediaURL,
		&p.Likes, &p.Comments, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new post and returns it with the generated ID and
// timestamp. Likes and comments start at zero.
func (s *ForumStore) Create(p *models.ForumPost) (*models.ForumPost, error) {
	row := s.db.QueryRow(`
		INSERT INTO forum_posts (user_id, username, user_country, avatar_url, channel,
			content, content_html, slug, media_type, media_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+postColumns,
		p.UserID, p.Username, p.UserCountry, p.AvatarURL, p.Channel,
		p.Content, p.ContentHTML, p.Slug, p.MediaType, p.MediaURL,
	)
	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create forum post: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single post. Returns nil if not found.
func (s *ForumStore) FindByID(id uuid.UUID) (*models.ForumPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM forum_posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find forum post: %w", err)
	}
	return p, nil
}

// ListByChannel returns the posts of a channel, newest first, with pagination.
func (s *ForumStore) ListByChannel(channel models.Channel, limit, offset int) ([]models.ForumPost, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM forum_posts
		WHERE channel = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, channel, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list forum posts: %w", err)
	}
	defer rows.Close()

	posts := []models.ForumPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan forum post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// CountByChannel returns the number of posts in each channel. Channels
// without posts are present with a zero count.
func (s *ForumStore) CountByChannel() (map[models.Channel]int, error) {
	counts := make(map[models.Channel]int, len(models.Channels))
	for _, c := range models.Channels {
		counts[c] = 0
	}

	rows, err := s.db.Query(`SELECT channel, COUNT(*) FROM forum_posts GROUP BY channel`)
	if err != nil {
		return nil, fmt.Errorf("count forum posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Channel
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, fmt.Errorf("scan forum count: %w", err)
		}
		counts[c] = n
	}
	return counts, rows.Err()
}

// Like records a like from userID on the post and returns the new like
// count. Liking the same post twice is a no-op.
func (s *ForumStore) Like(postID, userID uuid.UUID) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("like begin: %w", err)
	}
	defer tx.Rollback()

	var likes int
	err = tx.QueryRow(`SELECT likes FROM forum_posts WHERE id = $1 FOR UPDATE`, postID).Scan(&likes)
	if err == sql.ErrNoRows {
		return 0, ErrPostNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("like lock post: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO forum_post_likes (post_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, userID)
	if err != nil {
		return 0, fmt.Errorf("like insert: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		if err := tx.QueryRow(`
			UPDATE forum_posts SET likes = likes + 1 WHERE id = $1 RETURNING likes
		`, postID).Scan(&likes); err != nil {
			return 0, fmt.Errorf("like increment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("like commit: %w", err)
	}
	return likes, nil
}

// Delete removes a post. It reports whether a post was deleted.
func (s *ForumStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM forum_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete forum post: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
