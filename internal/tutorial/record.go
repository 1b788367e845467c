package tutorial

import (
	"fmt"
	"strings"
	"time"
)

// Record is a single tutorial as shown in the Learn view. Records are plain
// values; the engine copies them and never writes through them.
type Record struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        Category   `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	AuthorName      string     `json:"author_name"`
	AuthorCountry   string     `json:"author_country"`
	AuthorAvatarURL string     `json:"author_avatar_url,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
	LikeCount       int        `json:"like_count"`
	CommentCount    int        `json:"comment_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewRecord returns r after checking it with Validate. Catalog loading
// goes through it so that a malformed entry fails at startup.
func NewRecord(r Record) (Record, error) {
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks the construction-time invariants of a record.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("tutorial: record has empty id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("tutorial %s: empty title", r.ID)
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("tutorial %s: empty description", r.ID)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("tutorial %s: %w %q", r.ID, ErrInvalidCategory, r.Category)
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("tutorial %s: %w %q", r.ID, ErrInvalidDifficulty, r.Difficulty)
	}
	if r.LikeCount < 0 || r.CommentCount < 0 {
		return fmt.Errorf("tutorial %s: negative counters", r.ID)
	}
	return nil
}

// matchesText reports whether the lower-cased needle occurs in the title,
// description or author name. An empty needle matches everything.
func (r Record) matchesText(needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle) ||
		strings.Contains(strings.ToLower(r.AuthorName), needle)
}
