package models

import (
	"time"

	"github.com/google/uuid"

	"diabolohub/internal/tutorial"
)

// SubmissionStatus tracks moderation of a user-submitted tutorial.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// TutorialSubmission is a trick video sent in by a user for review before
// it can be added to the Learn catalog.
type TutorialSubmission struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Slug        string            `json:"slug"`
	Category    tutorial.Category `json:"category,omitempty"` // empty when the author left it open
	VideoID     uuid.UUID         `json:"video_id"`
	VideoURL    string            `json:"video_url"`
	Status      SubmissionStatus  `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}
