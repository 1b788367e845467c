package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"diabolohub/internal/models"
)

// SubmissionStore handles tutorial submissions awaiting moderation.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore creates a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

const submissionColumns = `id, user_id, title, description, slug, category,
	video_id, video_url, status, created_at`

func scanSubmission(scanner interface{ Scan(...any) error }) (*models.TutorialSubmission, error) {
	var s models.TutorialSubmission
	err := scanner.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.Slug, &s.Category,
		&s.VideoID, &s.VideoURL, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a pending submission.
func (s *SubmissionStore) Create(sub *models.TutorialSubmission) (*models.TutorialSubmission, error) {
	row := s.db.QueryRow(`
		INSERT INTO tutorial_submissions (user_id, title, description, slug, category, video_id, video_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+submissionColumns,
		sub.UserID, sub.Title, sub.Description, sub.Slug, sub.Category, sub.VideoID, sub.VideoURL,
	)
	created, err := scanSubmission(row)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return created, nil
}

// ListByStatus returns submissions with the given status, oldest first so
// moderators work through the queue in order.
func (s *SubmissionStore) ListByStatus(status models.SubmissionStatus, limit, offset int) ([]models.TutorialSubmission, error) {
	rows, err := s.db.Query(`
		SELECT `+submissionColumns+`
		FROM tutorial_submissions
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.TutorialSubmission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// SetStatus moves a submission to approved or rejected. It reports whether
// the submission exists.
func (s *SubmissionStore) SetStatus(id uuid.UUID, status models.SubmissionStatus) (bool, error) {
	switch status {
	case models.SubmissionPending, models.SubmissionApproved, models.SubmissionRejected:
	default:
		return false, fmt.Errorf("set submission status: invalid status %q", status)
	}
	res, err := s.db.Exec(`UPDATE tutorial_submissions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return false, fmt.Errorf("set submission status: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
