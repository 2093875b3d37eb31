package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

type ReviewResponse struct {
	ID      int64     `json:"id"`
	TitleID int64     `json:"title"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		TitleID: r.TitleID,
		Author:  r.Author.Username,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

// CreateReviewRequest ignores any author/title in the payload; both are
// bound from the caller and the path.
type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewRequest is a partial update. pub_date is immutable and the
// one-review-per-title rule is not re-checked here.
type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

func (r *UpdateReviewRequest) ApplyTo(review *models.Review) {
	if r.Text != nil {
		review.Text = *r.Text
	}
	if r.Score != nil {
		review.Score = *r.Score
	}
}
