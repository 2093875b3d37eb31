package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

type CommentResponse struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"review"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:       c.ID,
		ReviewID: c.ReviewID,
		Author:   c.Author.Username,
		Text:     c.Text,
		PubDate:  c.PubDate,
	}
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

func (r *UpdateCommentRequest) ApplyTo(comment *models.Comment) {
	if r.Text != nil {
		comment.Text = *r.Text
	}
}
