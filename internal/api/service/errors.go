package service

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")

	ErrCodeMismatch = errors.New("confirmation code mismatch")
	ErrInvalidToken = errors.New("invalid token")

	ErrReviewExists = errors.New("review already exists for this author and title")
)
