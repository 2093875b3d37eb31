package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, authOptional gin.HandlerFunc) {
	comments := rg.Group("/titles/:title_id/reviews/:review_id/comments", authOptional, middleware.AuthenticatedOrReadOnly())
	comments.GET("", h.List)
	comments.POST("", h.Create)
	comments.GET("/:comment_id", h.Get)
	comments.PATCH("/:comment_id", h.Update)
	comments.DELETE("/:comment_id", h.Delete)
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	comments, total, err := h.svc.ListByReview(c.Request.Context(), reviewID, offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, dto.FromModelToCommentResponse(&comments[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(resp, total, offset, limit))
}

// Create binds author from the caller and review from the path.
// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), reviewID, middleware.CurrentUser(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToCommentResponse(comment))
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.svc.GetByID(c.Request.Context(), reviewID, commentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.svc.GetByID(c.Request.Context(), reviewID, commentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !middleware.CanModifyObject(middleware.CurrentUser(c), comment.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author and not staff"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), reviewID, commentID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(updated))
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.svc.GetByID(c.Request.Context(), reviewID, commentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !middleware.CanModifyObject(middleware.CurrentUser(c), comment.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author and not staff"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), reviewID, commentID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
