package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, authOptional gin.HandlerFunc) {
	reviews := rg.Group("/titles/:title_id/reviews", authOptional, middleware.AuthenticatedOrReadOnly())
	reviews.GET("", h.List)
	reviews.POST("", h.Create)
	reviews.GET("/:review_id", h.Get)
	reviews.PATCH("/:review_id", h.Update)
	reviews.DELETE("/:review_id", h.Delete)
}

// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	reviews, total, err := h.svc.ListByTitle(c.Request.Context(), titleID, offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, dto.FromModelToReviewResponse(&reviews[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(resp, total, offset, limit))
}

// Create binds author from the caller and title from the path; any author or
// title in the payload is ignored.
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.svc.Create(c.Request.Context(), titleID, middleware.CurrentUser(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToReviewResponse(review))
}

// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(review))
}

// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !middleware.CanModifyObject(middleware.CurrentUser(c), review.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author and not staff"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), titleID, reviewID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(updated))
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !middleware.CanModifyObject(middleware.CurrentUser(c), review.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author and not staff"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), titleID, reviewID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
