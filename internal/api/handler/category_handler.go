package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, authOptional gin.HandlerFunc) {
	categories := rg.Group("/categories", authOptional, middleware.AdminOrReadOnly())
	categories.GET("", h.List)
	categories.POST("", h.Create)
	categories.DELETE("/:slug", h.Delete)
}

// List returns categories, optionally filtered by a name substring.
// GET /api/v1/categories?search=...
func (h *CategoryHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, cat := range list {
		resp = append(resp, dto.CategoryFromModel(cat))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(resp, total, offset, limit))
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryFromModel(*category))
}

// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
