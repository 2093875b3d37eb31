package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup, authOptional gin.HandlerFunc) {
	genres := rg.Group("/genres", authOptional, middleware.AdminOrReadOnly())
	genres.GET("", h.List)
	genres.POST("", h.Create)
	genres.DELETE("/:slug", h.Delete)
}

// GET /api/v1/genres?search=...
func (h *GenreHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(resp, total, offset, limit))
}

// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if !bindJSON(c, &req) {
		return
	}

	genre, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(*genre))
}

// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
