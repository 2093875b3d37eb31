package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
	"reviewhub/internal/validate"
)

type TitleHandler struct {
	svc service.TitleService
}

func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup, authOptional gin.HandlerFunc) {
	titles := rg.Group("/titles", authOptional, middleware.AdminOrReadOnly())
	titles.GET("", h.List)
	titles.GET("/:title_id", h.Get)
	titles.POST("", h.Create)
	titles.PATCH("/:title_id", h.Update)
	titles.DELETE("/:title_id", h.Delete)
}

// List returns titles with their aggregated rating.
// GET /api/v1/titles?name=&category=&genre=&year=&ordering=
func (h *TitleHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	filter := repository.TitleFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Ordering: c.DefaultQuery("ordering", "-id"),
		Offset:   offset,
		Limit:    limit,
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, validate.Errors{"year": {"Enter a whole number."}})
			return
		}
		filter.Year = &year
	}
	if !validOrdering(filter.Ordering) {
		c.JSON(http.StatusBadRequest, validate.Errors{"ordering": {"Ordering must be one of: id, name, year."}})
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]dto.TitleResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, dto.FromModelToTitleResponse(t.Title, t.Rating))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(resp, total, offset, limit))
}

// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	title, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(title.Title, title.Rating))
}

// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToTitleResponse(title.Title, title.Rating))
}

// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	var req dto.UpdateTitleRequest
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(title.Title, title.Rating))
}

// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func validOrdering(ordering string) bool {
	switch ordering {
	case "id", "-id", "name", "-name", "year", "-year":
		return true
	}
	return false
}
