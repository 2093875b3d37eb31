package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the anonymous auth endpoints. Extra middleware
// (rate limiting) is applied to the whole group.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	auth := rg.Group("/auth", mw...)
	auth.POST("/signup", h.SignUp)
	auth.POST("/token", h.Token)
}

// SignUp issues (or re-issues) a confirmation code and emails it.
// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.SignUp(c.Request.Context(), req.Username, req.Email); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignUpResponse{
		Username: req.Username,
		Email:    req.Email,
	})
}

// Token trades a confirmation code for an access token.
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.ExchangeToken(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
