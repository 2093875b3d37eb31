package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, username, email string) error {
	args := m.Called(ctx, username, email)
	return args.Error(0)
}

func (m *MockAuthService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func authRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Username})
	})
	return r
}

func doAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	r := authRouter(Authenticate(new(MockAuthService)))
	w := doAuth(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	r := authRouter(Authenticate(new(MockAuthService)))
	w := doAuth(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Authenticate", mock.Anything, "good-token").
		Return(&models.User{ID: "u1", Username: "reader"}, nil)

	r := authRouter(Authenticate(mockAuth))
	w := doAuth(r, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reader")
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Authenticate", mock.Anything, "bad-token").Return(nil, service.ErrInvalidToken)

	r := authRouter(Authenticate(mockAuth))
	w := doAuth(r, "Bearer bad-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateOptional_AnonymousPassesThrough(t *testing.T) {
	r := authRouter(AuthenticateOptional(new(MockAuthService)))
	w := doAuth(r, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestAuthenticateOptional_InvalidTokenStillRejected(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Authenticate", mock.Anything, "bad-token").Return(nil, service.ErrInvalidToken)

	r := authRouter(AuthenticateOptional(mockAuth))
	w := doAuth(r, "Bearer bad-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
