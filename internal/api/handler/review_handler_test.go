package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByTitle(ctx context.Context, titleID int64, offset, limit int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, author *models.User, req dto.CreateReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, titleID, author, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, titleID, reviewID int64, req dto.UpdateReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, titleID, reviewID int64) error {
	args := m.Called(ctx, titleID, reviewID)
	return args.Error(0)
}

func reviewTestRouter(reviews service.ReviewService, auth service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewReviewHandler(reviews).RegisterRoutes(r.Group("/api/v1"), middleware.AuthenticateOptional(auth))
	return r
}

func doReview(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func authFor(user *models.User, token string) *MockAuthService {
	mockAuth := new(MockAuthService)
	mockAuth.On("Authenticate", mock.Anything, token).Return(user, nil)
	return mockAuth
}

func TestReviewCreateEndpoint_AnonymousUnauthorized(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := reviewTestRouter(mockReviews, new(MockAuthService))

	w := doReview(r, http.MethodPost, "/api/v1/titles/5/reviews", `{"text":"Great.","score":9}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockReviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreateEndpoint_Success(t *testing.T) {
	author := &models.User{ID: "u1", Username: "reader", Role: models.RoleUser}
	mockReviews := new(MockReviewService)
	mockReviews.On("Create", mock.Anything, int64(5), author, dto.CreateReviewRequest{Text: "Great.", Score: 9}).
		Return(&models.Review{ID: 7, TitleID: 5, AuthorID: "u1", Text: "Great.", Score: 9, Author: *author}, nil)

	r := reviewTestRouter(mockReviews, authFor(author, "t"))
	w := doReview(r, http.MethodPost, "/api/v1/titles/5/reviews", `{"text":"Great.","score":9}`, "t")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"author":"reader"`)
	mockReviews.AssertExpectations(t)
}

func TestReviewCreateEndpoint_ScoreOutOfRange(t *testing.T) {
	author := &models.User{ID: "u1", Role: models.RoleUser}
	mockReviews := new(MockReviewService)

	r := reviewTestRouter(mockReviews, authFor(author, "t"))
	w := doReview(r, http.MethodPost, "/api/v1/titles/5/reviews", `{"text":"Great.","score":11}`, "t")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "score")
}

func TestReviewCreateEndpoint_Duplicate(t *testing.T) {
	author := &models.User{ID: "u1", Role: models.RoleUser}
	mockReviews := new(MockReviewService)
	mockReviews.On("Create", mock.Anything, int64(5), author, mock.AnythingOfType("dto.CreateReviewRequest")).
		Return(nil, service.ErrReviewExists)

	r := reviewTestRouter(mockReviews, authFor(author, "t"))
	w := doReview(r, http.MethodPost, "/api/v1/titles/5/reviews", `{"text":"Again.","score":8}`, "t")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already written a review")
}

func TestReviewUpdateEndpoint_StrangerForbidden(t *testing.T) {
	stranger := &models.User{ID: "u2", Role: models.RoleUser}
	mockReviews := new(MockReviewService)
	mockReviews.On("GetByID", mock.Anything, int64(5), int64(7)).
		Return(&models.Review{ID: 7, TitleID: 5, AuthorID: "u1"}, nil)

	r := reviewTestRouter(mockReviews, authFor(stranger, "t"))
	w := doReview(r, http.MethodPatch, "/api/v1/titles/5/reviews/7", `{"score":1}`, "t")

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockReviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewUpdateEndpoint_ModeratorMayEdit(t *testing.T) {
	moderator := &models.User{ID: "m1", Role: models.RoleModerator}
	mockReviews := new(MockReviewService)
	mockReviews.On("GetByID", mock.Anything, int64(5), int64(7)).
		Return(&models.Review{ID: 7, TitleID: 5, AuthorID: "u1"}, nil)
	mockReviews.On("Update", mock.Anything, int64(5), int64(7), mock.AnythingOfType("dto.UpdateReviewRequest")).
		Return(&models.Review{ID: 7, TitleID: 5, AuthorID: "u1", Score: 1}, nil)

	r := reviewTestRouter(mockReviews, authFor(moderator, "t"))
	w := doReview(r, http.MethodPatch, "/api/v1/titles/5/reviews/7", `{"score":1}`, "t")

	assert.Equal(t, http.StatusOK, w.Code)
	mockReviews.AssertExpectations(t)
}

func TestReviewDeleteEndpoint_AuthorSucceeds(t *testing.T) {
	author := &models.User{ID: "u1", Role: models.RoleUser}
	mockReviews := new(MockReviewService)
	mockReviews.On("GetByID", mock.Anything, int64(5), int64(7)).
		Return(&models.Review{ID: 7, TitleID: 5, AuthorID: "u1"}, nil)
	mockReviews.On("Delete", mock.Anything, int64(5), int64(7)).Return(nil)

	r := reviewTestRouter(mockReviews, authFor(author, "t"))
	w := doReview(r, http.MethodDelete, "/api/v1/titles/5/reviews/7", "", "t")

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReviewListEndpoint_TitleMissing(t *testing.T) {
	mockReviews := new(MockReviewService)
	mockReviews.On("ListByTitle", mock.Anything, int64(404), 0, 20).
		Return(nil, int64(0), service.ErrTitleNotFound)

	r := reviewTestRouter(mockReviews, new(MockAuthService))
	w := doReview(r, http.MethodGet, "/api/v1/titles/404/reviews", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewGetEndpoint_InvalidID(t *testing.T) {
	r := reviewTestRouter(new(MockReviewService), new(MockAuthService))
	w := doReview(r, http.MethodGet, "/api/v1/titles/5/reviews/abc", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
