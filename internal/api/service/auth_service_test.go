package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/config"
	"reviewhub/internal/validate"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) DeleteByUsername(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// MockMailer mocks the Mailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret-test-secret-test-sec",
		JWTExpiry: time.Hour,
	}
}

// codeFromBody extracts the confirmation code from the email body. The code
// is the last colon-separated token.
func codeFromBody(body string) string {
	idx := strings.LastIndex(body, ": ")
	if idx < 0 {
		return ""
	}
	return body[idx+2:]
}

func TestSignUp_NewUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := NewAuthService(mockRepo, mockMail, testAuthConfig())

	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "reader@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	var savedHash string
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			savedHash = args.Get(1).(*models.User).ConfirmationCode
		}).Return(nil)

	var sentBody string
	mockMail.On("Send", mock.Anything, "reader@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			sentBody = args.Get(3).(string)
		}).Return(nil)

	err := svc.SignUp(context.Background(), "reader", "reader@example.com")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockMail.AssertExpectations(t)

	// The row stores a bcrypt hash of the exact code that was emailed.
	code := codeFromBody(sentBody)
	assert.NotEmpty(t, code)
	assert.NotEqual(t, code, savedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedHash), []byte(code)))
}

func TestSignUp_ReservedUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := NewAuthService(mockRepo, mockMail, testAuthConfig())

	err := svc.SignUp(context.Background(), "me", "me@example.com")

	ve, ok := validate.AsErrors(err)
	assert.True(t, ok)
	assert.Contains(t, ve, "username")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_UsernameTakenByOtherEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := NewAuthService(mockRepo, mockMail, testAuthConfig())

	existing := &models.User{ID: "u1", Username: "reader", Email: "other@example.com"}
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(existing, nil)

	err := svc.SignUp(context.Background(), "reader", "reader@example.com")

	ve, ok := validate.AsErrors(err)
	assert.True(t, ok)
	assert.Contains(t, ve, "username")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockMail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUp_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := NewAuthService(mockRepo, mockMail, testAuthConfig())

	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "reader@example.com").
		Return(&models.User{ID: "u2", Username: "other", Email: "reader@example.com"}, nil)

	err := svc.SignUp(context.Background(), "reader", "reader@example.com")

	ve, ok := validate.AsErrors(err)
	assert.True(t, ok)
	assert.Contains(t, ve, "email")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_ReissuesCodeForExistingIdentity(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := NewAuthService(mockRepo, mockMail, testAuthConfig())

	existing := &models.User{
		ID:               "u1",
		Username:         "reader",
		Email:            "reader@example.com",
		ConfirmationCode: "old-hash",
	}
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(existing, nil)
	mockRepo.On("Save", mock.Anything, existing).Return(nil)
	mockMail.On("Send", mock.Anything, "reader@example.com", mock.Anything, mock.Anything).Return(nil)

	err := svc.SignUp(context.Background(), "reader", "reader@example.com")

	assert.NoError(t, err)
	assert.NotEqual(t, "old-hash", existing.ConfirmationCode)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
	mockMail.AssertExpectations(t)
}

func TestSignUp_MailFailureFailsTheSignup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := NewAuthService(mockRepo, mockMail, testAuthConfig())

	existing := &models.User{ID: "u1", Username: "reader", Email: "reader@example.com"}
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(existing, nil)
	mockRepo.On("Save", mock.Anything, existing).Return(nil)
	mockMail.On("Send", mock.Anything, "reader@example.com", mock.Anything, mock.Anything).
		Return(errors.New("smtp: connection refused"))

	err := svc.SignUp(context.Background(), "reader", "reader@example.com")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func userWithCode(t *testing.T, code string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	assert.NoError(t, err)
	return &models.User{
		ID:               "u1",
		Username:         "reader",
		Email:            "reader@example.com",
		Role:             models.RoleUser,
		ConfirmationCode: string(hash),
	}
}

func TestExchangeToken_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cfg := testAuthConfig()
	svc := NewAuthService(mockRepo, new(MockMailer), cfg)

	user := userWithCode(t, "code-123")
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)

	token, err := svc.ExchangeToken(context.Background(), "reader", "code-123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestExchangeToken_WrongCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, new(MockMailer), testAuthConfig())

	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(userWithCode(t, "code-123"), nil)

	_, err := svc.ExchangeToken(context.Background(), "reader", "wrong-code")

	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestExchangeToken_NoCodeIssued(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, new(MockMailer), testAuthConfig())

	user := &models.User{ID: "u1", Username: "reader", Role: models.RoleUser}
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)

	_, err := svc.ExchangeToken(context.Background(), "reader", "anything")

	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestExchangeToken_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, new(MockMailer), testAuthConfig())

	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ExchangeToken(context.Background(), "ghost", "code-123")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExchangeToken_CodeIsReusableByDefault(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, new(MockMailer), testAuthConfig())

	user := userWithCode(t, "code-123")
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)

	_, err := svc.ExchangeToken(context.Background(), "reader", "code-123")
	assert.NoError(t, err)

	// Second exchange with the same code still works.
	_, err = svc.ExchangeToken(context.Background(), "reader", "code-123")
	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExchangeToken_SingleUseClearsCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cfg := testAuthConfig()
	cfg.AuthCodeSingleUse = true
	svc := NewAuthService(mockRepo, new(MockMailer), cfg)

	user := userWithCode(t, "code-123")
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)
	mockRepo.On("Save", mock.Anything, user).Return(nil)

	_, err := svc.ExchangeToken(context.Background(), "reader", "code-123")
	assert.NoError(t, err)
	assert.Empty(t, user.ConfirmationCode)

	_, err = svc.ExchangeToken(context.Background(), "reader", "code-123")
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestAuthenticate_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, new(MockMailer), testAuthConfig())

	user := userWithCode(t, "code-123")
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)
	token, err := svc.ExchangeToken(context.Background(), "reader", "code-123")
	assert.NoError(t, err)

	// The row is re-read on every request: a role change applies without
	// waiting for token expiry.
	fresh := &models.User{ID: "u1", Username: "reader", Role: models.RoleModerator}
	mockRepo.On("FindByID", mock.Anything, "u1").Return(fresh, nil)

	got, err := svc.Authenticate(context.Background(), token)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, got.Role)
}

func TestAuthenticate_Garbage(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockMailer), testAuthConfig())

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	other := testAuthConfig()
	other.JWTSecret = "another-secret-another-secret-ab"

	mockRepo := new(MockUserRepository)
	issuer := NewAuthService(mockRepo, new(MockMailer), other)

	user := userWithCode(t, "code-123")
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)
	token, err := issuer.ExchangeToken(context.Background(), "reader", "code-123")
	assert.NoError(t, err)

	verifier := NewAuthService(new(MockUserRepository), new(MockMailer), testAuthConfig())
	_, err = verifier.Authenticate(context.Background(), token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_Expired(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cfg := testAuthConfig()
	cfg.JWTExpiry = -time.Minute
	issuer := NewAuthService(mockRepo, new(MockMailer), cfg)

	user := userWithCode(t, "code-123")
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)
	token, err := issuer.ExchangeToken(context.Background(), "reader", "code-123")
	assert.NoError(t, err)

	_, err = issuer.Authenticate(context.Background(), token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_UserDeleted(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, new(MockMailer), testAuthConfig())

	user := userWithCode(t, "code-123")
	mockRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)
	token, err := svc.ExchangeToken(context.Background(), "reader", "code-123")
	assert.NoError(t, err)

	mockRepo.On("FindByID", mock.Anything, "u1").Return(nil, gorm.ErrRecordNotFound)

	_, err = svc.Authenticate(context.Background(), token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
