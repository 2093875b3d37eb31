package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
	"reviewhub/internal/metrics"
	"reviewhub/internal/validate"
)

const confirmationSubject = "ReviewHub: Confirmation code for your account"

// Claims is the JWT payload of an access token.
type Claims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SignUp creates the user if needed, issues a fresh confirmation code
	// and emails it. Calling it again for the same identity re-issues the
	// code.
	SignUp(ctx context.Context, username, email string) error
	// ExchangeToken trades a valid (username, code) pair for an access
	// token.
	ExchangeToken(ctx context.Context, username, code string) (string, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	mail          mailer.Mailer
	jwtSecret     string
	jwtExpiry     time.Duration
	codeSingleUse bool
}

func NewAuthService(userRepo repository.UserRepository, mail mailer.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo:      userRepo,
		mail:          mail,
		jwtSecret:     cfg.JWTSecret,
		jwtExpiry:     cfg.JWTExpiry,
		codeSingleUse: cfg.AuthCodeSingleUse,
	}
}

func (s *authService) SignUp(ctx context.Context, username, email string) error {
	if username == "me" {
		return validate.Errors{"username": {`The username "me" is reserved. You should select another.`}}
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			return validate.Errors{"username": {"A user with this username already exists."}}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return validate.Errors{"email": {"A user with this email already exists."}}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
	default:
		return err
	}

	// Only the bcrypt hash is persisted, the plaintext code travels by
	// email alone.
	code := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}
	user.ConfirmationCode = string(hash)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	body := fmt.Sprintf("%s, use this confirmation code to request an access token: %s", username, code)
	if err := s.mail.Send(ctx, email, confirmationSubject, body); err != nil {
		// Fail loud: a sign-up whose code never reached the user did not
		// succeed.
		return fmt.Errorf("dispatch confirmation code: %w", err)
	}

	metrics.SignupsTotal.Inc()
	return nil
}

func (s *authService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.ConfirmationCode == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(code)) != nil {
		metrics.TokenExchangesTotal.WithLabelValues("rejected").Inc()
		return "", ErrCodeMismatch
	}

	if s.codeSingleUse {
		user.ConfirmationCode = ""
		if err := s.userRepo.Save(ctx, user); err != nil {
			return "", err
		}
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", err
	}
	metrics.TokenExchangesTotal.WithLabelValues("issued").Inc()
	return token, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	// The token carries the role but the row is authoritative: a role
	// change takes effect without waiting for token expiry.
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
