package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/validate"
)

type UserService interface {
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateByUsername(ctx context.Context, username string, req dto.UpdateUserRequest) (*models.User, error)
	DeleteByUsername(ctx context.Context, username string) error
	// UpdateSelf applies a partial update to the caller's own profile.
	// Username and email are read-only here, and the role sticks unless the
	// caller already is an admin.
	UpdateSelf(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, validate.Errors{"username": {"A user with this username already exists."}}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, validate.Errors{"email": {"A user with this email already exists."}}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      models.RoleUser,
	}
	if req.Role != "" {
		user.Role = models.Role(req.Role)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateByUsername(ctx context.Context, username string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(user)
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validate.Errors{"username": {"A user with this username or email already exists."}}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	if err := s.userRepo.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UpdateSelf(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*models.User, error) {
	// Identity fields are read-only on the self endpoint and silently
	// dropped when submitted.
	req.Username = nil
	req.Email = nil

	storedRole := user.Role
	req.ApplyTo(user)

	// A non-admin cannot escalate through this path.
	if !storedRole.CanAdminister() {
		user.Role = storedRole
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
