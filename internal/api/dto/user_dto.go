package dto

import "reviewhub/internal/api/models"

type UserResponse struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

// CreateUserRequest is the admin-side user creation payload.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,max=32"`
	Email     string `json:"email" binding:"required,email,max=64"`
	FirstName string `json:"first_name" binding:"omitempty,max=32"`
	LastName  string `json:"last_name" binding:"omitempty,max=64"`
	Bio       string `json:"bio"`
	Role      string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=32"`
	Email     *string `json:"email" binding:"omitempty,email,max=64"`
	FirstName *string `json:"first_name" binding:"omitempty,max=32"`
	LastName  *string `json:"last_name" binding:"omitempty,max=64"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// ApplyTo copies the provided fields onto the user. Role changes are the
// caller's responsibility to authorize.
func (r *UpdateUserRequest) ApplyTo(u *models.User) {
	if r.Username != nil {
		u.Username = *r.Username
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Bio != nil {
		u.Bio = *r.Bio
	}
	if r.Role != nil {
		u.Role = models.Role(*r.Role)
	}
}
