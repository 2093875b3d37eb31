package dto

// SignUpRequest carries the identity fields submitted at sign-up.
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=32"`
	Email    string `json:"email" binding:"required,email,max=64"`
}

// SignUpResponse echoes the submitted identity back to the caller. The
// confirmation code itself only travels by email.
type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest trades a confirmation code for an access token.
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=32"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
