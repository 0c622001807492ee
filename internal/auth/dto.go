package auth

import (
	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
	"github.com/frahmantamala/grievance-management/internal/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// Session is a freshly issued token for a user.
type Session struct {
	User  *user.User
	Token string
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string          `json:"message"`
	User    user.PublicUser `json:"user"`
	Token   string          `json:"token"`
}
