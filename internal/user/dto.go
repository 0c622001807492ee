package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
)

// CreateUserDTO is the registration payload.
type CreateUserDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (d *CreateUserDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = NormalizeEmail(d.Email)
	d.Department = strings.TrimSpace(d.Department)
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(validation.MinPasswordLength)
	v.Field("role", d.Role).Required()
	v.Field("department", d.Department).Required().MaxLength(255)
	return v.Validate()
}

// UpdateProfileDTO carries the mutable profile fields; nil means unchanged.
type UpdateProfileDTO struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Password   *string `json:"password,omitempty"`
}

func (d UpdateProfileDTO) IsEmpty() bool {
	return d.Name == nil && d.Department == nil && d.Password == nil
}

func (d UpdateProfileDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(255)
	}
	if d.Department != nil {
		v.Field("department", *d.Department).Required().MaxLength(255)
	}
	if d.Password != nil {
		v.Field("password", *d.Password).Required().MinLength(validation.MinPasswordLength)
	}
	return v.Validate()
}

// ResetPasswordDTO is the body of POST /forgot/{userId}.
type ResetPasswordDTO struct {
	Password string `json:"password"`
}

// PublicUser is the only user shape that leaves the process.
type PublicUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role.String(),
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func ToPublicList(users []*User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToPublic())
	}
	return out
}

type UserResponse struct {
	User PublicUser `json:"user"`
}

type UsersResponse struct {
	Users []PublicUser `json:"users"`
}

type MessageUserResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
