package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryAPI is the persistence contract of the credential store. Lookups
// return internal.ErrUserNotFound for missing rows and Create returns
// internal.ErrEmailTaken on a unique violation.
type RepositoryAPI interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByDepartment(ctx context.Context, department string) ([]*userDatamodel.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	ExistsByRole(ctx context.Context, role string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// CreateUser registers a new account. The email is checked before the insert
// and the unique index catches the remaining race.
func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to check email availability", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if exists {
		return nil, internal.ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         coreUser.NormalizeRole(dto.Role),
		Department:   dto.Department,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, ToDataModel(u)); err != nil {
		if errors.Is(err, internal.ErrEmailTaken) {
			return nil, internal.ErrEmailTaken
		}
		s.logger.Error("failed to insert user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "department", u.Department)
	return u, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "id", id)
	}
	return FromDataModel(dm), nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	dm, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, s.lookupError(err, "email", email)
	}
	return FromDataModel(dm), nil
}

// VerifyCredential never distinguishes an unknown email from a wrong password.
func (s *Service) VerifyCredential(ctx context.Context, email, password string) (*User, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, internal.ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) ListByDepartment(ctx context.Context, department string) ([]*User, error) {
	rows, err := s.repo.ListByDepartment(ctx, strings.TrimSpace(department))
	if err != nil {
		s.logger.Error("failed to list department users", "department", department, "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, dto UpdateProfileDTO) (*User, error) {
	if dto.IsEmpty() {
		return nil, internal.ErrNoValidFields
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.GetUserByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"updated_at": time.Now().UTC()}
	if dto.Name != nil {
		fields["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Department != nil {
		fields["department"] = strings.TrimSpace(*dto.Department)
	}
	if dto.Password != nil {
		hash, err := HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		fields["password_hash"] = hash
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		s.logger.Error("failed to update profile", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	s.logger.Info("profile updated", "user_id", id, "password_changed", dto.Password != nil)
	return s.GetUserByID(ctx, id)
}

func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePasswordByEmail(ctx, NormalizeEmail(email), hash); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrUserNotFound
		}
		s.logger.Error("failed to reset password", "error", err)
		return internal.NewInternalError("failed to reset password", err)
	}
	s.logger.Info("password reset", "email_domain", emailDomain(email))
	return nil
}

// ResetPasswordByID backs the unauthenticated /forgot/{userId} route.
func (s *Service) ResetPasswordByID(ctx context.Context, id, newPassword string) error {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	return s.ResetPassword(ctx, u.Email, newPassword)
}

// EnsureAdmin creates the bootstrap administrator unless an admin exists.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password, department string) (bool, error) {
	exists, err := s.repo.ExistsByRole(ctx, coreUser.RoleAdmin.String())
	if err != nil {
		return false, internal.NewInternalError("failed to check for admin", err)
	}
	if exists {
		return false, nil
	}
	_, err = s.CreateUser(ctx, CreateUserDTO{
		Name:       name,
		Email:      email,
		Password:   password,
		Role:       coreUser.RoleAdmin.String(),
		Department: department,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) lookupError(err error, key, value string) error {
	if errors.Is(err, internal.ErrUserNotFound) {
		return internal.ErrUserNotFound
	}
	s.logger.Error("failed to load user", key, value, "error", err)
	return internal.NewInternalError("failed to load user", err)
}

func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}
