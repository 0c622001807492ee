package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/grievance-management/internal"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/frahmantamala/grievance-management/internal/user"
)

// UserStore is the slice of the credential store the token issuer needs.
type UserStore interface {
	CreateUser(ctx context.Context, dto user.CreateUserDTO) (*user.User, error)
	VerifyCredential(ctx context.Context, email, password string) (*user.User, error)
	GetUserByID(ctx context.Context, id string) (*user.User, error)
}

type Service struct {
	users    UserStore
	tokens   TokenGenerator
	denylist Denylist
	logger   *slog.Logger
}

func NewService(users UserStore, tokens TokenGenerator, denylist Denylist, logger *slog.Logger) *Service {
	if denylist == nil {
		denylist = NoopDenylist{}
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
	}
}

// Register creates the account and signs it in.
func (s *Service) Register(ctx context.Context, dto user.CreateUserDTO) (*Session, error) {
	u, err := s.users.CreateUser(ctx, dto)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.VerifyCredential(ctx, dto.Email, dto.Password)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidCredentials) {
			s.logger.Warn("login failed: invalid credentials")
		}
		return nil, err
	}
	return s.issue(u)
}

// Logout revokes the presented token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return err
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return internal.ErrInvalidToken
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("failed to revoke token", "user_id", claims.UserID, "error", err)
		return internal.NewInternalError("failed to revoke token", err)
	}
	s.logger.Info("token revoked", "user_id", claims.UserID)
	return nil
}

// Authenticate verifies the token and loads the requester it is bound to.
func (s *Service) Authenticate(ctx context.Context, token string) (*coreUser.Identity, error) {
	if token == "" {
		return nil, internal.ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("denylist lookup failed", "error", err)
			return nil, internal.NewInternalError("failed to verify token", err)
		}
		if revoked {
			return nil, internal.ErrTokenRevoked
		}
	}

	u, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

func (s *Service) issue(u *user.User) (*Session, error) {
	token, _, err := s.tokens.GenerateAccessToken(u.ID)
	if err != nil {
		s.logger.Error("failed to sign token", "user_id", u.ID, "error", err)
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	return &Session{User: u, Token: token}, nil
}
