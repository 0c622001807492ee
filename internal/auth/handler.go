package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/grievance-management/internal"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/internal/user"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto user.CreateUserDTO) (*Session, error)
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*coreUser.Identity, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

// Register handles POST /users/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto user.CreateUserDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	session, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		User:    session.User.ToPublic(),
		Token:   session.Token,
	})
}

// Login handles POST /users/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	session, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    session.User.ToPublic(),
		Token:   session.Token,
	})
}

// Logout handles POST /users/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	if err := h.Service.Logout(r.Context(), token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.ErrMissingToken)
			return
		}

		identity, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithUser(r.Context(), identity)
		ctx = logger.With(ctx, "userID", identity.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles admits only requesters holding one of roles. It must run after
// AuthMiddleware.
func (h *Handler) RequireRoles(roles ...coreUser.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := internal.UserFromContext(r.Context())
			if !ok {
				h.WriteAppError(w, internal.ErrMissingToken)
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			h.Logger.Warn("access denied: insufficient role",
				"user_id", identity.ID,
				"role", identity.Role,
				"required_roles", roles)
			h.WriteAppError(w, internal.ErrInsufficientRole)
		})
	}
}
