package user

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListByDepartment(ctx context.Context, department string) ([]*User, error)
	UpdateProfile(ctx context.Context, id string, dto UpdateProfileDTO) (*User, error)
	ResetPasswordByID(ctx context.Context, id, newPassword string) error
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

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	u, err := h.Service.GetUserByID(r.Context(), identity.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UserResponse{User: u.ToPublic()})
}

// GetDepartmentUsers handles GET /users/department/{department}
func (h *Handler) GetDepartmentUsers(w http.ResponseWriter, r *http.Request) {
	department, err := url.PathUnescape(chi.URLParam(r, "department"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department")
		return
	}

	users, err := h.Service.ListByDepartment(r.Context(), department)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: ToPublicList(users)})
}

// UpdateProfile handles PUT /users/{id}. Only the account owner or an admin
// may change a profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	id := chi.URLParam(r, "id")
	if identity.ID != id && !identity.IsAdmin() {
		h.Logger.Warn("UpdateProfile: forbidden", "requester_id", identity.ID, "target_id", id)
		h.WriteAppError(w, internal.NewForbiddenError("Unauthorized to update this profile", internal.ErrCodeUnauthorizedAccess))
		return
	}

	var dto UpdateProfileDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageUserResponse{
		Message: "User profile updated successfully",
		User:    u.ToPublic(),
	})
}

// LookupByEmail handles GET /user/{email}. Only the public profile is returned.
func (h *Handler) LookupByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid email")
		return
	}

	u, err := h.Service.GetUserByEmail(r.Context(), email)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToPublic())
}

// ForgotPassword handles POST /forgot/{userId}.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	var dto ResetPasswordDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.ResetPasswordByID(r.Context(), id, dto.Password); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}
