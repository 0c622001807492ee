package grievance

import (
	"context"
	"net/http"

	"github.com/frahmantamala/grievance-management/internal"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateGrievance(ctx context.Context, identity *coreUser.Identity, dto CreateGrievanceDTO) (*Grievance, error)
	GetGrievance(ctx context.Context, identity *coreUser.Identity, id string) (*Detail, error)
	UpdateGrievance(ctx context.Context, identity *coreUser.Identity, id string, dto UpdateGrievanceDTO) (*Grievance, error)
	ListVisible(ctx context.Context, identity *coreUser.Identity, page Page) ([]*Grievance, error)
	Filter(ctx context.Context, filter FilterDTO, page Page) ([]*Grievance, error)
	Statistics(ctx context.Context, identity *coreUser.Identity) (*Statistics, error)
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

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*coreUser.Identity, bool) {
	identity, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
	}
	return identity, ok
}

// CreateGrievance handles POST /grievances
func (h *Handler) CreateGrievance(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreateGrievanceDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	g, err := h.Service.CreateGrievance(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, MessageGrievanceResponse{
		Message:   "Grievance created successfully",
		Grievance: g,
	})
}

// GetGrievances handles GET /grievances
func (h *Handler) GetGrievances(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	grievances, err := h.Service.ListVisible(r.Context(), identity, PageFromQuery(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrievancesResponse{Grievances: grievances})
}

// FilterGrievances handles GET /grievances/filter
func (h *Handler) FilterGrievances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grievances, err := h.Service.Filter(r.Context(), FilterFromQuery(q), PageFromQuery(q))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrievancesResponse{Grievances: grievances})
}

// GetGrievance handles GET /grievances/{id}
func (h *Handler) GetGrievance(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	detail, err := h.Service.GetGrievance(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

// UpdateGrievance handles PUT /grievances/{id}
func (h *Handler) UpdateGrievance(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto UpdateGrievanceDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	g, err := h.Service.UpdateGrievance(r.Context(), identity, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageGrievanceResponse{
		Message:   "Grievance updated successfully",
		Grievance: g,
	})
}

// GetStatistics handles GET /statistics
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.Statistics(r.Context(), identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
