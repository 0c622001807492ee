package advisory

import (
	"context"
	"net/http"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error)
}

type Handler struct {
	*transport.BaseHandler
	// Analyzer is nil when AI is disabled.
	Analyzer Analyzer
}

func NewHandler(analyzer Analyzer) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Analyzer:    analyzer,
	}
}

// Analyze handles POST /ai-analyze-grievance
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.Analyzer == nil {
		h.WriteAppError(w, internal.ErrAIUnavailable)
		return
	}

	var req AnalyzeRequest
	if appErr := h.DecodeJSON(r, &req); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	analysis, err := h.Analyzer.Analyze(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, analysis)
}
