package attachment

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AddAttachment(ctx context.Context, grievanceID, uploaderID string, upload Upload, r io.Reader) (*Attachment, error)
	ListAttachments(ctx context.Context, grievanceID string) ([]*Attachment, error)
	Open(ctx context.Context, storedName string) (*Attachment, io.ReadCloser, error)
}

// parts above this size spill to temporary files
const multipartMemory = 8 << 20

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	maxBytes int64
}

func NewHandler(svc ServiceAPI, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = internal.DefaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
		maxBytes:    maxBytes,
	}
}

// Upload handles POST /grievances/{id}/attachments (multipart field "file").
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteAppError(w, internal.ErrFileTooLarge)
			return
		}
		h.WriteAppError(w, internal.NewValidationError("Invalid multipart form", internal.ErrCodeInvalidRequestBody))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteAppError(w, internal.NewValidationFieldError("file", "No file part", internal.ErrCodeValidationFailed))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.WriteAppError(w, internal.NewValidationFieldError("file", "No selected file", internal.ErrCodeValidationFailed))
		return
	}

	upload := Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}

	a, err := h.Service.AddAttachment(r.Context(), chi.URLParam(r, "id"), identity.ID, upload, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, AttachmentResponse{Message: "File uploaded", Attachment: a})
}

// List handles GET /grievances/{id}/attachments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.Service.ListAttachments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AttachmentsResponse{Attachments: attachments})
}

// Download handles GET /uploads/{filename}; filename is the stored name.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	a, rc, err := h.Service.Open(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	h.stream(w, a, rc, "attachment")
}

// Image handles GET /images/{filename}. It serves recorded image attachments
// inline so that they can be embedded with a plain <img> tag.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if !IsImage(name) {
		h.WriteAppError(w, internal.ErrNotAnImage)
		return
	}

	a, rc, err := h.Service.Open(r.Context(), name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	h.stream(w, a, rc, "inline")
}

func (h *Handler) stream(w http.ResponseWriter, a *Attachment, rc io.Reader, disposition string) {
	contentType := mime.TypeByExtension(filepath.Ext(a.FileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": a.FileName}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Warn("attachment download interrupted", "error", err, "file_path", a.FilePath)
	}
}
