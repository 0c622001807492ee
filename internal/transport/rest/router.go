package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/grievance-management/internal/advisory"
	"github.com/frahmantamala/grievance-management/internal/attachment"
	"github.com/frahmantamala/grievance-management/internal/auth"
	"github.com/frahmantamala/grievance-management/internal/category"
	"github.com/frahmantamala/grievance-management/internal/comment"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	"github.com/frahmantamala/grievance-management/internal/transport/middleware"
	"github.com/frahmantamala/grievance-management/internal/transport/swagger"
	"github.com/frahmantamala/grievance-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Grievance  *grievance.Handler
	Comment    *comment.Handler
	Attachment *attachment.Handler
	Advisory   *advisory.Handler
	Category   *category.Handler
	Health     *HealthHandler
}

type Options struct {
	AllowedOrigins string
	// OpenAPISpec is served at /openapi.yml when set.
	OpenAPISpec []byte
	// Metrics is nil when metrics are disabled.
	Metrics     *middleware.Metrics
	MetricsPath string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RealIP)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if opts.OpenAPISpec != nil {
		router.Get(swagger.SpecPath, swagger.SpecHandler(opts.OpenAPISpec))
		router.Handle("/swagger/*", swagger.Handler())
	}
	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, opts.Metrics.Handler())
	}

	router.Get("/health", h.Health.healthCheckHandler)

	// password recovery lives outside /api and requires no token
	router.Post("/forgot/{userId}", h.User.ForgotPassword)
	router.Get("/user/{email}", h.User.LookupByEmail)

	// image attachments are embedded by <img> tags, which send no token
	router.Get("/images/{filename}", h.Attachment.Image)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		r.Get("/categories", h.Category.GetCategories)

		r.Post("/users/register", h.Auth.Register)
		r.Post("/users/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/users/logout", h.Auth.Logout)
			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Get("/users/department/{department}", h.User.GetDepartmentUsers)
			pr.Put("/users/{id}", h.User.UpdateProfile)

			pr.Route("/grievances", func(gr chi.Router) {
				gr.Post("/", h.Grievance.CreateGrievance)
				gr.Get("/", h.Grievance.GetGrievances)

				gr.With(h.Auth.RequireRoles(coreUser.RoleAdmin, coreUser.RoleManager)).
					Get("/filter", h.Grievance.FilterGrievances)

				gr.Get("/{id}", h.Grievance.GetGrievance)
				gr.Put("/{id}", h.Grievance.UpdateGrievance)

				gr.Post("/{id}/comments", h.Comment.AddComment)
				gr.Get("/{id}/comments", h.Comment.ListComments)

				gr.Post("/{id}/attachments", h.Attachment.Upload)
				gr.Get("/{id}/attachments", h.Attachment.List)
			})

			pr.Get("/statistics", h.Grievance.GetStatistics)
			pr.Get("/uploads/{filename}", h.Attachment.Download)
			pr.Post("/ai-analyze-grievance", h.Advisory.Analyze)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.Grievance.WriteError(w, http.StatusNotFound, "Resource not found")
	})
}
