package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worklane/escrow-engine/internal/application"
)

type Handler struct{ service *application.Service }

func NewHandler(service *application.Service) *Handler { return &Handler{service: service} }

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ready", nil) })

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Post("/projects", handler.createProject)
			r.Get("/projects", handler.listProjects)
			r.Get("/projects/counter", handler.getProjectCounter)
			r.Get("/projects/{project_id}", handler.getProject)
			r.Get("/projects/{project_id}/status", handler.getProjectStatus)
			r.Get("/projects/{project_id}/escrow", handler.getProjectEscrow)
			r.Get("/projects/{project_id}/dispute", handler.getDispute)
			r.Post("/projects/{project_id}/accept", handler.acceptProject)
			r.Post("/projects/{project_id}/submit", handler.submitWork)
			r.Post("/projects/{project_id}/approve", handler.approveWork)
			r.Post("/projects/{project_id}/cancel", handler.cancelProject)
			r.Post("/projects/{project_id}/dispute", handler.disputeProject)
			r.Post("/admin/projects/{project_id}/resolve", handler.resolveDispute)

			r.Get("/users/{principal}/rating", handler.getUserRating)
		})
	})
	return r
}
