package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/worklane/escrow-engine/internal/domain"
)

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	project, err := h.service.GetProject(r.Context(), projectID)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", projectView(project))
}

func (h *Handler) getProjectStatus(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	status, err := h.service.GetProjectStatus(r.Context(), projectID)
	if err != nil {
		httpStatus, code := mapDomainError(err)
		writeError(w, httpStatus, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"project_id": strconv.FormatUint(projectID, 10),
		"status":     string(status),
	})
}

func (h *Handler) getProjectEscrow(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	account, err := h.service.GetProjectEscrow(r.Context(), projectID)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", escrowView(account))
}

func (h *Handler) getDispute(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	dispute, err := h.service.GetDispute(r.Context(), projectID)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", disputeView(dispute))
}

func (h *Handler) getUserRating(w http.ResponseWriter, r *http.Request) {
	principal := strings.TrimSpace(chi.URLParam(r, "principal"))
	if principal == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "principal is required", requestIDFromContext(r.Context()))
		return
	}
	entry, err := h.service.GetUserRating(r.Context(), principal)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", ratingView(entry))
}

func (h *Handler) getProjectCounter(w http.ResponseWriter, r *http.Request) {
	counter, err := h.service.GetProjectCounter(r.Context())
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"counter": strconv.FormatUint(counter, 10),
	})
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	principal := strings.TrimSpace(r.URL.Query().Get("principal"))
	if principal == "" {
		principal = actorFromContext(r.Context()).SubjectID
	}
	projects, err := h.service.ListProjectsByPrincipal(r.Context(), principal)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	views := make([]map[string]any, 0, len(projects))
	for _, project := range projects {
		views = append(views, projectView(project))
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"principal": principal,
		"projects":  views,
	})
}

func ratingView(entry domain.RatingEntry) map[string]any {
	return map[string]any{
		"principal":    entry.Principal,
		"total_score":  entry.TotalScore,
		"rating_count": entry.Count,
		"average":      entry.Average(),
	}
}
