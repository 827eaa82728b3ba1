package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/worklane/escrow-engine/internal/application"
	"github.com/worklane/escrow-engine/internal/contracts"
	"github.com/worklane/escrow-engine/internal/domain"
)

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	deadline, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Deadline))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "deadline must be RFC 3339", requestIDFromContext(r.Context()))
		return
	}
	project, err := h.service.CreateProject(r.Context(), actor, application.CreateProjectInput{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Budget:      req.Budget,
		Deadline:    deadline,
		Freelancer:  strings.TrimSpace(req.Freelancer),
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, "", projectView(project))
}

func (h *Handler) acceptProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.AcceptProject)
}

func (h *Handler) submitWork(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.SubmitWork)
}

func (h *Handler) cancelProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CancelProject)
}

func (h *Handler) approveWork(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	var req contracts.ApproveWorkRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
			return
		}
	}
	project, err := h.service.ApproveWork(r.Context(), actor, projectID, req.Rating)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", projectView(project))
}

func (h *Handler) disputeProject(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	var req contracts.DisputeProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	dispute, err := h.service.DisputeProject(r.Context(), actor, projectID, strings.TrimSpace(req.Reason))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, "", disputeView(dispute))
}

func (h *Handler) resolveDispute(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	var req contracts.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	project, err := h.service.ResolveDispute(r.Context(), actor, projectID, application.ResolveDisputeInput{
		Outcome:          strings.ToLower(strings.TrimSpace(req.Outcome)),
		ClientAmount:     req.ClientAmount,
		FreelancerAmount: req.FreelancerAmount,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", projectView(project))
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor application.Actor, projectID uint64) (domain.Project, error)) {
	actor := actorFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	project, err := op(r.Context(), actor, projectID)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", projectView(project))
}

func projectIDParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "project_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid_input", "project id must be a positive integer", requestIDFromContext(r.Context()))
		return 0, false
	}
	return id, true
}

func projectView(project domain.Project) map[string]any {
	view := map[string]any{
		"project_id":  strconv.FormatUint(project.ID, 10),
		"client":      project.Client,
		"freelancer":  project.Freelancer,
		"title":       project.Title,
		"description": project.Description,
		"budget":      project.Budget,
		"deadline":    project.Deadline.UTC().Format(time.RFC3339),
		"status":      string(project.Status),
		"created_at":  project.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":  project.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if project.EscrowID != "" {
		view["escrow_id"] = project.EscrowID
	}
	return view
}

func disputeView(dispute domain.Dispute) map[string]any {
	view := map[string]any{
		"project_id": strconv.FormatUint(dispute.ProjectID, 10),
		"initiator":  dispute.Initiator,
		"reason":     dispute.Reason,
		"opened_at":  dispute.OpenedAt.UTC().Format(time.RFC3339),
		"resolved":   dispute.Resolved,
	}
	if dispute.Outcome != nil {
		view["outcome"] = map[string]any{
			"kind":              string(dispute.Outcome.Kind),
			"client_amount":     dispute.Outcome.ClientAmount,
			"freelancer_amount": dispute.Outcome.FreelancerAmount,
		}
		view["resolved_by"] = dispute.ResolvedBy
		if dispute.ResolvedAt != nil {
			view["resolved_at"] = dispute.ResolvedAt.UTC().Format(time.RFC3339)
		}
	}
	return view
}

func escrowView(account domain.EscrowAccount) map[string]any {
	view := map[string]any{
		"project_id": strconv.FormatUint(account.ProjectID, 10),
		"escrow_id":  account.EscrowRef,
		"amount":     account.Amount,
		"locked_at":  account.LockedAt.UTC().Format(time.RFC3339),
	}
	if !account.Open() {
		view["disposition"] = string(account.Disposition)
		if account.ClosedAt != nil {
			view["closed_at"] = account.ClosedAt.UTC().Format(time.RFC3339)
		}
	}
	return view
}
