package application

import (
	"context"
	"strings"

	"github.com/worklane/escrow-engine/internal/domain"
)

func (s *Service) GetProject(ctx context.Context, projectID uint64) (domain.Project, error) {
	return s.projects.Get(ctx, projectID)
}

func (s *Service) GetProjectStatus(ctx context.Context, projectID uint64) (domain.ProjectStatus, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	return project.Status, nil
}

func (s *Service) GetProjectEscrow(ctx context.Context, projectID uint64) (domain.EscrowAccount, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return domain.EscrowAccount{}, err
	}
	return s.escrows.GetByProjectID(ctx, projectID)
}

// GetDispute returns the dispute for a project, resolved or not; resolved
// disputes stay queryable for audit.
func (s *Service) GetDispute(ctx context.Context, projectID uint64) (domain.Dispute, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return domain.Dispute{}, err
	}
	return s.disputes.GetByProjectID(ctx, projectID)
}

// GetUserRating returns the accumulated rating for a principal. A principal
// with no recorded scores gets a zero entry, not an error.
func (s *Service) GetUserRating(ctx context.Context, principal string) (domain.RatingEntry, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return domain.RatingEntry{}, domain.ErrInvalidInput
	}
	return s.ratings.Get(ctx, principal)
}

// GetProjectCounter returns the last issued project id.
func (s *Service) GetProjectCounter(ctx context.Context) (uint64, error) {
	return s.projects.Counter(ctx)
}

func (s *Service) ListProjectsByPrincipal(ctx context.Context, principal string) ([]domain.Project, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.projects.ListByPrincipal(ctx, principal)
}
