package service

import (
	"context"
	"fmt"

	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
)

// visibleProject loads a project and enforces that actor may read it.
func visibleProject(ctx context.Context, repo ports.ProjectRepository, projectID string, actor domain.Actor) (*domain.Project, error) {
	p, err := repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.VisibleTo(actor.UserID, actor.Role) {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrForbidden)
	}
	return p, nil
}

// assignedProject loads a project and enforces that actor is its engineer.
func assignedProject(ctx context.Context, repo ports.ProjectRepository, projectID string, actor domain.Actor) (*domain.Project, error) {
	p, err := repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleEngineer || p.EngineerID != actor.UserID {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrForbidden)
	}
	return p, nil
}
