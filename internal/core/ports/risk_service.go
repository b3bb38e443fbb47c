package ports

import (
	"context"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

// RadarResult is the attention radar over every project visible to a user.
type RadarResult struct {
	Assessments    []domain.RiskAssessment
	Total          int
	NeedsAttention int
	OnTrack        int
	ByTier         map[domain.RiskTier]int
}

// RiskService scores projects from their daily signals.
type RiskService interface {
	AssessProject(ctx context.Context, projectID string, actor domain.Actor) (domain.RiskAssessment, error)
	Radar(ctx context.Context, actor domain.Actor) (*RadarResult, error)
}
