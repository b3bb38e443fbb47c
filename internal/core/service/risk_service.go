package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sitepulse/site-presence/internal/api/metrics"
	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
)

const defaultRiskParallelism = 8

// RiskOptions tunes the risk service.
type RiskOptions struct {
	// MaxParallel bounds concurrent project evaluations on the radar.
	MaxParallel int
	// Location is the timezone that defines "today". Defaults to UTC.
	Location *time.Location
}

type riskService struct {
	projects ports.ProjectRepository
	signals  ports.SignalReader
	opts     RiskOptions
	log      zerolog.Logger
	now      func() time.Time
}

// NewRiskService returns a RiskService implementation. Assessments are
// recomputed on every call; nothing is cached.
func NewRiskService(projects ports.ProjectRepository, signals ports.SignalReader, opts RiskOptions, log zerolog.Logger) ports.RiskService {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = defaultRiskParallelism
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &riskService{projects: projects, signals: signals, opts: opts, log: log, now: time.Now}
}

// AssessProject scores a single project visible to actor.
func (s *riskService) AssessProject(ctx context.Context, projectID string, actor domain.Actor) (domain.RiskAssessment, error) {
	p, err := visibleProject(ctx, s.projects, projectID, actor)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("assess project: %w", err)
	}
	return s.assess(ctx, p.ID, s.now()), nil
}

// Radar scores every project visible to actor. Projects are evaluated
// concurrently and returned in repository order.
func (s *riskService) Radar(ctx context.Context, actor domain.Actor) (*ports.RadarResult, error) {
	filter := ports.ProjectFilter{}
	switch actor.Role {
	case domain.RoleEngineer:
		filter.EngineerID = actor.UserID
	case domain.RoleOwner:
		filter.OwnerID = actor.UserID
	default:
		return nil, fmt.Errorf("radar: %w", domain.ErrForbidden)
	}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("radar: list projects: %w", err)
	}

	now := s.now()
	assessments := make([]domain.RiskAssessment, len(projects))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxParallel)
	for i, p := range projects {
		g.Go(func() error {
			// A dropped request stops the fan-out instead of scoring
			// every remaining project as unknown.
			if err := gCtx.Err(); err != nil {
				return err
			}
			assessments[i] = s.assess(gCtx, p.ID, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("radar: %w", err)
	}

	out := &ports.RadarResult{
		Assessments: assessments,
		Total:       len(assessments),
		ByTier: map[domain.RiskTier]int{
			domain.RiskLow:    0,
			domain.RiskMedium: 0,
			domain.RiskHigh:   0,
		},
	}
	for _, a := range assessments {
		out.ByTier[a.Tier]++
		if a.NeedsAttention() {
			out.NeedsAttention++
		} else {
			out.OnTrack++
		}
	}
	return out, nil
}

// assess gathers the four signals and reduces them. It never fails: a signal
// that cannot be read takes its risk-increasing default.
func (s *riskService) assess(ctx context.Context, projectID string, now time.Time) domain.RiskAssessment {
	day := domain.DayKey(now, s.opts.Location)
	var signals domain.RiskSignals

	hasDPR, err := s.signals.HasDPR(ctx, projectID, day)
	if err != nil {
		s.signalFailed("dpr", projectID, err)
	}
	signals.DPRMissingToday = err != nil || !hasDPR

	hasAttendance, err := s.signals.HasAttendance(ctx, projectID, day)
	if err != nil {
		s.signalFailed("attendance", projectID, err)
	}
	signals.AttendanceMissingToday = err != nil || !hasAttendance

	pending, err := s.signals.CountPendingMaterials(ctx, projectID)
	if err != nil {
		s.signalFailed("materials", projectID, err)
		pending = 0
	}
	signals.PendingMaterialCount = pending

	latest, err := s.signals.LatestMessageAt(ctx, projectID)
	if err != nil {
		s.signalFailed("messages", projectID, err)
		latest = nil
	}
	signals.StaleCommunication = domain.StaleCommunication(latest, now)

	a := domain.AssessRisk(projectID, signals)
	metrics.RiskAssessmentsTotal.WithLabelValues(string(a.Tier)).Inc()
	return a
}

func (s *riskService) signalFailed(signal, projectID string, err error) {
	metrics.RiskSignalErrorsTotal.WithLabelValues(signal).Inc()
	s.log.Warn().Err(err).Str("project_id", projectID).Str("signal", signal).Msg("risk signal unavailable, using default")
}
