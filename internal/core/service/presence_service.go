package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitepulse/site-presence/internal/api/metrics"
	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
)

// PresenceOptions tunes the presence workflow.
type PresenceOptions struct {
	// LocateTimeout bounds location acquisition. Defaults to 10s.
	LocateTimeout time.Duration
	// Location is the timezone that defines a calendar day. Defaults to UTC.
	Location *time.Location
}

type presenceService struct {
	projects   ports.ProjectRepository
	attendance ports.AttendanceRepository
	dprs       ports.DPRRepository
	guard      ports.CheckInGuard
	opts       PresenceOptions
	log        zerolog.Logger
	now        func() time.Time
}

// NewPresenceService returns a PresenceService implementation.
func NewPresenceService(
	projects ports.ProjectRepository,
	attendance ports.AttendanceRepository,
	dprs ports.DPRRepository,
	guard ports.CheckInGuard,
	opts PresenceOptions,
	log zerolog.Logger,
) ports.PresenceService {
	if opts.LocateTimeout <= 0 {
		opts.LocateTimeout = defaultLocateTimeout
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &presenceService{
		projects:   projects,
		attendance: attendance,
		dprs:       dprs,
		guard:      guard,
		opts:       opts,
		log:        log,
		now:        time.Now,
	}
}

// CheckIn verifies the actor's position against the project site and records
// the first verified observation of the day.
func (s *presenceService) CheckIn(ctx context.Context, in ports.CheckInInput) (*ports.CheckInResult, error) {
	// 1. Project and assignment.
	project, err := assignedProject(ctx, s.projects, in.ProjectID, in.Actor)
	if err != nil {
		metrics.CheckInErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return nil, fmt.Errorf("check in: %w", err)
	}

	observedAt := in.ObservedAt
	if observedAt.IsZero() {
		observedAt = s.now()
	}
	day := domain.DayKey(observedAt, s.opts.Location)

	// 2. Precondition: a verified day short-circuits before any location request.
	if res, err := s.alreadyVerified(ctx, project.ID, day); err != nil || res != nil {
		return res, err
	}

	// 3. In-flight guard; fail open when the guard store is down.
	token, acquired, err := s.guard.Acquire(ctx, project.ID, day)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("project_id", project.ID).Msg("check-in guard unavailable, proceeding")
	case !acquired:
		metrics.CheckInErrorsTotal.WithLabelValues("in_progress").Inc()
		return nil, fmt.Errorf("check in: %w", domain.ErrCheckInInProgress)
	default:
		defer func() {
			if relErr := s.guard.Release(context.WithoutCancel(ctx), project.ID, day, token); relErr != nil {
				s.log.Warn().Err(relErr).Str("project_id", project.ID).Msg("failed to release check-in guard")
			}
		}()
		// Another attempt may have verified and released between the first
		// read and Acquire.
		if res, err := s.alreadyVerified(ctx, project.ID, day); err != nil || res != nil {
			return res, err
		}
	}

	// 4. Location with a bounded wait.
	start := time.Now()
	observed, err := acquireLocation(ctx, in.Locator, s.opts.LocateTimeout)
	if err != nil {
		if !errors.Is(err, domain.ErrLocationUnavailable) {
			return nil, fmt.Errorf("check in: %w", err)
		}
		metrics.LocateDuration.WithLabelValues("unavailable").Observe(time.Since(start).Seconds())
		metrics.CheckInsTotal.WithLabelValues("location_unavailable").Inc()
		s.log.Info().Err(err).Str("project_id", project.ID).Str("engineer_id", in.Actor.UserID).Msg("check-in without location")
		return &ports.CheckInResult{ProjectID: project.ID, Day: day, Result: domain.LocationUnavailable()}, nil
	}
	metrics.LocateDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	// 5. Geofence.
	result, err := domain.EvaluatePresence(observed, project.Site())
	if err != nil {
		metrics.CheckInErrorsTotal.WithLabelValues("malformed_input").Inc()
		return nil, fmt.Errorf("check in: %w", err)
	}
	metrics.CheckInDistance.WithLabelValues(string(result.Status)).Observe(float64(*result.DistanceMeters))

	if !result.IsVerified() {
		metrics.CheckInsTotal.WithLabelValues("out_of_range").Inc()
		s.log.Info().
			Str("project_id", project.ID).
			Str("engineer_id", in.Actor.UserID).
			Int("distance_m", *result.DistanceMeters).
			Float64("radius_m", project.RadiusMeters).
			Msg("check-in outside site radius")
		return &ports.CheckInResult{ProjectID: project.ID, Day: day, Result: result}, nil
	}

	// 6. Persist the accepted observation.
	rec := &domain.AttendanceRecord{
		ID:             uuid.NewString(),
		ProjectID:      project.ID,
		EngineerID:     in.Actor.UserID,
		Date:           day,
		Coordinate:     observed,
		DistanceMeters: *result.DistanceMeters,
		MarkedAt:       observedAt.UTC(),
	}
	if err := s.attendance.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			metrics.CheckInErrorsTotal.WithLabelValues("already_checked_in").Inc()
			return nil, fmt.Errorf("check in: %w", err)
		}
		metrics.CheckInErrorsTotal.WithLabelValues("persist_failed").Inc()
		s.log.Error().Err(err).Str("project_id", project.ID).Msg("failed to store attendance")
		return nil, fmt.Errorf("check in: store attendance: %w", err)
	}

	metrics.CheckInsTotal.WithLabelValues("verified").Inc()
	s.log.Info().
		Str("project_id", project.ID).
		Str("engineer_id", in.Actor.UserID).
		Str("day", day).
		Int("distance_m", rec.DistanceMeters).
		Msg("attendance verified")

	return &ports.CheckInResult{ProjectID: project.ID, Day: day, Result: result, MarkedAt: rec.MarkedAt}, nil
}

// Status reports today's presence for a project and whether the DPR is unlocked.
func (s *presenceService) Status(ctx context.Context, projectID string, actor domain.Actor) (*ports.PresenceStatusResult, error) {
	project, err := visibleProject(ctx, s.projects, projectID, actor)
	if err != nil {
		return nil, fmt.Errorf("presence status: %w", err)
	}

	day := domain.DayKey(s.now(), s.opts.Location)
	out := &ports.PresenceStatusResult{ProjectID: project.ID, Day: day, Result: domain.NotChecked()}

	rec, err := s.todaysRecord(ctx, project.ID, day)
	if err != nil {
		return nil, fmt.Errorf("presence status: %w", err)
	}
	if rec != nil {
		d := int(math.Round(domain.Distance(rec.Coordinate, project.Coordinate)))
		out.Result = domain.Verified(d)
		out.MarkedAt = rec.MarkedAt
		out.DPRUnlocked = true
	}

	submitted, err := s.dprs.Exists(ctx, project.ID, day)
	if err != nil {
		return nil, fmt.Errorf("presence status: %w", err)
	}
	out.DPRSubmitted = submitted

	return out, nil
}

// alreadyVerified returns the short-circuit result when the day already holds
// a verified record, and nil when the attempt should go on.
func (s *presenceService) alreadyVerified(ctx context.Context, projectID, day string) (*ports.CheckInResult, error) {
	existing, err := s.todaysRecord(ctx, projectID, day)
	if err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	metrics.CheckInsTotal.WithLabelValues("already_verified").Inc()
	return &ports.CheckInResult{
		ProjectID:       projectID,
		Day:             day,
		Result:          domain.Verified(existing.DistanceMeters),
		AlreadyVerified: true,
		MarkedAt:        existing.MarkedAt,
	}, nil
}

func (s *presenceService) todaysRecord(ctx context.Context, projectID, day string) (*domain.AttendanceRecord, error) {
	rec, err := s.attendance.FindByProjectDay(ctx, projectID, day)
	if errors.Is(err, domain.ErrAttendanceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		return "project_not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "lookup_failed"
	}
}
