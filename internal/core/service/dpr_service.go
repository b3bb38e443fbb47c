package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitepulse/site-presence/internal/api/metrics"
	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
)

type dprService struct {
	projects   ports.ProjectRepository
	attendance ports.AttendanceRepository
	dprs       ports.DPRRepository
	loc        *time.Location
	log        zerolog.Logger
	now        func() time.Time
}

// NewDPRService returns a DPRService. A nil loc means UTC days.
func NewDPRService(
	projects ports.ProjectRepository,
	attendance ports.AttendanceRepository,
	dprs ports.DPRRepository,
	loc *time.Location,
	log zerolog.Logger,
) ports.DPRService {
	if loc == nil {
		loc = time.UTC
	}
	return &dprService{projects: projects, attendance: attendance, dprs: dprs, loc: loc, log: log, now: time.Now}
}

// Submit records today's DPR. It is only accepted after a verified check-in.
func (s *dprService) Submit(ctx context.Context, in ports.SubmitDPRInput) (*domain.DPR, error) {
	project, err := assignedProject(ctx, s.projects, in.ProjectID, in.Actor)
	if err != nil {
		return nil, fmt.Errorf("submit dpr: %w", err)
	}

	now := s.now()
	day := domain.DayKey(now, s.loc)

	if _, err := s.attendance.FindByProjectDay(ctx, project.ID, day); err != nil {
		if errors.Is(err, domain.ErrAttendanceNotFound) {
			return nil, fmt.Errorf("submit dpr: %w", domain.ErrAttendanceRequired)
		}
		return nil, fmt.Errorf("submit dpr: %w", err)
	}

	dpr := &domain.DPR{
		ID:             uuid.NewString(),
		ProjectID:      project.ID,
		Date:           day,
		SubmittedBy:    in.Actor.UserID,
		Summary:        strings.TrimSpace(in.Summary),
		WorkersPresent: in.WorkersPresent,
		SubmittedAt:    now.UTC(),
	}
	if err := s.dprs.Create(ctx, dpr); err != nil {
		return nil, fmt.Errorf("submit dpr: %w", err)
	}

	metrics.DPRsSubmittedTotal.Inc()
	s.log.Info().Str("project_id", project.ID).Str("day", day).Msg("dpr submitted")
	return dpr, nil
}
