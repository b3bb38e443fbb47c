package ports

import (
	"context"
	"time"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

// CheckInInput is the DTO passed from the transport layer to PresenceService.
type CheckInInput struct {
	ProjectID string
	Actor     domain.Actor
	Locator   Locator
	// ObservedAt selects the calendar day; zero means now.
	ObservedAt time.Time
}

// CheckInResult is returned for every completed attempt, verified or not.
type CheckInResult struct {
	ProjectID string
	Day       string
	Result    domain.PresenceResult
	// AlreadyVerified is true when today's attendance existed before the
	// attempt and no location was requested.
	AlreadyVerified bool
	MarkedAt        time.Time
}

// PresenceStatusResult is today's presence view of a project.
type PresenceStatusResult struct {
	ProjectID    string
	Day          string
	Result       domain.PresenceResult
	MarkedAt     time.Time
	DPRUnlocked  bool
	DPRSubmitted bool
}

// PresenceService verifies that an engineer is physically on site.
type PresenceService interface {
	CheckIn(ctx context.Context, input CheckInInput) (*CheckInResult, error)
	Status(ctx context.Context, projectID string, actor domain.Actor) (*PresenceStatusResult, error)
}

// ObservationInput is an offline observation uploaded in a batch.
type ObservationInput struct {
	BatchID    string
	ProjectID  string
	Actor      domain.Actor
	Coordinate domain.Coordinate
	AccuracyM  float64
	ObservedAt time.Time
}
