package ports

import (
	"context"
	"time"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

// ProjectFilter scopes a project listing to one engineer or one owner.
type ProjectFilter struct {
	EngineerID string // empty = no filter
	OwnerID    string // empty = no filter
}

// ProjectRepository reads project configuration, including the site geofence.
type ProjectRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
}

// AttendanceRepository stores accepted check-ins keyed by (project, day).
type AttendanceRepository interface {
	// FindByProjectDay returns domain.ErrAttendanceNotFound when no record exists.
	FindByProjectDay(ctx context.Context, projectID, day string) (*domain.AttendanceRecord, error)
	// Create returns domain.ErrAlreadyCheckedIn when the day is already recorded.
	Create(ctx context.Context, rec *domain.AttendanceRecord) error
}

// DPRRepository stores daily progress report markers keyed by (project, day).
type DPRRepository interface {
	Exists(ctx context.Context, projectID, day string) (bool, error)
	// Create returns domain.ErrDPRAlreadySubmitted when the day is already recorded.
	Create(ctx context.Context, dpr *domain.DPR) error
}

// SignalReader exposes the four independent facts the risk aggregator needs.
type SignalReader interface {
	HasDPR(ctx context.Context, projectID, day string) (bool, error)
	HasAttendance(ctx context.Context, projectID, day string) (bool, error)
	CountPendingMaterials(ctx context.Context, projectID string) (int, error)
	// LatestMessageAt returns nil when the project has no messages.
	LatestMessageAt(ctx context.Context, projectID string) (*time.Time, error)
}

// CheckInGuard prevents two check-in attempts for the same project day from
// running at once. Acquire hands back a token identifying the holder; Release
// only drops the guard while that token still owns it.
type CheckInGuard interface {
	Acquire(ctx context.Context, projectID, day string) (token string, acquired bool, err error)
	Release(ctx context.Context, projectID, day, token string) error
}

// Locator resolves the device position for a check-in attempt. It may block;
// callers bound it with a timeout.
type Locator interface {
	Locate(ctx context.Context) (domain.Coordinate, error)
}
