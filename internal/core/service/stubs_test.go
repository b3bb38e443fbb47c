package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

const today = "2026-03-10"

type stubProjectRepo struct {
	byID    map[string]*domain.Project
	order   []string
	listErr error
}

func newStubProjectRepo(projects ...*domain.Project) *stubProjectRepo {
	r := &stubProjectRepo{byID: make(map[string]*domain.Project)}
	for _, p := range projects {
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) List(_ context.Context, f ports.ProjectFilter) ([]*domain.Project, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Project
	for _, id := range r.order {
		p := r.byID[id]
		if f.EngineerID != "" && p.EngineerID != f.EngineerID {
			continue
		}
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

type stubAttendanceRepo struct {
	mu        sync.Mutex
	records   map[string]*domain.AttendanceRecord
	createErr error
	findErr   error
	created   []*domain.AttendanceRecord
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{records: make(map[string]*domain.AttendanceRecord)}
}

func (r *stubAttendanceRepo) FindByProjectDay(_ context.Context, projectID, day string) (*domain.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	rec, ok := r.records[projectID+"|"+day]
	if !ok {
		return nil, domain.ErrAttendanceNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *stubAttendanceRepo) Create(_ context.Context, rec *domain.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := rec.ProjectID + "|" + rec.Date
	if _, exists := r.records[key]; exists {
		return domain.ErrAlreadyCheckedIn
	}
	clone := *rec
	r.records[key] = &clone
	r.created = append(r.created, &clone)
	return nil
}

type stubDPRRepo struct {
	days      map[string]bool
	existsErr error
	created   []*domain.DPR
}

func newStubDPRRepo() *stubDPRRepo {
	return &stubDPRRepo{days: make(map[string]bool)}
}

func (r *stubDPRRepo) Exists(_ context.Context, projectID, day string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.days[projectID+"|"+day], nil
}

func (r *stubDPRRepo) Create(_ context.Context, d *domain.DPR) error {
	key := d.ProjectID + "|" + d.Date
	if r.days[key] {
		return domain.ErrDPRAlreadySubmitted
	}
	r.days[key] = true
	r.created = append(r.created, d)
	return nil
}

type stubGuard struct {
	held       map[string]string
	acquireErr error
	released   []string
	// onAcquire runs after a successful Acquire, standing in for a concurrent
	// attempt that finishes in the gap.
	onAcquire func()
	seq       int
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: make(map[string]string)}
}

func (g *stubGuard) Acquire(_ context.Context, projectID, day string) (string, bool, error) {
	if g.acquireErr != nil {
		return "", false, g.acquireErr
	}
	key := projectID + "|" + day
	if _, ok := g.held[key]; ok {
		return "", false, nil
	}
	g.seq++
	token := fmt.Sprintf("tok-%d", g.seq)
	g.held[key] = token
	if g.onAcquire != nil {
		g.onAcquire()
	}
	return token, true, nil
}

func (g *stubGuard) Release(_ context.Context, projectID, day, token string) error {
	key := projectID + "|" + day
	if g.held[key] == token {
		delete(g.held, key)
	}
	g.released = append(g.released, key)
	return nil
}

// stubLocator returns a fixed coordinate or error and counts invocations.
type stubLocator struct {
	coord domain.Coordinate
	err   error
	block bool
	calls atomic.Int32
}

func (l *stubLocator) Locate(ctx context.Context) (domain.Coordinate, error) {
	l.calls.Add(1)
	if l.block {
		<-ctx.Done()
		return domain.Coordinate{}, ctx.Err()
	}
	return l.coord, l.err
}

type stubSignals struct {
	dpr        map[string]bool
	attendance map[string]bool
	materials  map[string]int
	latest     map[string]time.Time
	failAll    bool
}

var errSignalDown = errors.New("store unavailable")

func (s *stubSignals) HasDPR(_ context.Context, projectID, day string) (bool, error) {
	if s.failAll {
		return true, errSignalDown
	}
	return s.dpr[projectID+"|"+day], nil
}

func (s *stubSignals) HasAttendance(_ context.Context, projectID, day string) (bool, error) {
	if s.failAll {
		return true, errSignalDown
	}
	return s.attendance[projectID+"|"+day], nil
}

func (s *stubSignals) CountPendingMaterials(_ context.Context, projectID string) (int, error) {
	if s.failAll {
		return 99, errSignalDown
	}
	return s.materials[projectID], nil
}

func (s *stubSignals) LatestMessageAt(_ context.Context, projectID string) (*time.Time, error) {
	if s.failAll {
		t := fixedNow
		return &t, errSignalDown
	}
	t, ok := s.latest[projectID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// siteProject is a project registered at Pune with a 150 m geofence.
func siteProject(id, engineerID, ownerID string) *domain.Project {
	return &domain.Project{
		ID:           id,
		Name:         "Tower " + id,
		OwnerID:      ownerID,
		EngineerID:   engineerID,
		Coordinate:   domain.Coordinate{Lat: 18.5204, Lng: 73.8567},
		RadiusMeters: 150,
	}
}

var (
	engineer = domain.Actor{UserID: "eng-1", Role: domain.RoleEngineer}
	owner    = domain.Actor{UserID: "own-1", Role: domain.RoleOwner}
)
