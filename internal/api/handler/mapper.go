package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
	"github.com/sitepulse/site-presence/internal/infrastructure/geolocation"
)

// --- Request → Service input ---

func toLocator(req checkInRequest, maxAccuracyM float64) geolocation.Reported {
	loc := geolocation.Reported{
		AccuracyM:    req.AccuracyM,
		Error:        req.Error,
		MaxAccuracyM: maxAccuracyM,
	}
	if req.Lat != nil && req.Lng != nil {
		loc.Coordinate = &domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	}
	return loc
}

func toObservationInputs(req syncBatchRequest, actor domain.Actor) (string, []ports.ObservationInput) {
	batchID := uuid.NewString()
	out := make([]ports.ObservationInput, 0, len(req.Observations))
	for _, o := range req.Observations {
		out = append(out, ports.ObservationInput{
			BatchID:    batchID,
			ProjectID:  o.ProjectID,
			Actor:      actor,
			Coordinate: domain.Coordinate{Lat: o.Lat, Lng: o.Lng},
			AccuracyM:  o.AccuracyM,
			ObservedAt: o.ObservedAt,
		})
	}
	return batchID, out
}

// --- Service output → Response ---

func toCheckInResponse(r *ports.CheckInResult) presenceResponse {
	resp := presenceResponse{
		ProjectID:       r.ProjectID,
		Date:            r.Day,
		Status:          string(r.Result.Status),
		DistanceMeters:  r.Result.DistanceMeters,
		Reason:          string(r.Result.Reason),
		Message:         r.Result.Message(),
		AlreadyVerified: r.AlreadyVerified,
		DPRUnlocked:     r.Result.IsVerified(),
	}
	resp.MarkedAt = timePtr(r.MarkedAt)
	return resp
}

func toStatusResponse(r *ports.PresenceStatusResult) presenceResponse {
	submitted := r.DPRSubmitted
	return presenceResponse{
		ProjectID:      r.ProjectID,
		Date:           r.Day,
		Status:         string(r.Result.Status),
		DistanceMeters: r.Result.DistanceMeters,
		Reason:         string(r.Result.Reason),
		Message:        r.Result.Message(),
		MarkedAt:       timePtr(r.MarkedAt),
		DPRUnlocked:    r.DPRUnlocked,
		DPRSubmitted:   &submitted,
	}
}

func toRiskResponse(a domain.RiskAssessment) riskResponse {
	reasons := a.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return riskResponse{
		ProjectID:      a.ProjectID,
		Score:          a.Score,
		Tier:           string(a.Tier),
		Reasons:        reasons,
		Summary:        a.Summary(),
		NeedsAttention: a.NeedsAttention(),
	}
}

func toRadarResponse(r *ports.RadarResult) radarResponse {
	projects := make([]riskResponse, 0, len(r.Assessments))
	for _, a := range r.Assessments {
		projects = append(projects, toRiskResponse(a))
	}
	byTier := make(map[string]int, len(r.ByTier))
	for tier, n := range r.ByTier {
		byTier[string(tier)] = n
	}
	return radarResponse{
		Projects:       projects,
		Total:          r.Total,
		NeedsAttention: r.NeedsAttention,
		OnTrack:        r.OnTrack,
		ByTier:         byTier,
	}
}

func toDPRResponse(d *domain.DPR) dprResponse {
	return dprResponse{
		ID:             d.ID,
		ProjectID:      d.ProjectID,
		Date:           d.Date,
		Summary:        d.Summary,
		WorkersPresent: d.WorkersPresent,
		SubmittedAt:    d.SubmittedAt,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
