package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// checkInRequest is the device fix attached to a check-in. Lat and Lng are
// pointers because zero is a valid coordinate.
type checkInRequest struct {
	Lat       *float64 `json:"lat"        validate:"omitempty,min=-90,max=90"`
	Lng       *float64 `json:"lng"        validate:"omitempty,min=-180,max=180"`
	AccuracyM float64  `json:"accuracy_m" validate:"min=0"`
	// Error is the device geolocation failure, if any.
	Error string `json:"error" validate:"omitempty,oneof=denied unsupported timeout"`
}

type presenceResponse struct {
	ProjectID       string     `json:"project_id"`
	Date            string     `json:"date"`
	Status          string     `json:"status"`
	DistanceMeters  *int       `json:"distance_meters,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	Message         string     `json:"message"`
	AlreadyVerified bool       `json:"already_verified,omitempty"`
	MarkedAt        *time.Time `json:"marked_at,omitempty"`
	DPRUnlocked     bool       `json:"dpr_unlocked"`
	DPRSubmitted    *bool      `json:"dpr_submitted,omitempty"`
}

type observationRequest struct {
	ProjectID  string    `json:"project_id"  validate:"required"`
	Lat        float64   `json:"lat"         validate:"min=-90,max=90"`
	Lng        float64   `json:"lng"         validate:"min=-180,max=180"`
	AccuracyM  float64   `json:"accuracy_m"  validate:"min=0"`
	ObservedAt time.Time `json:"observed_at" validate:"required"`
}

type syncBatchRequest struct {
	Observations []observationRequest `json:"observations" validate:"required,min=1,max=500,dive"`
}

type acceptedResponse struct {
	BatchID  string `json:"batch_id"`
	Accepted int    `json:"accepted"`
	Message  string `json:"message"`
}

type submitDPRRequest struct {
	Summary        string `json:"summary"         validate:"required,max=4000"`
	WorkersPresent int    `json:"workers_present" validate:"min=0"`
}

type dprResponse struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Date           string    `json:"date"`
	Summary        string    `json:"summary"`
	WorkersPresent int       `json:"workers_present"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type riskResponse struct {
	ProjectID      string   `json:"project_id"`
	Score          int      `json:"score"`
	Tier           string   `json:"tier"`
	Reasons        []string `json:"reasons"`
	Summary        string   `json:"summary"`
	NeedsAttention bool     `json:"needs_attention"`
}

type radarResponse struct {
	Projects       []riskResponse `json:"projects"`
	Total          int            `json:"total"`
	NeedsAttention int            `json:"needs_attention"`
	OnTrack        int            `json:"on_track"`
	ByTier         map[string]int `json:"by_tier"`
}
