package domain

import (
	"fmt"
	"time"
)

// RiskTier is the discrete classification of a risk score.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

// Score weights applied by AssessRisk.
const (
	WeightDPRMissing         = 30
	WeightAttendanceMissing  = 25
	WeightPendingMaterial    = 10
	WeightStaleCommunication = 15
)

// CommunicationWindow is how recent the latest project message must be.
const CommunicationWindow = 24 * time.Hour

const allNormal = "All activities normal"

// RiskSignals are the independent per-project facts for one day.
type RiskSignals struct {
	DPRMissingToday        bool
	AttendanceMissingToday bool
	PendingMaterialCount   int
	StaleCommunication     bool
}

// RiskAssessment is recomputed on every evaluation and never stored.
type RiskAssessment struct {
	ProjectID string   `json:"project_id"`
	Score     int      `json:"score"`
	Tier      RiskTier `json:"tier"`
	Reasons   []string `json:"reasons"`
}

// Summary describes the assessment in one line.
func (a RiskAssessment) Summary() string {
	if len(a.Reasons) == 0 {
		return allNormal
	}
	return fmt.Sprintf("%s risk: %d issue(s)", a.Tier, len(a.Reasons))
}

// NeedsAttention reports whether the project should surface on the radar.
func (a RiskAssessment) NeedsAttention() bool {
	return a.Tier != RiskLow
}

// StaleCommunication reports whether no message exists or the latest one is
// older than CommunicationWindow at now.
func StaleCommunication(latest *time.Time, now time.Time) bool {
	if latest == nil {
		return true
	}
	return now.Sub(*latest) > CommunicationWindow
}

// AssessRisk reduces the signals to a weighted score and tier. Reasons keep
// the order DPR, attendance, materials, communication.
func AssessRisk(projectID string, s RiskSignals) RiskAssessment {
	score := 0
	reasons := make([]string, 0, 4)

	if s.DPRMissingToday {
		score += WeightDPRMissing
		reasons = append(reasons, "DPR not submitted today")
	}
	if s.AttendanceMissingToday {
		score += WeightAttendanceMissing
		reasons = append(reasons, "Attendance not marked today")
	}
	if n := s.PendingMaterialCount; n > 0 {
		score += WeightPendingMaterial * n
		reasons = append(reasons, fmt.Sprintf("%d material request(s) pending", n))
	}
	if s.StaleCommunication {
		score += WeightStaleCommunication
		reasons = append(reasons, "No communication in last 24h")
	}

	return RiskAssessment{
		ProjectID: projectID,
		Score:     score,
		Tier:      TierForScore(score),
		Reasons:   reasons,
	}
}

// TierForScore maps a score to its tier: above 50 is HIGH, above 20 MEDIUM.
func TierForScore(score int) RiskTier {
	switch {
	case score > 50:
		return RiskHigh
	case score > 20:
		return RiskMedium
	default:
		return RiskLow
	}
}
