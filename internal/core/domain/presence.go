package domain

import (
	"fmt"
	"math"
	"time"
)

// Site is the registered geofence of a project.
type Site struct {
	ProjectID    string
	Coordinate   Coordinate
	RadiusMeters float64
}

// Validate reports whether the site can be used for a presence check.
func (s Site) Validate() error {
	if err := s.Coordinate.Validate(); err != nil {
		return fmt.Errorf("site %s: %w", s.ProjectID, err)
	}
	if !finite(s.RadiusMeters) || s.RadiusMeters < 0 {
		return fmt.Errorf("site %s: %w: radius must be a non-negative number", s.ProjectID, ErrMalformedInput)
	}
	return nil
}

// PresenceStatus is the outcome tag of a presence check.
type PresenceStatus string

const (
	PresenceVerified   PresenceStatus = "VERIFIED"
	PresenceFailed     PresenceStatus = "FAILED"
	PresenceNotChecked PresenceStatus = "NOT_CHECKED"
)

// FailureReason explains a FAILED presence result.
type FailureReason string

const (
	ReasonOutOfRange          FailureReason = "OUT_OF_RANGE"
	ReasonLocationUnavailable FailureReason = "LOCATION_UNAVAILABLE"
)

// PresenceResult is the tagged result of a presence check. DistanceMeters is
// set for VERIFIED and OUT_OF_RANGE results only.
type PresenceResult struct {
	Status         PresenceStatus
	DistanceMeters *int
	Reason         FailureReason
}

func Verified(distance int) PresenceResult {
	return PresenceResult{Status: PresenceVerified, DistanceMeters: &distance}
}

func OutOfRange(distance int) PresenceResult {
	return PresenceResult{Status: PresenceFailed, DistanceMeters: &distance, Reason: ReasonOutOfRange}
}

func LocationUnavailable() PresenceResult {
	return PresenceResult{Status: PresenceFailed, Reason: ReasonLocationUnavailable}
}

func NotChecked() PresenceResult {
	return PresenceResult{Status: PresenceNotChecked}
}

// IsVerified reports whether the observation was accepted.
func (r PresenceResult) IsVerified() bool {
	return r.Status == PresenceVerified
}

// Message renders the result for the person attempting the check-in.
func (r PresenceResult) Message() string {
	switch {
	case r.Status == PresenceVerified && r.DistanceMeters != nil:
		return fmt.Sprintf("GPS verified, %dm from site", *r.DistanceMeters)
	case r.Reason == ReasonOutOfRange && r.DistanceMeters != nil:
		return fmt.Sprintf("You are %dm away from site", *r.DistanceMeters)
	case r.Reason == ReasonLocationUnavailable:
		return "Location unavailable"
	default:
		return "Attendance not marked"
	}
}

// EvaluatePresence classifies observed against the site's radius. Malformed
// coordinates or radius are reported as ErrMalformedInput, never as a
// distance.
func EvaluatePresence(observed Coordinate, site Site) (PresenceResult, error) {
	if err := observed.Validate(); err != nil {
		return PresenceResult{}, fmt.Errorf("observed: %w", err)
	}
	if err := site.Validate(); err != nil {
		return PresenceResult{}, err
	}

	d := Distance(observed, site.Coordinate)
	if !finite(d) {
		return PresenceResult{}, fmt.Errorf("%w: distance is not a number", ErrMalformedInput)
	}

	rounded := int(math.Round(d))
	if d <= site.RadiusMeters {
		return Verified(rounded), nil
	}
	return OutOfRange(rounded), nil
}

// AttendanceRecord is the accepted check-in of an engineer for a project day.
type AttendanceRecord struct {
	ID             string     `json:"id" bson:"_id"`
	ProjectID      string     `json:"project_id" bson:"project_id"`
	EngineerID     string     `json:"engineer_id" bson:"engineer_id"`
	Date           string     `json:"date" bson:"date"`
	Coordinate     Coordinate `json:"coordinate" bson:"coordinate"`
	DistanceMeters int        `json:"distance_meters" bson:"distance_meters"`
	MarkedAt       time.Time  `json:"marked_at" bson:"marked_at"`
}

// DayKey returns the calendar day of t in loc as YYYY-MM-DD. A nil loc means UTC.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.DateOnly)
}
