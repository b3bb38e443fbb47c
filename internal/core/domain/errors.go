package domain

import "errors"

// Presence errors.
var (
	ErrMalformedInput      = errors.New("malformed input")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrAlreadyCheckedIn    = errors.New("attendance already marked today")
	ErrCheckInInProgress   = errors.New("check-in already in progress")
	ErrAttendanceNotFound  = errors.New("attendance not found")
)

// Project and report errors.
var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrAttendanceRequired  = errors.New("attendance must be verified before submitting a DPR")
	ErrDPRAlreadySubmitted = errors.New("DPR already submitted today")
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)
