// Package geolocation provides ports.Locator implementations.
package geolocation

import (
	"context"
	"fmt"
	"math"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

// Client-side geolocation failure codes as reported by the device.
const (
	ErrCodeDenied      = "denied"
	ErrCodeUnsupported = "unsupported"
	ErrCodeTimeout     = "timeout"
)

// Reported is a position fix the device obtained itself and attached to the
// request. It satisfies ports.Locator.
type Reported struct {
	Coordinate *domain.Coordinate
	// AccuracyM is the device's estimated error radius. Zero means unknown.
	AccuracyM float64
	// Error is the device's failure code when no fix could be obtained.
	Error string
	// MaxAccuracyM rejects fixes coarser than this. Zero disables the check.
	MaxAccuracyM float64
}

// Locate returns the reported coordinate or a wrapped domain.ErrLocationUnavailable.
func (r Reported) Locate(ctx context.Context) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}

	switch r.Error {
	case "":
	case ErrCodeDenied:
		return domain.Coordinate{}, fmt.Errorf("%w: location access denied", domain.ErrLocationUnavailable)
	case ErrCodeUnsupported:
		return domain.Coordinate{}, fmt.Errorf("%w: geolocation not supported", domain.ErrLocationUnavailable)
	default:
		return domain.Coordinate{}, fmt.Errorf("%w: device reported %q", domain.ErrLocationUnavailable, r.Error)
	}

	if r.Coordinate == nil {
		return domain.Coordinate{}, fmt.Errorf("%w: no position reported", domain.ErrLocationUnavailable)
	}

	if r.MaxAccuracyM > 0 {
		if r.AccuracyM <= 0 || math.IsNaN(r.AccuracyM) || r.AccuracyM > r.MaxAccuracyM {
			return domain.Coordinate{}, fmt.Errorf("%w: accuracy %.0fm exceeds %.0fm",
				domain.ErrLocationUnavailable, r.AccuracyM, r.MaxAccuracyM)
		}
	}

	return *r.Coordinate, nil
}
