package geolocation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

func TestReported_Locate(t *testing.T) {
	site := &domain.Coordinate{Lat: 18.5204, Lng: 73.8567}

	tests := []struct {
		name    string
		in      Reported
		wantErr bool
	}{
		{name: "fix without accuracy check", in: Reported{Coordinate: site}},
		{name: "fix within accuracy", in: Reported{Coordinate: site, AccuracyM: 12, MaxAccuracyM: 50}},
		{name: "fix too coarse", in: Reported{Coordinate: site, AccuracyM: 900, MaxAccuracyM: 50}, wantErr: true},
		{name: "accuracy required but unknown", in: Reported{Coordinate: site, MaxAccuracyM: 50}, wantErr: true},
		{name: "denied", in: Reported{Error: ErrCodeDenied}, wantErr: true},
		{name: "unsupported", in: Reported{Error: ErrCodeUnsupported}, wantErr: true},
		{name: "device timeout", in: Reported{Error: ErrCodeTimeout}, wantErr: true},
		{name: "error wins over coordinate", in: Reported{Coordinate: site, Error: ErrCodeDenied}, wantErr: true},
		{name: "nothing reported", in: Reported{}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.Locate(context.Background())
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrLocationUnavailable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *site, got)
		})
	}
}

func TestReported_LocateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Reported{Coordinate: &domain.Coordinate{}}.Locate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
