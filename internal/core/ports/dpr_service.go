package ports

import (
	"context"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

// SubmitDPRInput carries a daily progress report submission.
type SubmitDPRInput struct {
	ProjectID      string
	Actor          domain.Actor
	Summary        string
	WorkersPresent int
}

// DPRService accepts daily progress reports once attendance is verified.
type DPRService interface {
	Submit(ctx context.Context, input SubmitDPRInput) (*domain.DPR, error)
}
