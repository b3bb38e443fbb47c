package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
)

const defaultLocateTimeout = 10 * time.Second

type locateResult struct {
	coord domain.Coordinate
	err   error
}

// acquireLocation waits at most timeout for the locator. The locator runs on
// its own goroutine with a context that is cancelled on every return path; a
// result arriving after that lands in the buffered channel and is dropped.
// Every failure is reported as domain.ErrLocationUnavailable.
func acquireLocation(ctx context.Context, locator ports.Locator, timeout time.Duration) (domain.Coordinate, error) {
	if locator == nil {
		return domain.Coordinate{}, fmt.Errorf("%w: no location source", domain.ErrLocationUnavailable)
	}
	if timeout <= 0 {
		timeout = defaultLocateTimeout
	}

	locCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan locateResult, 1)
	go func() {
		c, err := locator.Locate(locCtx)
		ch <- locateResult{coord: c, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, domain.ErrLocationUnavailable) {
				return domain.Coordinate{}, res.err
			}
			return domain.Coordinate{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, res.err)
		}
		return res.coord, nil
	case <-locCtx.Done():
		if ctx.Err() != nil {
			return domain.Coordinate{}, ctx.Err()
		}
		return domain.Coordinate{}, fmt.Errorf("%w: timed out after %s", domain.ErrLocationUnavailable, timeout)
	}
}
