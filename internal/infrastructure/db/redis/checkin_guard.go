package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultGuardTTL = 30 * time.Second

// releaseSource deletes the guard only while it still carries the caller's
// token, so an attempt whose TTL lapsed cannot drop a later holder's guard.
const releaseSource = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

var releaseScript = redis.NewScript(releaseSource)

// CheckInGuard serialises check-in attempts for a project day.
// Key format: checkin:<project_id>:<YYYY-MM-DD>, value: holder token.
type CheckInGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckInGuard creates a CheckInGuard. The TTL bounds how long a crashed
// attempt can block the day; a non-positive ttl uses defaultGuardTTL.
func NewCheckInGuard(client *redis.Client, ttl time.Duration) *CheckInGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &CheckInGuard{client: client, ttl: ttl}
}

// Acquire reports whether the caller now holds the guard for the project day
// and returns the token Release must present.
func (g *CheckInGuard) Acquire(ctx context.Context, projectID, day string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.key(projectID, day), token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("checkin guard acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the guard if token still owns it. A guard that expired and
// was taken by another attempt is left alone.
func (g *CheckInGuard) Release(ctx context.Context, projectID, day, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{g.key(projectID, day)}, token).Err(); err != nil {
		return fmt.Errorf("checkin guard release: %w", err)
	}
	return nil
}

func (g *CheckInGuard) key(projectID, day string) string {
	return fmt.Sprintf("checkin:%s:%s", projectID, day)
}
