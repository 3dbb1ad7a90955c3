package cache

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const LoginAttemptsCachePrefix = "login-attempts-"

// LoginAttempts counts failed logins per username.
type LoginAttempts struct {
	store  *Store
	cache  *PrefixedCache[int]
	max    int
	window time.Duration
}

// NewLoginAttempts creates a counter that locks a username after maxAttempts
// failures until window has passed since the last failure.
func NewLoginAttempts(s *Store, maxAttempts int, window time.Duration) *LoginAttempts {
	return &LoginAttempts{
		store:  s,
		cache:  NewPrefixedCache[int](s.Cache, LoginAttemptsCachePrefix),
		max:    maxAttempts,
		window: window,
	}
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (l *LoginAttempts) count(ctx context.Context, username string) int {
	n, err := l.cache.Get(ctx, normalize(username))
	if err != nil {
		// missing keys are reported as errors by every store
		return 0
	}
	return n
}

// Locked reports whether further login attempts for username are rejected.
func (l *LoginAttempts) Locked(ctx context.Context, username string) bool {
	return l.count(ctx, username) >= l.max
}

// Fail records a failed attempt and returns the number of failures so far.
// Concurrent failures are all counted, also across instances sharing redis.
func (l *LoginAttempts) Fail(ctx context.Context, username string) int {
	total, err := l.store.Incr(ctx, l.cache.key(normalize(username)), l.window)
	if err != nil {
		log.Error("failed to record login attempt", "error", err)
		return l.count(ctx, username)
	}
	n := int(total)
	if n >= l.max {
		log.Warn("login locked after repeated failures", "username", username, "attempts", n)
	}
	return n
}

// Reset forgets all failures for username.
func (l *LoginAttempts) Reset(ctx context.Context, username string) {
	if err := l.cache.Delete(ctx, normalize(username)); err != nil {
		log.Debug("failed to reset login attempts", "error", err)
	}
}
