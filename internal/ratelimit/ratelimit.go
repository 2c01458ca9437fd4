package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles actions per chat
type Limiter interface {
	Allow(chatID int64) bool
	Wait(ctx context.Context, chatID int64) error
}

// InMemoryLimiter is an implementation of Limiter stored in memory
type InMemoryLimiter struct {
	chats map[int64]*rate.Limiter
	mu    sync.Mutex
	r     rate.Limit // rate of adding tokens
	b     int        // bucket size
}

// NewInMemoryLimiter creates a new rate limiter
// Example: NewInMemoryLimiter(1, 3*time.Second, 1) -> one message every 3 seconds per chat
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	return &InMemoryLimiter{
		chats: make(map[int64]*rate.Limiter),
		r:     rate.Every(per / time.Duration(requests)),
		b:     burst,
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)

func (l *InMemoryLimiter) limiter(chatID int64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.chats[chatID]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.chats[chatID] = limiter
	}
	return limiter
}

// Allow reports whether the chat may receive a message now
func (l *InMemoryLimiter) Allow(chatID int64) bool {
	return l.limiter(chatID).Allow()
}

// Wait blocks until the chat may receive a message or ctx is done
func (l *InMemoryLimiter) Wait(ctx context.Context, chatID int64) error {
	return l.limiter(chatID).Wait(ctx)
}
