package display

import (
	"context"
	"sync"
	"time"

	"docportal/internal/models"
)

const (
	subscriberBuffer = 8
	defaultTTL       = 24 * time.Hour
)

type entry struct {
	state    models.ViewState
	postedAt time.Time
}

// MemoryBoard is a single-process Board. Entries older than the TTL read as
// missing and are swept on later posts, at most once per TTL.
type MemoryBoard struct {
	mu          sync.RWMutex
	states      map[string]entry
	subscribers map[string]map[chan models.ViewState]struct{}
	ttl         time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

type MemoryOption func(*MemoryBoard)

// WithTTL sets how long a session's message is kept; 0 keeps it forever.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(b *MemoryBoard) { b.ttl = ttl }
}

func NewMemoryBoard(opts ...MemoryOption) *MemoryBoard {
	b := &MemoryBoard{
		states:      make(map[string]entry),
		subscribers: make(map[string]map[chan models.ViewState]struct{}),
		ttl:         defaultTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.lastSweep = b.now()
	return b
}

func (b *MemoryBoard) Post(ctx context.Context, sessionID string, state models.ViewState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.sweep(now)
	b.states[sessionID] = entry{state: state, postedAt: now}
	for ch := range b.subscribers[sessionID] {
		select {
		case ch <- state:
		default:
			// Slow reader: drop the oldest pending update, keep the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
	return nil
}

func (b *MemoryBoard) Latest(ctx context.Context, sessionID string) (models.ViewState, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.states[sessionID]
	if !ok || b.expired(e, b.now()) {
		return models.ViewState{}, false, nil
	}
	return e.state, true, nil
}

// Len reports how many sessions currently hold an entry, expired or not.
func (b *MemoryBoard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.states)
}

func (b *MemoryBoard) expired(e entry, now time.Time) bool {
	return b.ttl > 0 && now.Sub(e.postedAt) > b.ttl
}

// sweep drops expired entries. Callers hold b.mu.
func (b *MemoryBoard) sweep(now time.Time) {
	if b.ttl <= 0 || now.Sub(b.lastSweep) < b.ttl {
		return
	}
	for sessionID, e := range b.states {
		if b.expired(e, now) {
			delete(b.states, sessionID)
		}
	}
	b.lastSweep = now
}

func (b *MemoryBoard) Subscribe(ctx context.Context, sessionID string) (<-chan models.ViewState, func(), error) {
	ch := make(chan models.ViewState, subscriberBuffer)

	b.mu.Lock()
	if b.subscribers[sessionID] == nil {
		b.subscribers[sessionID] = make(map[chan models.ViewState]struct{})
	}
	b.subscribers[sessionID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers[sessionID], ch)
			if len(b.subscribers[sessionID]) == 0 {
				delete(b.subscribers, sessionID)
			}
			close(ch)
			b.mu.Unlock()
			close(done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel, nil
}

// Subscribers reports how many live subscriptions a session has.
func (b *MemoryBoard) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[sessionID])
}
