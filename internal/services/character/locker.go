package character

import (
	"sync"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// locker hands out one in-flight mutation per character ID
type locker struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newLocker() *locker {
	return &locker{busy: make(map[string]struct{})}
}

// acquire fails with a conflict instead of waiting when id is already held
func (l *locker) acquire(id string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.busy[id]; held {
		return nil, rulerr.Conflictf("character '%s' is being modified", id).
			WithMeta("character_id", id)
	}
	l.busy[id] = struct{}{}

	return func() {
		l.mu.Lock()
		delete(l.busy, id)
		l.mu.Unlock()
	}, nil
}
