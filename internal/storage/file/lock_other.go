//go:build !unix

package file

import (
	"context"
	"sync"
)

var (
	locksMu sync.Mutex
	locks   = make(map[string]chan struct{})
)

// Lock serialises holders within this process only; advisory file locks are
// unavailable on this platform.
func (s *Storage) Lock(ctx context.Context, name string) (func(), error) {
	path := s.lockPath(name)

	locksMu.Lock()
	ch, ok := locks[path]
	if !ok {
		ch = make(chan struct{}, 1)
		locks[path] = ch
	}
	locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
