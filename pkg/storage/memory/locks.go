package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
)

// keyLocks hands out one exclusive lock per key. Each lock is a buffered
// channel of size one so acquisition can be abandoned on timeout.
type keyLocks struct {
	mu    sync.Mutex
	chans map[string]chan struct{}
}

func newKeyLocks() *keyLocks {
	return &keyLocks{chans: make(map[string]chan struct{})}
}

func (l *keyLocks) get(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.chans[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.chans[key] = ch
	}
	return ch
}

// acquire locks every key in sorted order, waiting at most timeout in total.
// The returned func releases them.
func (l *keyLocks) acquire(ctx context.Context, keys []string, timeout time.Duration) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	held := make([]chan struct{}, 0, len(sorted))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range sorted {
		if key == "" {
			continue
		}
		ch := l.get(key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-waitCtx.Done():
			release()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: timed out after %s waiting for %s", apperr.ErrContention, timeout, key)
		}
	}
	return release, nil
}
