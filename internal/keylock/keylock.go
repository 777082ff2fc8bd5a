// Package keylock serializa trabalho por chave (ex.: por barbeiro) dentro
// de um único processo, com espera limitada.
package keylock

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrTimeout = errors.New("keylock: wait timed out")

type entry struct {
	ch   chan struct{}
	refs int
}

type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// Lock bloqueia até obter a chave, até ctx terminar ou até timeout
// (timeout <= 0 espera só pelo ctx). Devolve a função de liberação, que
// pode ser chamada mais de uma vez.
func (l *Locker) Lock(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	e := l.acquireEntry(key)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case e.ch <- struct{}{}:
	case <-expired:
		l.releaseEntry(key, e)
		return nil, ErrTimeout
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.releaseEntry(key, e)
		})
	}, nil
}

func (l *Locker) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) releaseEntry(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
