package utils

import "sync"

// Lazy memoizes the result of a loader. The loader runs at most once; every
// later Get returns the same value and error.
type Lazy[T any] struct {
	once sync.Once
	load func() (T, error)
	val  T
	err  error
}

// NewLazy wraps load so that it is evaluated on first use only.
func NewLazy[T any](load func() (T, error)) *Lazy[T] {
	return &Lazy[T]{load: load}
}

// Get runs the loader on first call and returns the cached result afterwards.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.val, l.err = l.load()
	})
	return l.val, l.err
}
