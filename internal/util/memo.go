package util

import (
	"context"
	"sync"
	"time"
)

// BucketMemo caches the result of a computation for the current time bucket.
// A new bucket starts every Bucket; the first call in a bucket recomputes.
type BucketMemo[T any] struct {
	Bucket time.Duration
	Now    func() time.Time

	mu     sync.Mutex
	bucket int64
	value  T
	valid  bool
}

func NewBucketMemo[T any](bucket time.Duration) *BucketMemo[T] {
	return &BucketMemo[T]{Bucket: bucket, Now: time.Now}
}

// Get returns the memoized value or calls compute. Errors are not cached.
func (m *BucketMemo[T]) Get(ctx context.Context, compute func(ctx context.Context) (T, error)) (T, error) {
	if m.Bucket <= 0 {
		return compute(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.Now().UnixNano() / int64(m.Bucket)
	if m.valid && m.bucket == current {
		return m.value, nil
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	m.value, m.bucket, m.valid = value, current, true
	return value, nil
}

// Invalidate forces the next Get to recompute.
func (m *BucketMemo[T]) Invalidate() {
	m.mu.Lock()
	m.valid = false
	m.mu.Unlock()
}
