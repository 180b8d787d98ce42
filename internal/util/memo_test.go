package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBucketMemo(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	memo := NewBucketMemo[int](30 * time.Second)
	memo.Now = func() time.Time { return now }

	calls := 0
	compute := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	ctx := context.Background()
	first, _ := memo.Get(ctx, compute)
	second, _ := memo.Get(ctx, compute)
	if first != 1 || second != 1 {
		t.Fatalf("expected cached value within bucket, got %d then %d", first, second)
	}

	now = now.Add(31 * time.Second)
	third, _ := memo.Get(ctx, compute)
	if third != 2 {
		t.Fatalf("expected recompute in a new bucket, got %d", third)
	}

	memo.Invalidate()
	fourth, _ := memo.Get(ctx, compute)
	if fourth != 3 {
		t.Fatalf("expected recompute after Invalidate, got %d", fourth)
	}
}

func TestBucketMemoDoesNotCacheErrors(t *testing.T) {
	memo := NewBucketMemo[string](time.Minute)
	boom := errors.New("boom")

	if _, err := memo.Get(context.Background(), func(context.Context) (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := memo.Get(context.Background(), func(context.Context) (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Fatalf("expected recompute after error, got %q, %v", got, err)
	}
}

func TestBucketMemoDisabled(t *testing.T) {
	memo := NewBucketMemo[int](0)
	calls := 0
	for i := 0; i < 3; i++ {
		memo.Get(context.Background(), func(context.Context) (int, error) { calls++; return calls, nil })
	}
	if calls != 3 {
		t.Fatalf("expected every call to compute, got %d", calls)
	}
}
