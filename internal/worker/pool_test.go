package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRunKeepsOrder(t *testing.T) {
	pool := NewPool(3, func(ctx context.Context, in string) (string, error) {
		if in == "bad" {
			return "", errors.New("bad input")
		}
		return strings.ToUpper(in), nil
	})

	tasks := pool.Run(context.Background(), []string{"fr", "bad", "de", "es"})
	want := []string{"FR", "", "DE", "ES"}
	for i, task := range tasks {
		if task.Value != want[i] {
			t.Errorf("task %d: got %q, want %q", i, task.Value, want[i])
		}
	}
	if tasks[1].Err == nil {
		t.Fatalf("expected error for bad input")
	}
	if n := Failed(tasks); n != 1 {
		t.Fatalf("expected 1 failure, got %d", n)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	pool := NewPool(2, func(ctx context.Context, in int) (int, error) {
		ran.Add(1)
		return in, nil
	})

	tasks := pool.Run(ctx, []int{1, 2, 3, 4})
	cancelled := 0
	for _, task := range tasks {
		if errors.Is(task.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled+int(ran.Load()) != 4 {
		t.Fatalf("expected every task to either run or report cancellation: ran=%d cancelled=%d", ran.Load(), cancelled)
	}
}

func TestRunEmpty(t *testing.T) {
	pool := NewPool(0, func(ctx context.Context, in int) (int, error) { return in, nil })
	if got := pool.Run(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}
