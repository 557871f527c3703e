package readthrough

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestGuard_TryLoad_DropsConcurrent(t *testing.T) {
	var g Guard
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	fetches := 0

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = g.TryLoad(ctx, func(ctx context.Context) error {
			fetches++
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	// second load fired before the first settles must be dropped
	err := g.TryLoad(ctx, func(ctx context.Context) error {
		fetches++
		return nil
	})
	if err != ErrInFlight {
		t.Errorf("second TryLoad = %v, want ErrInFlight", err)
	}

	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Errorf("first TryLoad = %v, want nil", firstErr)
	}
	if fetches != 1 {
		t.Errorf("fetch ran %d times, want exactly 1", fetches)
	}

	// after settling, loads run again
	if err := g.TryLoad(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("TryLoad after settle = %v, want nil", err)
	}
}

func TestGuard_Load_SupersedesSlowLoad(t *testing.T) {
	var g Guard
	ctx := context.Background()

	firstStarted := make(chan struct{})
	firstCancelled := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = g.Load(ctx, func(loadCtx context.Context) error {
			close(firstStarted)
			select {
			case <-loadCtx.Done():
				close(firstCancelled)
				return loadCtx.Err()
			case <-time.After(5 * time.Second):
				t.Error("superseded load context was never cancelled")
				return nil
			}
		})
	}()

	<-firstStarted

	// a newer load cancels the first and wins
	err := g.Load(ctx, func(loadCtx context.Context) error { return nil })
	if err != nil {
		t.Errorf("newer Load = %v, want nil", err)
	}

	wg.Wait()
	select {
	case <-firstCancelled:
	default:
		t.Error("first load was not cancelled")
	}
	if firstErr != ErrSuperseded {
		t.Errorf("superseded Load = %v, want ErrSuperseded", firstErr)
	}
}

func TestGuard_Load_SequentialLoadsSucceed(t *testing.T) {
	var g Guard
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := g.Load(ctx, func(loadCtx context.Context) error { return nil }); err != nil {
			t.Fatalf("sequential Load %d = %v, want nil", i, err)
		}
	}
}

func TestGuard_Load_PropagatesError(t *testing.T) {
	var g Guard
	want := context.DeadlineExceeded

	err := g.Load(context.Background(), func(loadCtx context.Context) error { return want })
	if err != want {
		t.Errorf("Load = %v, want %v", err, want)
	}
}
