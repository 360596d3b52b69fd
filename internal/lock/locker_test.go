package lock

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestAcquireSerializesSameDocument(t *testing.T) {
	locker := NewDocLocker()
	ctx := context.Background()

	const goroutines = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(ctx, DocLedger)
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			counter++
			release()
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Errorf("expected %d increments under the lock, got %d", goroutines, counter)
	}
}

func TestAcquireIndependentDocumentsDoNotBlock(t *testing.T) {
	locker := NewDocLocker()
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, DocRun("a"))
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, err := locker.Acquire(ctx, DocRun("b"))
		if err != nil {
			t.Errorf("Acquire failed: %v", err)
			return
		}
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("independent run locks must not serialize against each other")
	}
}

func TestAcquireMultiDocumentOrdering(t *testing.T) {
	locker := NewDocLocker()
	ctx := context.Background()

	// Two goroutines taking the same pair in opposite declaration order
	// must not deadlock: Acquire sorts names internally.
	var wg sync.WaitGroup
	wg.Add(2)
	for _, names := range [][]string{
		{DocLedger, DocCollection},
		{DocCollection, DocLedger},
	} {
		names := names
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				release, err := locker.Acquire(ctx, names...)
				if err != nil {
					t.Errorf("Acquire failed: %v", err)
					return
				}
				release()
			}
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("multi-document acquisition deadlocked")
	}
}

func TestAcquireHonorsCancellation(t *testing.T) {
	locker := NewDocLocker()

	release, err := locker.Acquire(context.Background(), DocLedger)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := locker.Acquire(ctx, DocLedger); err == nil {
		t.Fatal("expected context error while the lock is held")
	}
}
