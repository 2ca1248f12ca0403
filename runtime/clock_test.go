package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Clock_Pairs_Are_Strictly_Increasing(t *testing.T) {
	req := require.New(t)
	clock := NewClock()

	lastAt, lastSeq := clock.Next()
	for i := 0; i < 1000; i++ {
		at, seq := clock.Next()
		req.False(at.Before(lastAt))
		req.Greater(seq, lastSeq)
		lastAt, lastSeq = at, seq
	}
}

func Test_Clock_Under_Concurrency(t *testing.T) {
	req := require.New(t)
	clock := NewClock()

	const goroutines = 8
	const perGoroutine = 500

	var wg sync.WaitGroup
	seqs := make(chan uint64, goroutines*perGoroutine)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				_, seq := clock.Next()
				seqs <- seq
			}
		}()
	}
	wg.Wait()
	close(seqs)

	// Every sequence is unique: ties on the timestamp can always be
	// broken deterministically
	seen := make(map[uint64]bool, goroutines*perGoroutine)
	for seq := range seqs {
		req.False(seen[seq], "duplicate sequence %d", seq)
		seen[seq] = true
	}
	req.Len(seen, goroutines*perGoroutine)
}
