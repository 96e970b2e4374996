package locking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const workers = 50
	inCritical := 0
	maxSeen := 0
	var track sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := km.WithLock(context.Background(), "slot:a", func(ctx context.Context) error {
				track.Lock()
				inCritical++
				if inCritical > maxSeen {
					maxSeen = inCritical
				}
				track.Unlock()

				track.Lock()
				inCritical--
				track.Unlock()
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, maxSeen, "two goroutines entered the critical section for one key")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = km.WithLock(context.Background(), "slot:a", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held

	// A different key must not queue behind slot:a.
	done := make(chan struct{})
	go func() {
		_ = km.WithLock(context.Background(), "slot:b", func(ctx context.Context) error {
			return nil
		})
		close(done)
	}()

	<-done
	close(release)
}

func TestKeyedMutexCancelledContext(t *testing.T) {
	km := NewKeyedMutex()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := km.WithLock(ctx, "slot:a", func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ran)
}
