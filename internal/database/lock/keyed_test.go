package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robalyx/tribunal/internal/database/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	t.Parallel()

	k := lock.NewKeyedMutex()

	var (
		active  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			unlock, err := k.Lock(context.Background(), "ban:1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := active.Add(1)
			for {
				seen := maxSeen.Load()
				if n <= seen || maxSeen.CompareAndSwap(seen, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Zero(t, k.Len())
}

func TestKeyedMutexDifferentKeysRunInParallel(t *testing.T) {
	t.Parallel()

	k := lock.NewKeyedMutex()

	unlockA, err := k.Lock(context.Background(), "ban:1")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlockB, err := k.Lock(ctx, "ban:2")
	require.NoError(t, err)
	unlockB()
}

func TestKeyedMutexContextCancel(t *testing.T) {
	t.Parallel()

	k := lock.NewKeyedMutex()

	unlock, err := k.Lock(context.Background(), "appeal:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = k.Lock(ctx, "appeal:1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Zero(t, k.Len())

	relock, err := k.Lock(context.Background(), "appeal:1")
	require.NoError(t, err)
	relock()
}
