package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Await(t *testing.T) {
	f := Run(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRun_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	f := Run(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	})

	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAwait_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := Run(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, _, ok := f.Result()
	assert.False(t, ok, "future must still be pending")
}

func TestAwait_ConcurrentWaiters(t *testing.T) {
	f := Run(context.Background(), func(ctx context.Context) (int, error) {
		time.Sleep(5 * time.Millisecond)
		return 7, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := f.Await(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}
	wg.Wait()
}

func TestResolved(t *testing.T) {
	f := Resolved("done", nil)

	select {
	case <-f.Done():
	default:
		t.Fatal("resolved future should be done")
	}

	v, err, ok := f.Result()
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, "done", v)
}
