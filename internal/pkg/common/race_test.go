package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaceTimeout(t *testing.T) {
	t.Run("returns result when fn finishes first", func(t *testing.T) {
		val, err := RaceTimeout(context.Background(), time.Second, func(ctx context.Context) (string, error) {
			return "ok", nil
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", val)
	})

	t.Run("propagates fn error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := RaceTimeout(context.Background(), time.Second, func(ctx context.Context) (int, error) {
			return 0, boom
		}, nil)

		assert.ErrorIs(t, err, boom)
	})

	t.Run("times out on fn that ignores cancellation", func(t *testing.T) {
		release := make(chan struct{})
		late := make(chan string, 1)

		start := time.Now()
		val, err := RaceTimeout(context.Background(), 20*time.Millisecond, func(ctx context.Context) (string, error) {
			<-release
			return "late", nil
		}, func(v string, err error) {
			late <- v
		})

		assert.ErrorIs(t, err, ErrRaceTimeout)
		assert.Empty(t, val)
		assert.Less(t, time.Since(start), time.Second)

		// 被放棄的呼叫仍會執行完畢
		close(release)
		select {
		case v := <-late:
			assert.Equal(t, "late", v)
		case <-time.After(time.Second):
			t.Fatal("abandoned call never reported")
		}
	})

	t.Run("cancels fn context on timeout", func(t *testing.T) {
		cancelled := make(chan error, 1)
		_, err := RaceTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			cancelled <- ctx.Err()
			return 0, ctx.Err()
		}, nil)

		assert.ErrorIs(t, err, ErrRaceTimeout)
		select {
		case cerr := <-cancelled:
			assert.ErrorIs(t, cerr, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("fn context was not cancelled")
		}
	})

	t.Run("parent cancellation wins", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := RaceTimeout(ctx, time.Second, func(ctx context.Context) (int, error) {
			time.Sleep(50 * time.Millisecond)
			return 1, nil
		}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
