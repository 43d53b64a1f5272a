package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AcquireRelease(t *testing.T) {
	var observed []int
	m := NewManager(2, func(n int) { observed = append(observed, n) })

	first, err := m.Acquire()
	require.NoError(t, err)
	second, err := m.Acquire()
	require.NoError(t, err)

	_, err = m.Acquire()
	assert.ErrorIs(t, err, ErrQueueFull)

	first.Release()
	first.Release()

	third, err := m.Acquire()
	require.NoError(t, err)

	second.MarkAbandoned()
	second.Release()
	third.Release()

	status := m.GetQueueStatus()
	assert.Equal(t, 0, status.Inflight)
	assert.Equal(t, 2, status.MaxInflight)
	assert.Equal(t, int64(3), status.ProcessedCount)
	assert.Equal(t, int64(1), status.RejectedCount)
	assert.Equal(t, int64(1), status.AbandonedCount)
	assert.Equal(t, []int{1, 2, 1, 2, 1, 0}, observed)
}

func TestManager_Close(t *testing.T) {
	m := NewManager(0, nil)
	assert.Equal(t, 1, m.GetQueueStatus().MaxInflight)

	m.Close()
	m.Close()

	_, err := m.Acquire()
	assert.ErrorIs(t, err, ErrClosed)
}
