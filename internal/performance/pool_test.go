package performance

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	var counter atomic.Int64
	var wg sync.WaitGroup

	const tasks = 32
	for i := 0; i < tasks; i++ {
		wg.Add(1)
		ok := pool.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		})
		require.True(t, ok)
	}
	wg.Wait()

	assert.Equal(t, int64(tasks), counter.Load())

	stats := pool.Stats()
	assert.Equal(t, 4, stats.Workers)
	assert.True(t, stats.Running)
	assert.Equal(t, uint64(tasks), stats.TasksTotal)
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.False(t, pool.Submit(func() {}))
}

func TestWorkerPoolStopIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	pool.Stop()
	pool.Stop()

	assert.False(t, pool.Stats().Running)
	assert.False(t, pool.Submit(func() {}))
}

func TestWorkerPoolDefaultsToCPUCount(t *testing.T) {
	pool := NewWorkerPool(0)
	assert.Greater(t, pool.Stats().Workers, 0)
}
