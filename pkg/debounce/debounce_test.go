package debounce_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/niksmo/galeria/pkg/debounce"
)

func TestDebouncer_OnlyLastTaskRuns(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)

	var (
		mu  sync.Mutex
		got []int
	)
	for i := range 5 {
		d.Schedule(func() {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, i)
		})
	}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{4}, got)
	assert.False(t, d.Flush())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := debounce.New(10 * time.Millisecond)

	var calls atomic.Int32
	d.Schedule(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.False(t, d.Flush())
	assert.Zero(t, calls.Load())
}

func TestDebouncer_Flush(t *testing.T) {
	d := debounce.New(time.Hour)

	var calls atomic.Int32
	d.Schedule(func() { calls.Add(1) })
	assert.True(t, d.Flush())
	assert.EqualValues(t, 1, calls.Load())

	assert.False(t, d.Flush())
	assert.EqualValues(t, 1, calls.Load())
}
