package parallel

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkers(t *testing.T) {
	assert.Equal(t, 1, Workers(4, 1))
	assert.Equal(t, 3, Workers(3, 10))
	assert.Equal(t, 1, Workers(0, 0))

	expected := runtime.NumCPU()
	if expected > 100 {
		expected = 100
	}
	assert.Equal(t, expected, Workers(0, 100))
}

func TestForEachVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 2, 8, 0} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			const items = 50
			seen := make([]int32, items)
			err := ForEach(items, workers, func(i int) error {
				atomic.AddInt32(&seen[i], 1)
				return nil
			})
			assert.NoError(t, err)
			for i, n := range seen {
				assert.Equal(t, int32(1), n, "index %d", i)
			}
		})
	}
}

func TestForEachReturnsError(t *testing.T) {
	sentinel := fmt.Errorf("feature 3 failed")
	for _, workers := range []int{1, 4} {
		err := ForEach(10, workers, func(i int) error {
			if i == 3 {
				return sentinel
			}
			return nil
		})
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestForEachEmpty(t *testing.T) {
	called := false
	err := ForEach(0, 4, func(int) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}
