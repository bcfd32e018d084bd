package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBuffer(t *testing.T) {
	b := NewBatchBuffer[int](3)

	assert.False(t, b.Add(1))
	assert.False(t, b.Add(2))
	assert.Equal(t, []int{1, 2}, b.Peek())
	assert.True(t, b.Add(3))

	assert.Equal(t, []int{1, 2, 3}, b.GetAndClear())
	assert.Equal(t, 0, b.Size())
	assert.Nil(t, b.GetAndClear())
}

func TestBatchBuffer_DefaultCapacity(t *testing.T) {
	b := NewBatchBuffer[string](0)
	for i := 0; i < BATCH_SIZE-1; i++ {
		assert.False(t, b.Add("x"))
	}
	assert.True(t, b.Add("x"))
}

func TestBatchBuffer_Concurrent(t *testing.T) {
	b := NewBatchBuffer[int](1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Add(j)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, b.GetAndClear(), 500)
}
