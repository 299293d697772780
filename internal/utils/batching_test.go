package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBuffer_AddAndDrain(t *testing.T) {
	b := NewBatchBuffer[string](2)

	assert.False(t, b.HasData())
	assert.Nil(t, b.GetAndClear())

	assert.Equal(t, 1, b.Add("a"))
	assert.False(t, b.Full())
	assert.Equal(t, 2, b.Add("b"))
	assert.True(t, b.Full())

	assert.Equal(t, []string{"a", "b"}, b.GetAndClear())
	assert.Zero(t, b.Size())
}

func TestBatchBuffer_DefaultCapacity(t *testing.T) {
	b := NewBatchBuffer[int](0)
	for i := 0; i < BATCH_SIZE-1; i++ {
		b.Add(i)
	}
	assert.False(t, b.Full())
	b.Add(BATCH_SIZE)
	assert.True(t, b.Full())
}

func TestBatchBuffer_ConcurrentAdds(t *testing.T) {
	b := NewBatchBuffer[int](8)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			b.Add(n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, b.GetAndClear(), 100)
}
