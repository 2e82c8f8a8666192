package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderLocksSerialiseSameOrder(t *testing.T) {
	locks := newOrderLocks()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Lock(id)
			defer release()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locks.size())
}

func TestOrderLocksIndependentOrders(t *testing.T) {
	locks := newOrderLocks()

	releaseA := locks.Lock(uuid.New())
	releaseB := locks.Lock(uuid.New())
	assert.Equal(t, 2, locks.size())

	releaseA()
	releaseB()
	assert.Equal(t, 0, locks.size())
}
