package mpu

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevice_CheckDataReadyCoalesces(t *testing.T) {
	d := New(staticRegisters())
	assert.False(t, d.CheckDataReady())

	d.handleDataReady()
	d.handleDataReady()
	d.handleDataReady()
	assert.True(t, d.CheckDataReady())
	assert.False(t, d.CheckDataReady())

	d.handleDataReady()
	assert.True(t, d.CheckDataReady())
	assert.False(t, d.CheckDataReady())
}

func TestDevice_UpdateFuncCalledSynchronously(t *testing.T) {
	calls := 0
	var d *Device
	d = New(staticRegisters(), WithUpdateFunc(func(dev *Device) {
		calls++
		assert.Same(t, d, dev)
		// the latch is already set when the callback runs
		assert.True(t, dev.dataReady.Load())
	}))
	d.handleDataReady()
	assert.Equal(t, 1, calls)
	d.handleDataReady()
	assert.Equal(t, 2, calls)
	assert.True(t, d.CheckDataReady())
	assert.Equal(t, 2, calls)
}

func TestDevice_CheckDataReadyConcurrentSets(t *testing.T) {
	d := New(staticRegisters())
	const edges = 1000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < edges; i++ {
			d.handleDataReady()
		}
	}()
	observed := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-done:
			// the last set is either consumed already or still latched
			if d.CheckDataReady() {
				observed++
			}
			assert.GreaterOrEqual(t, observed, 1)
			assert.LessOrEqual(t, observed, edges)
			assert.False(t, d.CheckDataReady())
			return
		default:
			if d.CheckDataReady() {
				observed++
			}
		}
	}
}
