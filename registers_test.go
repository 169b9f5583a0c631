package accgyro

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	writes   [][]byte
	releases int
	onWrite  func(address byte, buffer []byte) error
	onRead   func(address byte, buffer []byte) error
}

func (b *fakeBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.writes = append(b.writes, append([]byte{}, buffer...))
	if b.onWrite == nil {
		return nil
	}
	return b.onWrite(address, buffer)
}

func (b *fakeBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.onRead(address, buffer)
}

func (b *fakeBus) Release(ctx context.Context) error {
	b.releases++
	return nil
}

type fakeRepeatedStartBus struct {
	fakeBus
	reg byte
}

func (b *fakeRepeatedStartBus) ReadRegFromAddr(ctx context.Context, address byte, reg byte, buffer []byte) error {
	b.reg = reg
	return b.onRead(address, buffer)
}

func TestRegisters_WritePointerThenRead(t *testing.T) {
	bus := &fakeBus{onRead: func(address byte, buffer []byte) error {
		assert.Equal(t, byte(0x68), address)
		copy(buffer, []byte{1, 2, 3, 4, 5, 6})
		return nil
	}}
	r := NewRegisters(bus, 0x68)
	buf := make([]byte, 6)
	require.NoError(t, r.ReadRegisters(context.Background(), 0x43, buf))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf)
	assert.Equal(t, [][]byte{{0x43}}, bus.writes)
}

func TestRegisters_RepeatedStart(t *testing.T) {
	bus := &fakeRepeatedStartBus{}
	bus.onRead = func(address byte, buffer []byte) error {
		copy(buffer, []byte{9, 8, 7, 6, 5, 4})
		return nil
	}
	r := NewRegisters(bus, 0x69)
	buf := make([]byte, 6)
	require.NoError(t, r.ReadRegisters(context.Background(), 0x3B, buf))
	assert.Equal(t, byte(0x3B), bus.reg)
	assert.Empty(t, bus.writes)
	assert.Equal(t, []byte{9, 8, 7, 6, 5, 4}, buf)
}

func TestRegisters_FailureLeavesBufferUntouched(t *testing.T) {
	bus := &fakeBus{onRead: func(address byte, buffer []byte) error {
		buffer[0] = 0xAA
		return errors.New("nack")
	}}
	r := NewRegisters(bus, 0x68)
	buf := []byte{1, 1, 1, 1, 1, 1}
	err := r.ReadRegisters(context.Background(), 0x43, buf)
	require.Error(t, err)
	assert.Equal(t, []byte{1, 1, 1, 1, 1, 1}, buf)
	assert.Zero(t, bus.releases)
}

func TestRegisters_RetryOnBusyBus(t *testing.T) {
	calls := 0
	bus := &fakeBus{onRead: func(address byte, buffer []byte) error {
		calls++
		if calls < 3 {
			return ErrBusBusy
		}
		copy(buffer, []byte{0, 1, 0, 2, 0, 3})
		return nil
	}}
	r := NewRegisters(bus, 0x68, WithRetryLimit(3))
	buf := make([]byte, 6)
	require.NoError(t, r.ReadRegisters(context.Background(), 0x43, buf))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, bus.releases)
}

func TestRegisters_RetryLimitReached(t *testing.T) {
	bus := &fakeBus{onWrite: func(address byte, buffer []byte) error {
		return ErrBusBusy
	}}
	r := NewRegisters(bus, 0x68, WithRetryLimit(2))
	err := r.ReadRegisters(context.Background(), 0x43, make([]byte, 6))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusBusy)
	assert.Contains(t, err.Error(), "retry limit reached")
	assert.Equal(t, 2, bus.releases)
}
