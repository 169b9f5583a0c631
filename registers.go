package accgyro

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var _ RegisterReader = &Registers{}

type RegistersOpts struct {
	RetryLimit int
}

type RegistersOpt func(*RegistersOpts)

// WithRetryLimit sets how many times a read is attempted while the bus reports ErrBusBusy.
func WithRetryLimit(limit int) RegistersOpt {
	return func(o *RegistersOpts) {
		if limit > 0 {
			o.RetryLimit = limit
		}
	}
}

// Registers binds an addressable I2C bus to a single device address and exposes
// register burst reads on it.
type Registers struct {
	mx        sync.Mutex
	transport I2CBus
	address   byte
	config    RegistersOpts
}

func NewRegisters(bus I2CBus, address byte, opts ...RegistersOpt) *Registers {
	config := RegistersOpts{RetryLimit: 1}
	for _, opt := range opts {
		opt(&config)
	}
	return &Registers{transport: bus, address: address, config: config}
}

func (r *Registers) Address() byte {
	return r.address
}

// ReadRegisters reads len(buffer) registers starting at reg. The buffer is only
// written when the whole transaction succeeds.
func (r *Registers) ReadRegisters(ctx context.Context, reg byte, buffer []byte) error {
	var err error
	for i := r.config.RetryLimit; i > 0; i-- {
		err = r.read(ctx, reg, buffer)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrBusBusy) {
			return fmt.Errorf("could not read registers at %#x: %w", reg, err)
		}
		// try to release the bus
		_ = r.transport.Release(ctx)
	}
	return fmt.Errorf("could not read registers at %#x (retry limit reached): %w", reg, err)
}

func (r *Registers) read(ctx context.Context, reg byte, buffer []byte) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	scratch := make([]byte, len(buffer))
	if rr, ok := r.transport.(RegisterAddressableReader); ok {
		err := rr.ReadRegFromAddr(ctx, r.address, reg, scratch)
		if err != nil {
			return err
		}
		copy(buffer, scratch)
		return nil
	}
	err := r.transport.WriteToAddr(ctx, r.address, []byte{reg})
	if err != nil {
		return fmt.Errorf("could not set registry pointer: %w", err)
	}
	err = r.transport.ReadFromAddr(ctx, r.address, scratch)
	if err != nil {
		return fmt.Errorf("could not read registry content: %w", err)
	}
	copy(buffer, scratch)
	return nil
}
