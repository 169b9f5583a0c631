package accgyro

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// RegisterReader performs a single burst read of len(buffer) contiguous registers
// starting at reg. On success every byte of buffer is valid.
type RegisterReader interface {
	ReadRegisters(ctx context.Context, reg byte, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// RegisterAddressableReader is implemented by buses able to write the register
// pointer and read back in one transaction (repeated start).
type RegisterAddressableReader interface {
	ReadRegFromAddr(ctx context.Context, address byte, reg byte, buffer []byte) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}
