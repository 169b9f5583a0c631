package i2c

import (
	"context"
	"fmt"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/accgyro"
)

var _ accgyro.RegisterReader = &GobotDevice{}

// GobotTransport is the part of gobot's generic I2C driver used for register reads.
type GobotTransport interface {
	Start() error
	Halt() error
	Write(data []byte) error
	Read(data []byte) error
}

// GobotDevice reads sensor registers through a gobot I2C connector
// (e.g. nanopi.NewNeoAdaptor()).
type GobotDevice struct {
	driver GobotTransport
}

// NewGobotDevice creates a generic gobot driver for address on the given bus
// and starts it.
func NewGobotDevice(adaptor i2c.Connector, bus int, address byte) (*GobotDevice, error) {
	driver := i2c.NewGenericDriver(adaptor, "accgyro", int(address), func(c i2c.Config) {
		c.SetBus(bus)
	})
	return StartGobotDevice(driver)
}

func StartGobotDevice(driver GobotTransport) (*GobotDevice, error) {
	err := driver.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start i2c driver: %w", err)
	}
	return &GobotDevice{driver: driver}, nil
}

func (d *GobotDevice) ReadRegisters(ctx context.Context, reg byte, buffer []byte) error {
	err := d.driver.Write([]byte{reg})
	if err != nil {
		return fmt.Errorf("could not set registry pointer: %w", err)
	}
	scratch := make([]byte, len(buffer))
	err = d.driver.Read(scratch)
	if err != nil {
		return fmt.Errorf("could not read registry content: %w", err)
	}
	copy(buffer, scratch)
	return nil
}

func (d *GobotDevice) Close() error {
	return d.driver.Halt()
}
