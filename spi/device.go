// Package spi reads sensor registers over a host SPI port.
package spi

import (
	"context"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/mklimuk/accgyro"
	"github.com/mklimuk/accgyro/snsctx"
)

var _ accgyro.RegisterReader = &Device{}

// readFlag is set on the register address to request a read.
const readFlag = 0x80

// DefaultSpeed stays within the 1 MHz register access limit of the MPU family.
const DefaultSpeed = 1 * physic.MegaHertz

// Device is a register oriented sensor on a SPI port.
type Device struct {
	mx   sync.Mutex
	conn spi.Conn
	port spi.PortCloser
}

// Open opens the SPI port (e.g. "/dev/spidev0.0") in mode 3.
func Open(dev string, speed physic.Frequency) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open spi port %s: %w", dev, err)
	}
	if speed == 0 {
		speed = DefaultSpeed
	}
	conn, err := port.Connect(speed, spi.Mode3, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("could not connect to spi port %s: %w", dev, err)
	}
	return &Device{conn: conn, port: port}, nil
}

func NewDevice(conn spi.Conn) *Device {
	return &Device{conn: conn}
}

func (d *Device) ReadRegisters(ctx context.Context, reg byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	w := make([]byte, len(buffer)+1)
	r := make([]byte, len(buffer)+1)
	w[0] = reg | readFlag
	err := d.conn.Tx(w, r)
	if err != nil {
		return fmt.Errorf("could not read register %#x over spi: %w", reg, err)
	}
	copy(buffer, r[1:])
	snsctx.TraceBytes(ctx, "spi register read", buffer, "register", reg)
	return nil
}

func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}
