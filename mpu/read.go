package mpu

import (
	"context"
	"fmt"

	"github.com/mklimuk/accgyro"
)

// ReadGyro burst reads the gyro output registers. The stored sample is left
// untouched when the bus transaction fails.
func (d *Device) ReadGyro(ctx context.Context) error {
	return d.readSample(ctx, d.config.GyroReadRegister, &d.gyro)
}

// ReadAcc burst reads the accelerometer output registers. The stored sample is
// left untouched when the bus transaction fails.
func (d *Device) ReadAcc(ctx context.Context) error {
	return d.readSample(ctx, RegAccelXOutH, &d.acc)
}

func (d *Device) readSample(ctx context.Context, reg byte, dst *accgyro.Sample) error {
	var data [accgyro.SampleSize]byte
	err := d.transport.ReadRegisters(ctx, reg, data[:])
	if err != nil {
		return fmt.Errorf("could not read sample registers at %#x: %w", reg, err)
	}
	d.mx.Lock()
	dst.Decode(data[:])
	d.mx.Unlock()
	return nil
}
