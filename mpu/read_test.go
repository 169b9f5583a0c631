package mpu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/accgyro"
)

func TestDevice_ReadGyro(t *testing.T) {
	regs := staticRegisters(0x7F, 0xFF, 0x00, 0x01, 0xFF, 0xFF)
	d := New(regs)
	require.NoError(t, d.ReadGyro(context.Background()))
	assert.Equal(t, accgyro.Sample{X: 32767, Y: 1, Z: -1}, d.Gyro())
	assert.Equal(t, []byte{RegGyroXOutH}, regs.regs)
	assert.Equal(t, accgyro.Sample{}, d.Acc())
}

func TestDevice_ReadGyroCustomRegister(t *testing.T) {
	regs := staticRegisters(0x00, 0x01, 0x00, 0x02, 0x00, 0x03)
	d := New(regs, WithGyroReadRegister(RegMPU3050GyroX))
	require.NoError(t, d.ReadGyro(context.Background()))
	assert.Equal(t, []byte{RegMPU3050GyroX}, regs.regs)
	assert.Equal(t, accgyro.Sample{X: 1, Y: 2, Z: 3}, d.Gyro())
}

func TestDevice_ReadAcc(t *testing.T) {
	regs := staticRegisters(0x00, 0x64, 0x00, 0xC8, 0xFF, 0x38)
	d := New(regs, WithGyroReadRegister(RegMPU3050GyroX))
	require.NoError(t, d.ReadAcc(context.Background()))
	assert.Equal(t, []byte{RegAccelXOutH}, regs.regs)
	assert.Equal(t, accgyro.Sample{X: 100, Y: 200, Z: -200}, d.Acc())
	assert.Equal(t, accgyro.Sample{}, d.Gyro())
}

func TestDevice_ReadFailureLeavesSampleUntouched(t *testing.T) {
	ok := true
	regs := &mockRegisters{behavior: func(ctx context.Context, reg byte, buffer []byte) error {
		if !ok {
			return errors.New("nack")
		}
		copy(buffer, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
		return nil
	}}
	d := New(regs)
	ctx := context.Background()
	require.NoError(t, d.ReadGyro(ctx))
	require.NoError(t, d.ReadAcc(ctx))
	gyro, acc := d.Gyro(), d.Acc()

	ok = false
	assert.Error(t, d.ReadGyro(ctx))
	assert.Error(t, d.ReadAcc(ctx))
	assert.Equal(t, gyro, d.Gyro())
	assert.Equal(t, acc, d.Acc())
}

func TestDevice_ReadFailureIgnoresPartialBuffer(t *testing.T) {
	regs := &mockRegisters{behavior: func(ctx context.Context, reg byte, buffer []byte) error {
		// misbehaving adapter scribbling before failing
		buffer[0], buffer[1] = 0x7F, 0xFF
		return accgyro.ErrBusBusy
	}}
	d := New(regs)
	err := d.ReadGyro(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, accgyro.ErrBusBusy)
	assert.Equal(t, accgyro.Sample{}, d.Gyro())
}

func TestGyroReadRegister(t *testing.T) {
	reg, err := GyroReadRegister(MPU6050)
	require.NoError(t, err)
	assert.Equal(t, byte(RegGyroXOutH), reg)

	reg, err = GyroReadRegister(MPU3050)
	require.NoError(t, err)
	assert.Equal(t, byte(RegMPU3050GyroX), reg)

	_, err = GyroReadRegister("bmi270")
	assert.Error(t, err)
}
