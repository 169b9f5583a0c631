package mpu

import "fmt"

// Register map shared by the MPU/ICM family.
const (
	RegGyroXOutH    = 0x43
	RegAccelXOutH   = 0x3B
	RegMPU3050GyroX = 0x1D
)

const DefaultAddress = 0x68

// Variant is a supported sensor model.
type Variant string

const (
	MPU3050  Variant = "mpu3050"
	MPU6000  Variant = "mpu6000"
	MPU6050  Variant = "mpu6050"
	MPU6500  Variant = "mpu6500"
	MPU9250  Variant = "mpu9250"
	ICM20602 Variant = "icm20602"
	ICM20608 Variant = "icm20608"
	ICM20689 Variant = "icm20689"
)

var gyroReadRegisters = map[Variant]byte{
	MPU3050:  RegMPU3050GyroX,
	MPU6000:  RegGyroXOutH,
	MPU6050:  RegGyroXOutH,
	MPU6500:  RegGyroXOutH,
	MPU9250:  RegGyroXOutH,
	ICM20602: RegGyroXOutH,
	ICM20608: RegGyroXOutH,
	ICM20689: RegGyroXOutH,
}

// GyroReadRegister returns the first gyro output register of the variant.
func GyroReadRegister(v Variant) (byte, error) {
	reg, ok := gyroReadRegisters[v]
	if !ok {
		return 0, fmt.Errorf("unknown sensor variant %q", v)
	}
	return reg, nil
}
