// Package mpu implements the interrupt synchronized acquisition path of MPU
// family accelerometer/gyroscope sensors.
//
// The sensor raises its data-ready line every time a new sample is available.
// The line handler latches the event and the polling loop consumes it:
//
//	dev := mpu.New(regs, mpu.WithInterruptLine(line))
//	_ = dev.InitInterrupt(ctx)
//	for {
//		if dev.CheckDataReady() {
//			if err := dev.ReadGyro(ctx); err == nil {
//				use(dev.Gyro())
//			}
//		}
//	}
package mpu

import (
	"sync"
	"sync/atomic"

	"github.com/mklimuk/accgyro"
	"github.com/mklimuk/accgyro/irq"
)

const owner = "mpu"

// UpdateFunc is invoked from the interrupt context each time the data-ready
// latch is set. It must not perform bus transactions.
type UpdateFunc func(d *Device)

type Opts struct {
	GyroReadRegister byte
	Line             irq.Line
	Update           UpdateFunc
	// EnsureDataReadyLow skips arming while the line is already asserted.
	EnsureDataReadyLow bool
	Priority           irq.Priority
}

type Opt func(*Opts)

func WithGyroReadRegister(reg byte) Opt {
	return func(o *Opts) {
		o.GyroReadRegister = reg
	}
}

func WithInterruptLine(line irq.Line) Opt {
	return func(o *Opts) {
		o.Line = line
	}
}

func WithUpdateFunc(fn UpdateFunc) Opt {
	return func(o *Opts) {
		o.Update = fn
	}
}

func WithEnsureDataReadyLow(ensure bool) Opt {
	return func(o *Opts) {
		o.EnsureDataReadyLow = ensure
	}
}

func WithPriority(prio irq.Priority) Opt {
	return func(o *Opts) {
		o.Priority = prio
	}
}

// Device groups the bus binding, the data-ready line and the acquisition state
// of a single sensor.
type Device struct {
	transport accgyro.RegisterReader
	config    Opts

	dataReady atomic.Bool
	armMx     sync.Mutex
	armed     bool

	mx   sync.RWMutex
	gyro accgyro.Sample
	acc  accgyro.Sample
}

func New(transport accgyro.RegisterReader, opts ...Opt) *Device {
	config := Opts{
		GyroReadRegister: RegGyroXOutH,
		Priority:         irq.PriorityMPU,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Device{transport: transport, config: config}
}

// Gyro returns the last successfully read gyro sample.
func (d *Device) Gyro() accgyro.Sample {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.gyro
}

// Acc returns the last successfully read accelerometer sample.
func (d *Device) Acc() accgyro.Sample {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.acc
}
