package main

import (
	"errors"
	"fmt"
	"log/slog"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/accgyro"
	"github.com/mklimuk/accgyro/adapter"
	"github.com/mklimuk/accgyro/config"
	"github.com/mklimuk/accgyro/i2c"
	"github.com/mklimuk/accgyro/irq"
	"github.com/mklimuk/accgyro/mpu"
	"github.com/mklimuk/accgyro/spi"
)

// session holds a device and the resources backing it.
type session struct {
	dev     *mpu.Device
	npi     *nanopi.Adaptor
	closers []func() error
}

func (s *session) neo() (*nanopi.Adaptor, error) {
	if s.npi != nil {
		return s.npi, nil
	}
	npi := nanopi.NewNeoAdaptor()
	err := npi.Connect()
	if err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	s.npi = npi
	s.closers = append(s.closers, npi.Finalize)
	return npi, nil
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func (s *session) openBus(cfg config.Bus) (accgyro.RegisterReader, error) {
	speed := physic.Frequency(cfg.SpeedHz) * physic.Hertz
	switch cfg.Kind {
	case config.BusI2C:
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, bus.Close)
		if speed > 0 {
			if err := bus.SetSpeed(speed); err != nil {
				return nil, err
			}
		}
		return accgyro.NewRegisters(bus, cfg.Address, accgyro.WithRetryLimit(cfg.RetryLimit)), nil
	case config.BusSPI:
		dev, err := spi.Open(cfg.Device, speed)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, dev.Close)
		return dev, nil
	case config.BusGobot:
		npi, err := s.neo()
		if err != nil {
			return nil, err
		}
		dev, err := i2c.NewGobotDevice(npi, cfg.GobotBus, cfg.Address)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, dev.Close)
		return dev, nil
	case config.BusMCP2221:
		bridge := adapter.NewMCP2221()
		if err := bridge.Init(); err != nil {
			return nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return accgyro.NewRegisters(bridge, cfg.Address, accgyro.WithRetryLimit(cfg.RetryLimit)), nil
	}
	return nil, fmt.Errorf("unknown bus kind %q: %w", cfg.Kind, config.ErrInvalid)
}

func (s *session) openLine(cfg config.Interrupt) (irq.Line, error) {
	switch cfg.Backend {
	case config.BackendPeriph:
		return irq.OpenPeriphLine(cfg.Pin)
	case config.BackendGobot:
		npi, err := s.neo()
		if err != nil {
			return nil, err
		}
		return irq.OpenGobotLine(npi, cfg.Pin, irq.WithPollInterval(cfg.PollInterval))
	}
	return nil, fmt.Errorf("unknown interrupt backend %q: %w", cfg.Backend, config.ErrInvalid)
}

// openSession builds the device described by cfg. A data-ready line that
// cannot be opened leaves the device in polling mode.
func openSession(cfg config.Config, update mpu.UpdateFunc) (*session, error) {
	s := &session{}
	regs, err := s.openBus(cfg.Bus)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("could not open %s bus: %w", cfg.Bus.Kind, err)
	}
	opts := []mpu.Opt{
		mpu.WithGyroReadRegister(cfg.GyroRegister()),
		mpu.WithEnsureDataReadyLow(cfg.Interrupt.EnsureLow),
		mpu.WithPriority(irq.Priority(cfg.Interrupt.Priority)),
	}
	if update != nil {
		opts = append(opts, mpu.WithUpdateFunc(update))
	}
	if cfg.Interrupt.Pin != "" {
		line, err := s.openLine(cfg.Interrupt)
		if err != nil {
			slog.Warn("could not open data-ready line, polling only", "pin", cfg.Interrupt.Pin, "error", err)
		} else {
			opts = append(opts, mpu.WithInterruptLine(line))
		}
	}
	s.dev = mpu.New(regs, opts...)
	// closers run in reverse, the line is disarmed before its adaptor goes away
	s.closers = append(s.closers, s.dev.Close)
	return s, nil
}
