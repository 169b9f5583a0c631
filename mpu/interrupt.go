package mpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mklimuk/accgyro/irq"
)

// InitInterrupt arms the data-ready line. Devices without a line, builds
// without interrupt support and lines found already asserted (with
// EnsureDataReadyLow) are skipped silently and stay in polling mode.
// Calling it on an armed device is a no-op. ctx bounds the arming only; the
// line stays armed until Close.
func (d *Device) InitInterrupt(ctx context.Context) error {
	line := d.config.Line
	if line == nil {
		slog.Debug("no data-ready line configured, polling only")
		return nil
	}
	if !interruptSupported {
		slog.Debug("interrupt support not compiled in, polling only", "pin", line.Name())
		return nil
	}
	d.armMx.Lock()
	defer d.armMx.Unlock()
	if d.armed {
		return nil
	}
	if d.config.EnsureDataReadyLow {
		asserted, err := line.Asserted()
		if err != nil {
			return fmt.Errorf("could not read data-ready line %s: %w", line.Name(), err)
		}
		if asserted {
			slog.Debug("data-ready line already asserted, not arming", "pin", line.Name())
			return nil
		}
	}
	err := line.Arm(ctx, irq.Request{
		Owner:    owner,
		Priority: d.config.Priority,
		Handler:  d.handleDataReady,
	})
	if err != nil {
		return fmt.Errorf("could not arm data-ready line %s: %w", line.Name(), err)
	}
	d.armed = true
	return nil
}

// Close disarms the data-ready line. The latch keeps its state and the device
// falls back to polling until InitInterrupt is called again.
func (d *Device) Close() error {
	d.armMx.Lock()
	armed := d.armed
	d.armed = false
	d.armMx.Unlock()
	if !armed {
		return nil
	}
	// the line waits for its dispatcher, which may be running the update callback
	err := d.config.Line.Close()
	if err != nil {
		return fmt.Errorf("could not disarm data-ready line %s: %w", d.config.Line.Name(), err)
	}
	return nil
}

// Armed reports whether the data-ready line drives the latch.
func (d *Device) Armed() bool {
	d.armMx.Lock()
	defer d.armMx.Unlock()
	return d.armed
}
