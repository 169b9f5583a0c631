package irq

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var _ Line = &PeriphLine{}

const defaultEdgeTimeout = 100 * time.Millisecond

type PeriphOpts struct {
	// EdgeTimeout bounds a single edge wait so dispatching notices Close.
	EdgeTimeout time.Duration
}

type PeriphOpt func(*PeriphOpts)

func WithEdgeTimeout(timeout time.Duration) PeriphOpt {
	return func(o *PeriphOpts) {
		if timeout > 0 {
			o.EdgeTimeout = timeout
		}
	}
}

// PeriphLine arms a periph.io GPIO pin. Edges are dispatched from a dedicated
// goroutine locked to its OS thread.
type PeriphLine struct {
	mx     sync.Mutex
	pin    gpio.PinIO
	config PeriphOpts
	owner  string
	stop   chan struct{}
	done   chan struct{}
}

func NewPeriphLine(pin gpio.PinIO, opts ...PeriphOpt) *PeriphLine {
	config := PeriphOpts{EdgeTimeout: defaultEdgeTimeout}
	for _, opt := range opts {
		opt(&config)
	}
	return &PeriphLine{pin: pin, config: config}
}

// OpenPeriphLine initializes the periph host and looks the pin up by name (e.g. "GPIO17").
func OpenPeriphLine(name string, opts ...PeriphOpt) (*PeriphLine, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("could not open %q: %w", name, ErrNoPin)
	}
	return NewPeriphLine(pin, opts...), nil
}

func (l *PeriphLine) Name() string {
	return l.pin.Name()
}

func (l *PeriphLine) Asserted() (bool, error) {
	return l.pin.Read() == gpio.High, nil
}

func (l *PeriphLine) Arm(ctx context.Context, req Request) error {
	if req.Handler == nil {
		return fmt.Errorf("could not arm %s: nil handler", l.Name())
	}
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.stop != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not arm %s: %w", l.Name(), err)
	}
	err := Claim(l.Name(), req.Owner)
	if err != nil {
		return err
	}
	// floating input, edge detection requested together with the input mode
	err = l.pin.In(gpio.Float, gpio.RisingEdge)
	if err != nil {
		release(l.Name(), req.Owner)
		return fmt.Errorf("could not configure %s as floating input: %w", l.Name(), err)
	}
	l.owner = req.Owner
	l.enable(req.Handler)
	slog.Debug("interrupt line armed", "backend", "periph", "pin", l.Name(), "owner", req.Owner, "priority", req.Priority)
	return nil
}

// enable starts edge dispatching; kept separate from configuration as this
// family needs an explicit enable step.
func (l *PeriphLine) enable(h Handler) {
	stop := make(chan struct{})
	done := make(chan struct{})
	l.stop, l.done = stop, done
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if l.pin.WaitForEdge(l.config.EdgeTimeout) {
				h()
			}
		}
	}()
}

func (l *PeriphLine) Close() error {
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.stop == nil {
		return nil
	}
	close(l.stop)
	<-l.done
	l.stop, l.done = nil, nil
	release(l.Name(), l.owner)
	err := l.pin.Halt()
	if err != nil {
		return fmt.Errorf("could not halt %s: %w", l.Name(), err)
	}
	slog.Debug("interrupt line closed", "backend", "periph", "pin", l.Name())
	return nil
}
