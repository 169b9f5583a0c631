package irq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gobot.io/x/gobot/v2"
	"gobot.io/x/gobot/v2/system"
)

var _ Line = &GobotLine{}

// DigitalPinProvider is implemented by gobot adaptors exposing digital pins
// (e.g. nanopi.Adaptor, raspi.Adaptor).
type DigitalPinProvider interface {
	DigitalPin(id string) (gobot.DigitalPinner, error)
}

type GobotOpts struct {
	// PollInterval enables polling edge detection for sysfs based pins.
	PollInterval time.Duration
}

type GobotOpt func(*GobotOpts)

func WithPollInterval(interval time.Duration) GobotOpt {
	return func(o *GobotOpts) {
		o.PollInterval = interval
	}
}

// GobotLine arms a gobot digital pin. The rising edge handler is registered
// together with the trigger polarity, no separate enable step is needed.
type GobotLine struct {
	mx     sync.Mutex
	name   string
	pin    gobot.DigitalPinner
	config GobotOpts
	owner  string
	armed  bool

	// gen invalidates handlers of earlier arms; gobot cannot unregister them
	gen  atomic.Uint64
	quit chan struct{}
}

func NewGobotLine(name string, pin gobot.DigitalPinner, opts ...GobotOpt) *GobotLine {
	var config GobotOpts
	for _, opt := range opts {
		opt(&config)
	}
	return &GobotLine{name: name, pin: pin, config: config}
}

// OpenGobotLine fetches the pin from a connected gobot adaptor.
func OpenGobotLine(provider DigitalPinProvider, id string, opts ...GobotOpt) (*GobotLine, error) {
	pin, err := provider.DigitalPin(id)
	if err != nil {
		return nil, fmt.Errorf("could not open pin %s: %w", id, err)
	}
	if pin == nil {
		return nil, fmt.Errorf("could not open pin %s: %w", id, ErrNoPin)
	}
	return NewGobotLine(id, pin, opts...), nil
}

func (l *GobotLine) Name() string {
	return l.name
}

func (l *GobotLine) Asserted() (bool, error) {
	val, err := l.pin.Read()
	if err != nil {
		return false, fmt.Errorf("could not read %s: %w", l.name, err)
	}
	return val == 1, nil
}

func (l *GobotLine) Arm(ctx context.Context, req Request) error {
	if req.Handler == nil {
		return fmt.Errorf("could not arm %s: nil handler", l.Name())
	}
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.armed {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not arm %s: %w", l.name, err)
	}
	err := Claim(l.name, req.Owner)
	if err != nil {
		return err
	}
	gen := l.gen.Add(1)
	// gobot leaves the bias untouched unless asked, which keeps the input floating
	options := []func(gobot.DigitalPinOptioner) bool{
		system.WithPinDirectionInput(),
		system.WithPinEventOnRisingEdge(l.edgeHandler(gen, req.Handler)),
	}
	var quit chan struct{}
	if l.config.PollInterval > 0 {
		quit = make(chan struct{})
		options = append(options, system.WithPinPollForEdgeDetection(l.config.PollInterval, quit))
	}
	err = l.pin.ApplyOptions(options...)
	if err != nil {
		l.gen.Add(1)
		release(l.name, req.Owner)
		return fmt.Errorf("could not register rising edge handler on %s: %w", l.name, err)
	}
	l.owner = req.Owner
	l.quit = quit
	l.armed = true
	slog.Debug("interrupt line armed", "backend", "gobot", "pin", l.name, "owner", req.Owner, "priority", req.Priority)
	return nil
}

func (l *GobotLine) edgeHandler(gen uint64, h Handler) func(lineOffset int, timestamp time.Duration, detectedEdge string, seqno uint32, lseqno uint32) {
	return func(lineOffset int, timestamp time.Duration, detectedEdge string, seqno uint32, lseqno uint32) {
		if l.gen.Load() == gen {
			h()
		}
	}
}

func (l *GobotLine) Close() error {
	l.mx.Lock()
	defer l.mx.Unlock()
	if !l.armed {
		return nil
	}
	l.gen.Add(1)
	if l.quit != nil {
		close(l.quit)
		l.quit = nil
	}
	release(l.name, l.owner)
	l.armed = false
	slog.Debug("interrupt line closed", "backend", "gobot", "pin", l.name)
	return nil
}
