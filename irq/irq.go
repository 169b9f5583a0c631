// Package irq arms interrupt capable pins for data-ready style signals.
//
// Every backend honours the same electrical contract: the pin is claimed for a
// single owner, configured as a floating digital input and triggers the handler
// exactly once per rising edge at the requested priority. How triggering is
// requested differs per hardware family:
//
//   - PeriphLine configures the edge together with the input mode and needs a
//     separate enable step which starts edge dispatching.
//   - GobotLine sets the edge polarity as part of handler registration.
package irq

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrPinInUse = errors.New("pin already claimed by another owner")
var ErrNoPin = errors.New("pin not found")

// Priority is the dispatch priority requested for an interrupt handler.
// Linux userspace backends cannot enforce it; they record and log it.
type Priority uint8

// PriorityMPU is reserved for inertial sensor data-ready lines.
const PriorityMPU Priority = 0x0F

// Handler is called once per rising edge from the interrupt context.
// It must return quickly and must not perform bus transactions.
type Handler func()

// Request describes how a line should be armed.
type Request struct {
	Owner    string
	Priority Priority
	Handler  Handler
}

// Line is a single interrupt capable pin.
type Line interface {
	// Name identifies the pin.
	Name() string
	// Asserted reports whether the line is currently high.
	Asserted() (bool, error)
	// Arm claims the pin, configures it as floating input and registers the
	// request handler on rising edges. ctx only bounds the arming itself;
	// dispatch continues until Close.
	Arm(ctx context.Context, req Request) error
	// Close stops dispatch and releases the pin claim. The line may be armed
	// again afterwards.
	Close() error
}

var (
	ownersMx sync.Mutex
	owners   = map[string]string{}
)

// Claim records owner as the exclusive user of pin. Claiming a pin again with
// the same owner is allowed.
func Claim(pin, owner string) error {
	ownersMx.Lock()
	defer ownersMx.Unlock()
	current, ok := owners[pin]
	if ok && current != owner {
		return fmt.Errorf("could not claim %s for %s (owned by %s): %w", pin, owner, current, ErrPinInUse)
	}
	owners[pin] = owner
	return nil
}

// Owner returns the recorded owner of pin.
func Owner(pin string) (string, bool) {
	ownersMx.Lock()
	defer ownersMx.Unlock()
	owner, ok := owners[pin]
	return owner, ok
}

func release(pin, owner string) {
	ownersMx.Lock()
	defer ownersMx.Unlock()
	if owners[pin] == owner {
		delete(owners, pin)
	}
}
