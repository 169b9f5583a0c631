package mpu

import (
	"context"
	"sync"

	"github.com/mklimuk/accgyro/irq"
)

type ReadBehaviorFunc func(ctx context.Context, reg byte, buffer []byte) error

type mockRegisters struct {
	behavior ReadBehaviorFunc
	regs     []byte
}

func (m *mockRegisters) ReadRegisters(ctx context.Context, reg byte, buffer []byte) error {
	m.regs = append(m.regs, reg)
	return m.behavior(ctx, reg, buffer)
}

func staticRegisters(data ...byte) *mockRegisters {
	return &mockRegisters{behavior: func(ctx context.Context, reg byte, buffer []byte) error {
		copy(buffer, data)
		return nil
	}}
}

type mockLine struct {
	mx         sync.Mutex
	name       string
	asserted   bool
	armErr     error
	armCalls   int
	closeCalls int
	closeErr   error
	req        irq.Request
}

func (l *mockLine) Name() string {
	return l.name
}

func (l *mockLine) Asserted() (bool, error) {
	return l.asserted, nil
}

func (l *mockLine) Arm(ctx context.Context, req irq.Request) error {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.armCalls++
	if l.armErr != nil {
		return l.armErr
	}
	l.req = req
	return nil
}

func (l *mockLine) Close() error {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.closeCalls++
	l.req = irq.Request{}
	return l.closeErr
}

// edge simulates a rising edge on an armed line.
func (l *mockLine) edge() {
	l.mx.Lock()
	h := l.req.Handler
	l.mx.Unlock()
	h()
}
