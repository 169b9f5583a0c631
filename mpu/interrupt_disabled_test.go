//go:build noirq

package mpu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice_InitInterruptCompiledOut(t *testing.T) {
	line := &mockLine{name: "irq-1"}
	d := New(staticRegisters(), WithInterruptLine(line))
	require.NoError(t, d.InitInterrupt(context.Background()))
	assert.False(t, d.Armed())
	assert.Zero(t, line.armCalls)
}
