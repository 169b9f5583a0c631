//go:build noirq

package mpu

const interruptSupported = false
