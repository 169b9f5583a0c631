//go:build !noirq

package mpu

const interruptSupported = true
