package spi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi"
)

type fakeConn struct {
	spi.Conn
	written []byte
	reply   []byte
	err     error
}

func (c *fakeConn) Tx(w, r []byte) error {
	c.written = append([]byte{}, w...)
	if c.err != nil {
		return c.err
	}
	copy(r, c.reply)
	return nil
}

func TestDevice_ReadRegisters(t *testing.T) {
	conn := &fakeConn{reply: []byte{0x00, 0x7F, 0xFF, 0x00, 0x01, 0xFF, 0xFF}}
	d := NewDevice(conn)
	buf := make([]byte, 6)
	require.NoError(t, d.ReadRegisters(context.Background(), 0x43, buf))
	assert.Equal(t, []byte{0xC3, 0, 0, 0, 0, 0, 0}, conn.written)
	assert.Equal(t, []byte{0x7F, 0xFF, 0x00, 0x01, 0xFF, 0xFF}, buf)
	assert.NoError(t, d.Close())
}

func TestDevice_ReadRegistersFailure(t *testing.T) {
	conn := &fakeConn{err: errors.New("tx failed")}
	d := NewDevice(conn)
	buf := []byte{1, 2, 3, 4, 5, 6}
	assert.Error(t, d.ReadRegisters(context.Background(), 0x3B, buf))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf)
}
