package accgyro

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		given    []byte
		expected Sample
	}{
		{[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, Sample{0, 0, 0}},
		{[]byte{0x7F, 0xFF, 0x00, 0x01, 0xFF, 0xFF}, Sample{32767, 1, -1}},
		{[]byte{0x80, 0x00, 0x80, 0x01, 0xFF, 0xFE}, Sample{-32768, -32767, -2}},
		{[]byte{0x00, 0x64, 0x00, 0xC8, 0xFF, 0x38}, Sample{100, 200, -200}},
		{[]byte{0x12, 0x34, 0xAB, 0xCD, 0x01, 0x00}, Sample{0x1234, -21555, 256}},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, Decode(test.given))
		})
	}
}

func TestDecode_AllBytePairs(t *testing.T) {
	data := make([]byte, SampleSize)
	for hi := 0; hi < 256; hi++ {
		for lo := 0; lo < 256; lo += 17 {
			data[0], data[1] = byte(hi), byte(lo)
			data[2], data[3] = byte(lo), byte(hi)
			data[4], data[5] = byte(hi), byte(hi)
			s := Decode(data)
			assert.Equal(t, int16(uint16(hi)<<8|uint16(lo)), s.X)
			assert.Equal(t, int16(uint16(lo)<<8|uint16(hi)), s.Y)
			assert.Equal(t, int16(uint16(hi)<<8|uint16(hi)), s.Z)
		}
	}
}

func TestSample_DecodeOverwrites(t *testing.T) {
	s := Sample{X: 5, Y: 6, Z: 7}
	s.Decode([]byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03})
	assert.Equal(t, Sample{1, 2, 3}, s)
}
