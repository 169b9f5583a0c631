package accgyro

import (
	"encoding/binary"
	"fmt"
)

// SampleSize is the length of a raw X/Y/Z register block.
const SampleSize = 6

// Sample holds raw signed readings of the three axes.
type Sample struct {
	X int16 `json:"x" yaml:"x"`
	Y int16 `json:"y" yaml:"y"`
	Z int16 `json:"z" yaml:"z"`
}

// Decode converts a big-endian X/Y/Z register block into a Sample.
// data must hold at least SampleSize bytes.
func Decode(data []byte) Sample {
	var s Sample
	s.Decode(data)
	return s
}

// Decode overwrites s with the axis values found in data.
func (s *Sample) Decode(data []byte) {
	s.X = int16(binary.BigEndian.Uint16(data[0:2]))
	s.Y = int16(binary.BigEndian.Uint16(data[2:4]))
	s.Z = int16(binary.BigEndian.Uint16(data[4:6]))
}

func (s Sample) String() string {
	return fmt.Sprintf("x: %6d, y: %6d, z: %6d", s.X, s.Y, s.Z)
}
