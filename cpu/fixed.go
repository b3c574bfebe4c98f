package cpu

import (
	"github.com/ezrec/pip2/encoding"
)

const (
	FIXED_SCALE  = 16384.0 // 14-bit fraction.
	FIXED9_SCALE = 1024.0  // 10-bit fraction, used by geometry.
)

// FixedToFloat converts a 14-bit fraction fixed point value.
func FixedToFloat(num int32) float32 {
	return float32(num) / FIXED_SCALE
}

// Fixed9PointToFloat converts a 10-bit fraction fixed point value.
func Fixed9PointToFloat(num int16) float32 {
	return float32(num) / FIXED9_SCALE
}

// FloatToFixed converts to a 14-bit fraction fixed point value,
// truncating toward zero.
func FloatToFixed(value float32) int32 {
	return int32(value * FIXED_SCALE)
}

// FloatToFixed9Point converts to a 10-bit fraction fixed point value,
// truncating toward zero.
func FloatToFixed9Point(value float32) int16 {
	return int16(value * FIXED9_SCALE)
}

// Fixed reads a register as a 14-bit fraction fixed point value.
func (p *Processor) Fixed(reg encoding.Register) float32 {
	return FixedToFloat(int32(p.Reg[reg]))
}

// Fixed9Point reads the low half of a register as a 10-bit fraction
// fixed point value.
func (p *Processor) Fixed9Point(reg encoding.Register) float32 {
	return Fixed9PointToFloat(int16(p.Reg[reg]))
}
