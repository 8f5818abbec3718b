package register

// Value is the content of a 24-bit register. The upper 8 bits are unused.
type Value uint32

const valueMask = 0x00FF_FFFF

// Field extracts f from v.
func (v Value) Field(f Field) uint32 {
	return (uint32(v) & f.mask()) >> f.Offset
}

// Bool reports whether the single bit field f is set.
func (v Value) Bool(f Field) bool {
	return v.Field(f) != 0
}

// With returns v with f replaced by x. Bits of x that do not fit in f are
// dropped.
func (v Value) With(f Field, x uint32) Value {
	return Value((uint32(v) &^ f.mask()) | ((x << f.Offset) & f.mask()))
}

// WithBool returns v with the single bit field f set to b.
func (v Value) WithBool(f Field, b bool) Value {
	if b {
		return v.With(f, 1)
	}
	return v.With(f, 0)
}

// Bytes encodes v in wire order, most significant byte first.
func (v Value) Bytes() [3]byte {
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

// ValueFromBytes decodes three bytes received in wire order.
func ValueFromBytes(b [3]byte) Value {
	return Value(uint32(b[0])<<16|uint32(b[1])<<8|uint32(b[2])) & valueMask
}
