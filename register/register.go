// Package register implements the register access protocol of the AFE4404
// analog front end.
//
// Every register holds 24 bits and is transferred most significant byte
// first. Configuration registers (see Addr.Configuration) can only be read
// back after setting REG_READ in Control0, which this package does around
// every read:
//
//	write [0x00 0x00 0x00 0x01]   enable register reading
//	write [addr], read 3 bytes
//	write [0x00 0x00 0x00 0x00]   disable register reading
//
// Output registers are read with the address write and the 3 byte read only.
// A register write is a single [addr b2 b1 b0] transfer.
//
// ErrIncorrectAnswerLength can only be reported for frames sent through a
// connection that implements io.Writer and returns a short count. Reads go
// through conn.Conn.Tx, which reports no length, and i2c.Dev.Write always
// returns the full frame length, so on a periph I²C device only bus errors
// are seen.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/afe4404.pdf
package register

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"periph.io/x/periph/conn"
)

var (
	// ErrIncorrectAnswerLength is returned when the bus transferred a
	// different number of bytes than the frame required.
	ErrIncorrectAnswerLength = errors.New("register: incorrect answer length")
)

// BusError is returned when the underlying bus fails during a register
// transfer.
type BusError struct {
	Addr Addr
	Op   string
	Err  error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("register: could not %s %#02x: %v", e.Op, uint8(e.Addr), e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

var (
	readEnable  = []byte{byte(Control0), 0x00, 0x00, 0x01}
	readDisable = []byte{byte(Control0), 0x00, 0x00, 0x00}
)

// Register is a handle to one register of the device.
type Register struct {
	addr Addr
	c    conn.Conn
}

// New returns a handle to the register at addr on c.
func New(addr Addr, c conn.Conn) *Register {
	return &Register{addr: addr, c: c}
}

// Addr returns the address of the register.
func (r *Register) Addr() Addr {
	return r.addr
}

// Read reads the register.
func (r *Register) Read() (Value, error) {
	cfg := r.addr.Configuration()
	if cfg {
		if err := r.send(readEnable); err != nil {
			return 0, r.wrap("enable reading of", err)
		}
	}

	var b [3]byte
	if err := r.c.Tx([]byte{byte(r.addr)}, b[:]); err != nil {
		return 0, &BusError{Addr: r.addr, Op: "read", Err: err}
	}

	if cfg {
		if err := r.send(readDisable); err != nil {
			return 0, r.wrap("disable reading of", err)
		}
	}

	return ValueFromBytes(b), nil
}

// Write writes v to the register.
func (r *Register) Write(v Value) error {
	b := v.Bytes()
	if err := r.send([]byte{byte(r.addr), b[0], b[1], b[2]}); err != nil {
		return r.wrap("write", err)
	}
	return nil
}

// Update reads the register, applies fn and writes the result back. The
// written value is returned. A failed write is not rolled back.
func (r *Register) Update(fn func(Value) Value) (Value, error) {
	v, err := r.Read()
	if err != nil {
		return 0, err
	}
	v = fn(v)
	if err := r.Write(v); err != nil {
		return 0, err
	}
	return v, nil
}

func (r *Register) send(frame []byte) error {
	w, ok := r.c.(io.Writer)
	if !ok {
		return r.c.Tx(frame, nil)
	}
	n, err := w.Write(frame)
	if err != nil {
		return err
	}
	if n != len(frame) {
		return fmt.Errorf("%w: want %d, got %d", ErrIncorrectAnswerLength, len(frame), n)
	}
	return nil
}

func (r *Register) wrap(op string, err error) error {
	if errors.Is(err, ErrIncorrectAnswerLength) {
		return fmt.Errorf("register: could not %s %#02x: %w", op, uint8(r.addr), err)
	}
	return &BusError{Addr: r.addr, Op: op, Err: err}
}

// Block holds a handle to every register of one device. All handles share
// the same bus connection.
type Block struct {
	c    conn.Conn
	regs map[Addr]*Register
}

// NewBlock creates the handles of every register listed in Layouts.
func NewBlock(c conn.Conn) *Block {
	b := &Block{
		c:    c,
		regs: make(map[Addr]*Register, len(Layouts)),
	}
	for addr := range Layouts {
		b.regs[addr] = New(addr, c)
	}
	return b
}

// Conn returns the bus connection shared by the registers.
func (b *Block) Conn() conn.Conn {
	return b.c
}

// Register returns the handle of the register at addr. It panics if the
// device has no register at addr.
func (b *Block) Register(addr Addr) *Register {
	r, ok := b.regs[addr]
	if !ok {
		panic(fmt.Sprintf("register: no register at %#02x", uint8(addr)))
	}
	return r
}

// Addrs returns the address of every register in ascending order.
func (b *Block) Addrs() []Addr {
	addrs := make([]Addr, 0, len(b.regs))
	for a := range b.regs {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// FieldValue is a decoded field.
type FieldValue struct {
	Field
	Value uint32
}

// Decode splits v into the fields of the register at addr.
func Decode(addr Addr, v Value) []FieldValue {
	fields := Layouts[addr]
	out := make([]FieldValue, len(fields))
	for i, f := range fields {
		out[i] = FieldValue{Field: f, Value: v.Field(f)}
	}
	return out
}
