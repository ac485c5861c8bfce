package pac

import (
	"encoding/binary"
	"time"

	"github.com/smnsjas/go-kerlab/kerrors"
)

// cursor is a tiny little-endian byte reader. The NDR layer this package
// implements is a small, fixed-layout subset of the real thing: no
// referent IDs, no conformant/varying arrays, no double-pointer
// deferral. Extending it to full NDR is out of scope; see the package
// doc comment.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) need(n int) error {
	if c.pos+n > len(c.buf) {
		return kerrors.New(kerrors.Parsing, "pac: unexpected end of buffer")
	}
	return nil
}

func (c *cursor) u8() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) u64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// CommonTypeHeader is the NDR CommonTypeHeader every NDR-marshalled PAC
// buffer opens with.
type CommonTypeHeader struct {
	Version             uint8
	Endianness          uint8
	CommonHeaderLength  uint16
	Filler              uint32
}

func (h *CommonTypeHeader) read(c *cursor) error {
	var err error
	if h.Version, err = c.u8(); err != nil {
		return err
	}
	if h.Endianness, err = c.u8(); err != nil {
		return err
	}
	if h.CommonHeaderLength, err = c.u16(); err != nil {
		return err
	}
	h.Filler, err = c.u32()
	return err
}

// PrivateHeader is the NDR PrivateHeader following CommonTypeHeader.
type PrivateHeader struct {
	ObjectBufferLength uint32
	Filler             uint32
}

func (h *PrivateHeader) read(c *cursor) error {
	var err error
	if h.ObjectBufferLength, err = c.u32(); err != nil {
		return err
	}
	h.Filler, err = c.u32()
	return err
}

// FileTime is a Windows FILETIME: 100-nanosecond intervals since
// 1601-01-01, split into low/high 32-bit halves.
type FileTime struct {
	Low  uint32
	High uint32
}

func (f *FileTime) read(c *cursor) error {
	var err error
	if f.Low, err = c.u32(); err != nil {
		return err
	}
	f.High, err = c.u32()
	return err
}

// filetimeEpochDelta100ns is the number of 100ns intervals between the
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDelta100ns = 116444736000000000

// Time converts the FILETIME to a UTC time.Time. A value with either
// half all-ones or all-zero, or with a high half of 0x7FFFFFFF, is
// treated as "never" and maps to the Unix epoch, matching MS-PAC's
// sentinel convention for unset timestamps.
func (f FileTime) Time() time.Time {
	if f.High == 0x7FFFFFFF || f.High == 0xFFFFFFFF || f.Low == 0xFFFFFFFF || f.High == 0 || f.Low == 0 {
		return time.Unix(0, 0).UTC()
	}
	ticks := uint64(f.High)<<32 | uint64(f.Low)
	sec := int64((ticks - filetimeEpochDelta100ns) / 10_000_000)
	return time.Unix(sec, 0).UTC()
}

// RpcUnicodeString is an NDR RPC_UNICODE_STRING header: length and
// maximum length in bytes, followed by a conformant-array referent ID
// this package does not dereference (the string bytes it refers to are
// read directly from the containing buffer's own layout instead, per
// buffer type).
type RpcUnicodeString struct {
	Length        uint16
	MaximumLength uint16
	BufferPointer uint32
}

func (s *RpcUnicodeString) read(c *cursor) error {
	var err error
	if s.Length, err = c.u16(); err != nil {
		return err
	}
	if s.MaximumLength, err = c.u16(); err != nil {
		return err
	}
	s.BufferPointer, err = c.u32()
	return err
}
