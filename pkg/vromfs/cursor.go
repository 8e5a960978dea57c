package vromfs

import "encoding/binary"

// byteCursor is a forward-and-random-access reader over an in-memory byte
// slice. All container fields are little-endian fixed-width integers or
// null-terminated byte strings, so the cursor only needs to support that.
type byteCursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *byteCursor {
	return &byteCursor{data: data}
}

func (c *byteCursor) remaining() int { return len(c.data) - c.pos }

// take returns the next n bytes and advances the cursor, or a Truncated
// error if fewer than n bytes remain.
func (c *byteCursor) take(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, newErr(ErrTruncated, int64(c.pos), "unexpected end of data")
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *byteCursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *byteCursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// cstringAt reads a null-terminated byte string starting at the given
// absolute offset, without moving the cursor.
func cstringAt(data []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(data) {
		return nil, newErr(ErrOffsetOutOfRange, int64(offset), "filename offset out of range")
	}
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end >= len(data) {
		return nil, newErr(ErrTruncated, int64(offset), "unterminated filename")
	}
	return data[offset:end], nil
}

func u32At(data []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, newErr(ErrOffsetOutOfRange, int64(offset), "field out of range")
	}
	return binary.LittleEndian.Uint32(data[offset : offset+4]), nil
}
