package vromfs

import "bytes"

// HeaderSize is the fixed binary size of a container header.
const HeaderSize = 16

// ExtendedHeaderSize is the fixed binary size of the extended header, present
// only when the container magic is MagicExtended.
const ExtendedHeaderSize = 8

var (
	// Magic is the plain container magic, "VRFs".
	Magic = [4]byte{'V', 'R', 'F', 's'}
	// MagicExtended is the container magic carrying an ExtendedHeader, "VRFx".
	MagicExtended = [4]byte{'V', 'R', 'F', 'x'}
)

// PlatformTag identifies the target platform a container was built for.
type PlatformTag [4]byte

var (
	PlatformPC  = PlatformTag{0x00, 0x00, 'P', 'C'}
	PlatformIOS = PlatformTag{0x00, 'i', 'O', 'S'}
	PlatformAnd = PlatformTag{0x00, 'a', 'n', 'd'}
)

func (p PlatformTag) valid() bool {
	return p == PlatformPC || p == PlatformIOS || p == PlatformAnd
}

// Framing describes how the directory body is wrapped in the container.
type Framing int

const (
	NotPacked Framing = iota
	Zstd
	ZstdNoCheck
	Zlib
)

func (f Framing) String() string {
	switch f {
	case NotPacked:
		return "NotPacked"
	case Zstd:
		return "Zstd"
	case ZstdNoCheck:
		return "ZstdNoCheck"
	case Zlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

// packedType/packedSize bit layout within Header.PackedInfo: the top 6 bits
// hold the framing type, the bottom 26 bits hold the packed size.
const (
	packedTypeShift = 26
	packedSizeMask  = 0x03FFFFFF
)

// Header is the container's fixed 16-byte leading header.
type Header struct {
	Magic        [4]byte
	Platform     PlatformTag
	OriginalSize uint32
	PackedInfo   uint32
}

// packedType returns the top-6-bit framing selector from PackedInfo.
func (h *Header) packedType() uint32 {
	return h.PackedInfo >> packedTypeShift
}

// packedSize returns the bottom-26-bit packed body size from PackedInfo.
func (h *Header) packedSize() uint32 {
	return h.PackedInfo & packedSizeMask
}

// Extended reports whether this header's magic carries an ExtendedHeader.
func (h *Header) Extended() bool {
	return h.Magic == MagicExtended
}

// Framing derives the body framing from PackedInfo per the format's bit
// layout. The second return value is false for unsupported nonzero types.
func (h *Header) Framing() (Framing, bool) {
	if h.packedSize() == 0 {
		return NotPacked, true
	}
	switch h.packedType() {
	case 0x30:
		return Zstd, true
	case 0x10:
		return ZstdNoCheck, true
	case 0x20:
		return Zlib, true
	default:
		return 0, false
	}
}

// bodyLen returns the length in bytes of the raw body slice to read: the
// packed size when the body is compressed, otherwise the original size.
func (h *Header) bodyLen() uint32 {
	if h.packedSize() > 0 {
		return h.packedSize()
	}
	return h.OriginalSize
}

func decodeHeader(c *byteCursor, strictPlatform bool) (*Header, error) {
	magic, err := c.take(4)
	if err != nil {
		return nil, err
	}
	platform, err := c.take(4)
	if err != nil {
		return nil, err
	}

	h := &Header{}
	copy(h.Magic[:], magic)
	copy(h.Platform[:], platform)

	if !bytes.Equal(h.Magic[:], Magic[:]) && !bytes.Equal(h.Magic[:], MagicExtended[:]) {
		return nil, newErr(ErrMagicInvalid, 0, "expected \"VRFs\" or \"VRFx\"")
	}
	if strictPlatform && !h.Platform.valid() {
		return nil, newErr(ErrPlatformInvalid, 4, "unrecognized platform tag")
	}

	if h.OriginalSize, err = c.u32(); err != nil {
		return nil, err
	}
	if h.PackedInfo, err = c.u32(); err != nil {
		return nil, err
	}

	return h, nil
}

// ExtendedHeader carries build metadata preserved but not interpreted by the
// core. It is only present when Header.Magic == MagicExtended.
type ExtendedHeader struct {
	ExtSize uint16
	Flags   uint16
	Version uint32
}

func decodeExtendedHeader(c *byteCursor) (*ExtendedHeader, error) {
	eh := &ExtendedHeader{}
	var err error
	if eh.ExtSize, err = c.u16(); err != nil {
		return nil, err
	}
	if eh.Flags, err = c.u16(); err != nil {
		return nil, err
	}
	if eh.Version, err = c.u32(); err != nil {
		return nil, err
	}
	return eh, nil
}
