package vromfs

// Options configures container parsing and decompression. The zero value is
// not valid; use DefaultOptions.
type Options struct {
	// MaxDecompressedSize bounds every decompression the core performs,
	// outer body and inner BLK payloads alike.
	MaxDecompressedSize uint64
	// StrictTrailer requires the trailer tail to be exactly 0 or 256 bytes.
	// The format has no other valid length, so turning this off only
	// matters for diagnosing corrupt input.
	StrictTrailer bool
	// StrictPlatform requires Header.Platform to be one of the three known
	// tags.
	StrictPlatform bool
}

// DefaultOptions returns the recognized option defaults: a 5,000,000 byte
// decompression cap and strict trailer/platform validation.
func DefaultOptions() Options {
	return Options{
		MaxDecompressedSize: DefaultMaxDecompressedSize,
		StrictTrailer:       true,
		StrictPlatform:      true,
	}
}

// Container is the fully parsed result of a .vromfs.bin file: its fixed
// header, optional extended header, decoded directory, and trailer.
type Container struct {
	Header    Header
	ExtHeader *ExtendedHeader
	Directory Directory
	Digest    *[16]byte
	Tail      []byte
}

// Parse decodes a whole container from bytes, validating framing and
// trailer, decompressing the body as needed, and parsing its directory.
// It never retains bytes beyond what's needed; entries share the backing
// array of whichever buffer held the final decompressed (or raw) body.
func Parse(data []byte, opts Options) (*Container, error) {
	c := newCursor(data)

	header, err := decodeHeader(c, opts.StrictPlatform)
	if err != nil {
		return nil, err
	}

	var extHeader *ExtendedHeader
	if header.Extended() {
		extHeader, err = decodeExtendedHeader(c)
		if err != nil {
			return nil, err
		}
	}

	framing, ok := header.Framing()
	if !ok {
		return nil, newErr(ErrUnsupportedFraming, int64(c.pos), "unrecognized packed_info type")
	}

	rawBody, err := c.take(int(header.bodyLen()))
	if err != nil {
		return nil, err
	}

	body, err := decodeBody(rawBody, framing, opts.MaxDecompressedSize)
	if err != nil {
		return nil, err
	}

	// Digest only accompanies a checked, decompressing framing: NotPacked
	// decompressed nothing to check, and ZstdNoCheck waives the check.
	var digest *[16]byte
	if framing == Zstd || framing == Zlib {
		digestBytes, err := c.take(16)
		if err != nil {
			return nil, wrapErr(ErrDigestMissing, int64(c.pos), "expected 16-byte digest", err)
		}
		var d [16]byte
		copy(d[:], digestBytes)
		digest = &d
	}

	tail, err := c.take(c.remaining())
	if err != nil {
		return nil, err
	}
	if opts.StrictTrailer && len(tail) != 0 && len(tail) != 256 {
		return nil, newErr(ErrTrailerLengthInvalid, int64(c.pos-len(tail)), "tail must be 0 or 256 bytes")
	}

	directory, err := parseDirectory(body)
	if err != nil {
		return nil, err
	}

	return &Container{
		Header:    *header,
		ExtHeader: extHeader,
		Directory: *directory,
		Digest:    digest,
		Tail:      tail,
	}, nil
}

// ResolveDictionary locates and constructs this container's ZSTD dictionary,
// if any entry in it needs one. See package-level ResolveDictionary.
func (c *Container) ResolveDictionary() (*Dict, error) {
	return ResolveDictionary(&c.Directory)
}

// decodeBody applies deobfuscation and decompression for the given framing,
// returning the plain directory body.
func decodeBody(raw []byte, framing Framing, maxOut uint64) ([]byte, error) {
	switch framing {
	case NotPacked:
		return raw, nil
	case Zstd, ZstdNoCheck:
		compressed := deobfuscate(raw)
		return decompressZstd(compressed, nil, maxOut)
	case Zlib:
		return decompressZlib(raw, maxOut)
	default:
		return nil, newErr(ErrUnsupportedFraming, -1, "unhandled framing")
	}
}
