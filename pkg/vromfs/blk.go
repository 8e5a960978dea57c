package vromfs

// BlkFraming identifies the inner envelope of a .blk entry's payload,
// selected by the payload's leading byte.
type BlkFraming int

const (
	BlkRaw BlkFraming = iota
	BlkFat
	BlkFatZstd
	BlkSlim
	BlkSlimZstd
	BlkSlimZstdDict
)

func (f BlkFraming) String() string {
	switch f {
	case BlkFat:
		return "Fat"
	case BlkFatZstd:
		return "FatZstd"
	case BlkSlim:
		return "Slim"
	case BlkSlimZstd:
		return "SlimZstd"
	case BlkSlimZstdDict:
		return "SlimZstdDict"
	default:
		return "Raw"
	}
}

func blkFramingOf(pk byte) BlkFraming {
	switch pk {
	case 1:
		return BlkFat
	case 2:
		return BlkFatZstd
	case 3:
		return BlkSlim
	case 4:
		return BlkSlimZstd
	case 5:
		return BlkSlimZstdDict
	default:
		return BlkRaw
	}
}

// sharedNamesHeaderSize is the number of leading bytes of the "nm" entry's
// payload occupied by the dictionary-identifier region and reserved bytes,
// already consumed by ResolveDictionary.
const sharedNamesHeaderSize = 40

// DecodeBlk decodes a single entry's .blk envelope, consulting dict when the
// inner framing requires one. It returns the envelope's payload unchanged
// for unrecognized leading bytes (the Raw framing).
func DecodeBlk(entry *Entry, dict *Dict, opts Options) ([]byte, error) {
	if len(entry.Payload) == 0 {
		return nil, nil
	}

	framing := blkFramingOf(entry.Payload[0])
	switch framing {
	case BlkFat, BlkSlim:
		return entry.Payload[1:], nil

	case BlkFatZstd:
		if len(entry.Payload) < 4 {
			return nil, newErr(ErrDirectoryMalformed, 0, "FatZstd payload too short for pk_size")
		}
		pkSize := uint32(entry.Payload[1]) | uint32(entry.Payload[2])<<8 | uint32(entry.Payload[3])<<16
		if uint64(4)+uint64(pkSize) > uint64(len(entry.Payload)) {
			return nil, newErr(ErrOffsetOutOfRange, 4, "FatZstd pk_size exceeds payload length")
		}
		compressed := entry.Payload[4 : 4+pkSize]
		out, err := decompressZstd(compressed, dictBytes(dict), opts.MaxDecompressedSize)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, newErr(ErrDirectoryMalformed, 0, "FatZstd decompressed to empty output")
		}
		return out[1:], nil

	case BlkSlimZstd:
		return decompressZstd(entry.Payload[1:], dictBytes(dict), opts.MaxDecompressedSize)

	case BlkSlimZstdDict:
		if dict == nil {
			return nil, newErr(ErrDictionaryRequired, 0, "SlimZstdDict entry requires a resolved dictionary")
		}
		return decompressZstd(entry.Payload[1:], dict.Bytes(), opts.MaxDecompressedSize)

	default:
		return entry.Payload, nil
	}
}

func dictBytes(dict *Dict) []byte {
	if dict == nil {
		return nil
	}
	return dict.Bytes()
}

// DecodeSharedNames decodes the "nm" entry's own payload: a fixed 40-byte
// header (already interpreted by ResolveDictionary) followed by a
// dictionary-compressed ZSTD stream.
func DecodeSharedNames(entry *Entry, dict *Dict, opts Options) ([]byte, error) {
	if len(entry.Payload) < sharedNamesHeaderSize {
		return nil, newErr(ErrDirectoryMalformed, int64(len(entry.Payload)), "nm entry shorter than its fixed header")
	}
	return decompressZstd(entry.Payload[sharedNamesHeaderSize:], dictBytes(dict), opts.MaxDecompressedSize)
}
