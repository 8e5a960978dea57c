package vromfs

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/DataDog/zstd"
)

// DefaultMaxDecompressedSize is the decompression output bound that
// DefaultOptions sets. A zero Options.MaxDecompressedSize is not replaced
// by it.
const DefaultMaxDecompressedSize = 5_000_000

// decompressZstd inflates a ZSTD-framed buffer, optionally keyed by dict,
// and fails with OutputTooLarge if the result would exceed maxOut bytes.
func decompressZstd(body []byte, dict []byte, maxOut uint64) ([]byte, error) {
	var r io.ReadCloser
	if len(dict) > 0 {
		r = zstd.NewReaderDict(bytes.NewReader(body), dict)
	} else {
		r = zstd.NewReader(bytes.NewReader(body))
	}
	defer r.Close()

	return readBounded(r, maxOut, "zstd")
}

// decompressZlib inflates a standard zlib-wrapped DEFLATE buffer.
func decompressZlib(body []byte, maxOut uint64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, decompressErr("zlib", "open reader", err)
	}
	defer r.Close()

	return readBounded(r, maxOut, "zlib")
}

// readBounded drains r, failing with OutputTooLarge the moment more than
// maxOut bytes have been produced, so a hostile stream can't exhaust memory.
func readBounded(r io.Reader, maxOut uint64, codec string) ([]byte, error) {
	limited := io.LimitReader(r, int64(maxOut)+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		return nil, decompressErr(codec, "read decompressed stream", err)
	}
	if uint64(len(buf)) > maxOut {
		return nil, newErr(ErrOutputTooLarge, -1, "decompressed output exceeds max_decompressed_size")
	}
	return buf, nil
}
