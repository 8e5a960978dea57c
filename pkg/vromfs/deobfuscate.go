package vromfs

import "encoding/binary"

// obfuscationKeyA and obfuscationKeyB are the four u32-LE words XORed over
// the leading and trailing 16-byte windows of an obfuscated compressed body.
var (
	obfuscationKeyA = [4]uint32{0xAA55AA55, 0xF00FF00F, 0xAA55AA55, 0x12481248}
	obfuscationKeyB = [4]uint32{0x12481248, 0xAA55AA55, 0xF00FF00F, 0xAA55AA55}
)

// deobfuscate reverses the container's XOR obfuscation of a ZSTD body's
// leading and (if present) trailing 16-byte windows, returning a new buffer
// the same length as raw. Middle bytes and any trailing remainder shorter
// than 4 bytes pass through unchanged. Applying it twice is a no-op, since
// XOR with a fixed key is its own inverse.
func deobfuscate(raw []byte) []byte {
	out := make([]byte, len(raw))
	copy(out, raw)

	if len(out) >= 16 {
		xorWindow(out[0:16], obfuscationKeyA)
	}
	if len(out) >= 32 {
		tailStart := trailingWindowStart(len(out))
		xorWindow(out[tailStart:tailStart+16], obfuscationKeyB)
	}
	return out
}

// trailingWindowStart computes the start of the trailing 16-byte obfuscated
// window: the middle region (between the two 16-byte head/tail windows) is
// rounded down to a multiple of 4, and the tail window immediately follows.
func trailingWindowStart(packedSize int) int {
	midLen := packedSize - 32
	midLen -= midLen % 4
	return 16 + midLen
}

func xorWindow(b []byte, key [4]uint32) {
	for i := 0; i < 4; i++ {
		word := binary.LittleEndian.Uint32(b[i*4 : i*4+4])
		binary.LittleEndian.PutUint32(b[i*4:i*4+4], word^key[i])
	}
}
