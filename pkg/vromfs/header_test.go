package vromfs

import "testing"

func TestHeaderFraming(t *testing.T) {
	t.Run("NotPacked", func(t *testing.T) {
		h := &Header{PackedInfo: 0}
		framing, ok := h.Framing()
		if !ok || framing != NotPacked {
			t.Fatalf("got (%v, %v), want (NotPacked, true)", framing, ok)
		}
	})

	t.Run("BitPackedFieldDecoding", func(t *testing.T) {
		// packed_info = 0xC0000040 => type = 0x30, packed_size = 0x40.
		h := &Header{PackedInfo: 0xC0000040}
		if got := h.packedType(); got != 0x30 {
			t.Errorf("packedType() = 0x%x, want 0x30", got)
		}
		if got := h.packedSize(); got != 0x40 {
			t.Errorf("packedSize() = 0x%x, want 0x40", got)
		}
		framing, ok := h.Framing()
		if !ok || framing != Zstd {
			t.Fatalf("got (%v, %v), want (Zstd, true)", framing, ok)
		}
	})

	t.Run("ZstdNoCheck", func(t *testing.T) {
		h := &Header{PackedInfo: 0x40000010} // type = 0x10, packed_size = 0x10
		framing, ok := h.Framing()
		if !ok || framing != ZstdNoCheck {
			t.Fatalf("got (%v, %v), want (ZstdNoCheck, true)", framing, ok)
		}
	})

	t.Run("Zlib", func(t *testing.T) {
		h := &Header{PackedInfo: 0x80000010} // type = 0x20, packed_size = 0x10
		framing, ok := h.Framing()
		if !ok || framing != Zlib {
			t.Fatalf("got (%v, %v), want (Zlib, true)", framing, ok)
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		h := &Header{PackedInfo: 0x14000010} // type = 0x05, not a recognized framing
		if _, ok := h.Framing(); ok {
			t.Error("expected ok=false for an unrecognized type")
		}
	})
}

func TestDecodeHeader(t *testing.T) {
	t.Run("ValidPC", func(t *testing.T) {
		raw := buildHeader(Magic, 0x60, 0)
		h, err := decodeHeader(newCursor(raw), true)
		if err != nil {
			t.Fatalf("decodeHeader: %v", err)
		}
		if h.Magic != Magic || h.Platform != PlatformPC || h.OriginalSize != 0x60 {
			t.Errorf("unexpected header: %+v", h)
		}
		if h.Extended() {
			t.Error("plain VRFs header must not report Extended")
		}
	})

	t.Run("ExtendedMagic", func(t *testing.T) {
		raw := buildHeader(MagicExtended, 0x60, 0)
		h, err := decodeHeader(newCursor(raw), true)
		if err != nil {
			t.Fatalf("decodeHeader: %v", err)
		}
		if !h.Extended() {
			t.Error("VRFx header must report Extended")
		}
	})

	t.Run("InvalidMagic", func(t *testing.T) {
		raw := buildHeader([4]byte{'X', 'X', 'X', 'X'}, 0x60, 0)
		if _, err := decodeHeader(newCursor(raw), true); err == nil {
			t.Error("expected MagicInvalid error")
		}
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		raw := buildHeader(Magic, 0x60, 0)[:10]
		if _, err := decodeHeader(newCursor(raw), true); err == nil {
			t.Error("expected Truncated error on short header")
		}
	})

	t.Run("StrictPlatformRejectsUnknownTag", func(t *testing.T) {
		raw := buildHeader(Magic, 0x60, 0)
		raw[4], raw[5], raw[6], raw[7] = 0xFF, 0xFF, 0xFF, 0xFF
		if _, err := decodeHeader(newCursor(raw), true); err == nil {
			t.Error("expected PlatformInvalid error under strict platform checking")
		}
		if _, err := decodeHeader(newCursor(raw), false); err != nil {
			t.Errorf("expected no error with strict platform checking disabled, got %v", err)
		}
	})
}
