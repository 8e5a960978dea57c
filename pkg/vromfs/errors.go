package vromfs

import "fmt"

// ErrorKind classifies the failure modes the core can report, grouped by the
// taxonomy the format calls for: format violations, integrity checks,
// decode-time failures and truncated input.
type ErrorKind int

const (
	// FormatError kinds: the container's framing does not match the spec.
	ErrMagicInvalid ErrorKind = iota
	ErrPlatformInvalid
	ErrUnsupportedFraming
	ErrTrailerLengthInvalid
	ErrDirectoryMalformed
	ErrCountMismatch
	ErrOffsetOutOfRange

	// IntegrityError kinds.
	ErrDigestMissing
	ErrDigestMismatch

	// DecodeError kinds.
	ErrDecompressFailed
	ErrOutputTooLarge
	ErrDictionaryRequired
	ErrDictionaryMissing

	// IoError kinds.
	ErrTruncated
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMagicInvalid:
		return "MagicInvalid"
	case ErrPlatformInvalid:
		return "PlatformInvalid"
	case ErrUnsupportedFraming:
		return "UnsupportedFraming"
	case ErrTrailerLengthInvalid:
		return "TrailerLengthInvalid"
	case ErrDirectoryMalformed:
		return "DirectoryMalformed"
	case ErrCountMismatch:
		return "CountMismatch"
	case ErrOffsetOutOfRange:
		return "OffsetOutOfRange"
	case ErrDigestMissing:
		return "DigestMissing"
	case ErrDigestMismatch:
		return "DigestMismatch"
	case ErrDecompressFailed:
		return "DecompressFailed"
	case ErrOutputTooLarge:
		return "OutputTooLarge"
	case ErrDictionaryRequired:
		return "DictionaryRequired"
	case ErrDictionaryMissing:
		return "DictionaryMissing"
	case ErrTruncated:
		return "Truncated"
	default:
		return "Unknown"
	}
}

// Error is the single error type the core returns. Offset is body- or
// file-relative depending on where the failure occurred, and is -1 when not
// applicable. Codec names the compression codec for ErrDecompressFailed.
type Error struct {
	Kind   ErrorKind
	Offset int64
	Codec  string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Codec != "" && e.Err != nil:
		return fmt.Sprintf("vromfs: %s (%s): %s: %v", e.Kind, e.Codec, e.Msg, e.Err)
	case e.Codec != "":
		return fmt.Sprintf("vromfs: %s (%s): %s", e.Kind, e.Codec, e.Msg)
	case e.Offset >= 0 && e.Err != nil:
		return fmt.Sprintf("vromfs: %s at offset 0x%x: %s: %v", e.Kind, e.Offset, e.Msg, e.Err)
	case e.Offset >= 0:
		return fmt.Sprintf("vromfs: %s at offset 0x%x: %s", e.Kind, e.Offset, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("vromfs: %s: %s: %v", e.Kind, e.Msg, e.Err)
	default:
		return fmt.Sprintf("vromfs: %s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &vromfs.Error{Kind: vromfs.ErrTruncated}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind ErrorKind, offset int64, msg string) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: msg}
}

func wrapErr(kind ErrorKind, offset int64, msg string, err error) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: msg, Err: err}
}

func decompressErr(codec, msg string, err error) *Error {
	return &Error{Kind: ErrDecompressFailed, Offset: -1, Codec: codec, Msg: msg, Err: err}
}
