package vromfs

// Dict is a reusable ZSTD decompression dictionary carried as a regular
// entry inside the container. It is an immutable value, safe to share
// across any number of decompressions.
type Dict struct {
	bytes []byte
}

// Bytes returns the dictionary's raw content.
func (d *Dict) Bytes() []byte { return d.bytes }

// dictIDRegionSize is the length, in bytes, of the dictionary identifier
// region within the "nm" entry's payload, starting at dictIDRegionOffset.
// Those bytes are themselves the ASCII text of the dictionary's lowercase
// hex identifier, not raw binary needing a further hex-encoding pass.
const (
	dictIDRegionOffset = 8
	dictIDRegionSize   = 32
)

// ResolveDictionary inspects a container's directory for dictionary-compressed
// content and, if present, returns the dictionary it references. It returns
// (nil, nil) when the container carries no "nm" entry or the entry's
// dictionary-identifier region is all zero, meaning no entry in this
// container needs a dictionary.
func ResolveDictionary(dir *Directory) (*Dict, error) {
	nm, ok := dir.ByName(SharedNamesEntry)
	if !ok {
		return nil, nil
	}
	if len(nm.Payload) < dictIDRegionOffset+dictIDRegionSize {
		return nil, newErr(ErrDirectoryMalformed, int64(len(nm.Payload)), "nm entry too short for dictionary id region")
	}

	id := nm.Payload[dictIDRegionOffset : dictIDRegionOffset+dictIDRegionSize]
	if isAllZero(id) {
		return nil, nil
	}

	dictName := string(id) + ".dict"
	dictEntry, ok := dir.ByName(dictName)
	if !ok {
		return nil, newErr(ErrDictionaryMissing, -1, "dictionary entry \""+dictName+"\" not found")
	}

	return &Dict{bytes: dictEntry.Payload}, nil
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
