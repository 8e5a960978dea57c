package vromfs

// directoryHeaderSize covers filename_table_offset, files_count, 8 reserved
// bytes and file_data_table_offset.
const directoryHeaderSize = 20

// fileDataRowSize is the size of one row in the file-data table:
// data_offset (4) + data_size (4) + 8 reserved bytes.
const fileDataRowSize = 16

// sharedNamesMarker is the special filename byte sequence 0xFF '?' 'n' 'm'
// the format uses in place of the literal string "nm" for the metadata
// entry, so that a naive string scan doesn't find it.
var sharedNamesMarker = [4]byte{0xFF, '?', 'n', 'm'}

// SharedNamesEntry is the conventional name the core exposes for the
// container's self-referential metadata entry, after remapping
// sharedNamesMarker.
const SharedNamesEntry = "nm"

// Entry is a single named file within a container's directory.
type Entry struct {
	Name     string
	Payload  []byte
	Reserved [8]byte
}

// Directory is the ordered list of entries produced by parsing a
// container's decompressed body.
type Directory struct {
	Entries []Entry
}

// ByName returns the entry with the given name, or false if absent.
func (d *Directory) ByName(name string) (*Entry, bool) {
	for i := range d.Entries {
		if d.Entries[i].Name == name {
			return &d.Entries[i], true
		}
	}
	return nil, false
}

type fileDataRow struct {
	dataOffset uint32
	dataSize   uint32
	reserved   [8]byte
}

// parseDirectory decodes the uncompressed directory body per the format's
// filename-table / file-data-table layout.
func parseDirectory(body []byte) (*Directory, error) {
	if len(body) < directoryHeaderSize {
		return nil, newErr(ErrDirectoryMalformed, 0, "body too short for directory header")
	}

	filenameTableOffset, err := u32At(body, 0)
	if err != nil {
		return nil, err
	}
	filesCount, err := u32At(body, 4)
	if err != nil {
		return nil, err
	}
	fileDataTableOffset, err := u32At(body, 16)
	if err != nil {
		return nil, err
	}

	if int64(filenameTableOffset) < directoryHeaderSize {
		return nil, newErr(ErrOffsetOutOfRange, int64(filenameTableOffset), "filename table precedes directory header")
	}

	rows, err := parseFileDataTable(body, int(fileDataTableOffset), int(filesCount))
	if err != nil {
		return nil, err
	}
	names, err := parseFilenameTable(body, int(filenameTableOffset), int(filesCount))
	if err != nil {
		return nil, err
	}

	if len(names) != len(rows) || len(names) != int(filesCount) {
		return nil, newErr(ErrCountMismatch, 0, "filename and file-data row counts disagree with files_count")
	}

	entries := make([]Entry, filesCount)
	bodyLen := len(body)
	for i := range entries {
		row := rows[i]
		end := uint64(row.dataOffset) + uint64(row.dataSize)
		if end > uint64(bodyLen) {
			return nil, newErr(ErrOffsetOutOfRange, int64(row.dataOffset), "entry data range exceeds body length")
		}
		entries[i] = Entry{
			Name:     names[i],
			Payload:  body[row.dataOffset : row.dataOffset+row.dataSize],
			Reserved: row.reserved,
		}
	}

	return &Directory{Entries: entries}, nil
}

func parseFileDataTable(body []byte, offset, count int) ([]fileDataRow, error) {
	if count < 0 {
		return nil, newErr(ErrDirectoryMalformed, int64(offset), "negative files_count")
	}
	need := count * fileDataRowSize
	if offset < 0 || offset+need > len(body) {
		return nil, newErr(ErrOffsetOutOfRange, int64(offset), "file-data table exceeds body length")
	}

	rows := make([]fileDataRow, count)
	for i := 0; i < count; i++ {
		base := offset + i*fileDataRowSize
		dataOffset, err := u32At(body, base)
		if err != nil {
			return nil, err
		}
		dataSize, err := u32At(body, base+4)
		if err != nil {
			return nil, err
		}
		row := fileDataRow{dataOffset: dataOffset, dataSize: dataSize}
		copy(row.reserved[:], body[base+8:base+16])
		rows[i] = row
	}
	return rows, nil
}

func parseFilenameTable(body []byte, offset, count int) ([]string, error) {
	if offset < 0 || offset+4 > len(body) {
		return nil, newErr(ErrOffsetOutOfRange, int64(offset), "filename table header exceeds body length")
	}
	firstFilenameOffset, err := u32At(body, offset)
	if err != nil {
		return nil, err
	}
	if int64(firstFilenameOffset) < directoryHeaderSize {
		return nil, newErr(ErrOffsetOutOfRange, int64(firstFilenameOffset), "first filename precedes directory header")
	}

	names := make([]string, count)
	cursor := int(firstFilenameOffset)
	for i := 0; i < count; i++ {
		raw, err := cstringAt(body, cursor)
		if err != nil {
			return nil, err
		}
		names[i] = remapFilename(raw)
		cursor += len(raw) + 1 // skip the filename and its NUL terminator
	}
	return names, nil
}

// remapFilename applies the format's single special case: the byte sequence
// 0xFF '?' 'n' 'm' stands in for the literal name "nm".
func remapFilename(raw []byte) string {
	if len(raw) == 4 && [4]byte{raw[0], raw[1], raw[2], raw[3]} == sharedNamesMarker {
		return SharedNamesEntry
	}
	return string(raw)
}
