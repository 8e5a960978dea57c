package vromfs

import "encoding/binary"

// buildDirectoryBody constructs the scenario-1 directory body: a 0x60-byte
// buffer with a filename table, a file-data table and two entries,
// "a" -> "DATA" and "b/c" -> "HELLO".
func buildDirectoryBody() []byte {
	body := make([]byte, 0x60)

	binary.LittleEndian.PutUint32(body[0:4], 0x40)  // filename_table_offset
	binary.LittleEndian.PutUint32(body[4:8], 2)     // files_count
	binary.LittleEndian.PutUint32(body[16:20], 0x20) // file_data_table_offset

	// file-data table at 0x20
	binary.LittleEndian.PutUint32(body[0x20:0x24], 0x54) // data_offset
	binary.LittleEndian.PutUint32(body[0x24:0x28], 4)    // data_size
	binary.LittleEndian.PutUint32(body[0x30:0x34], 0x58)
	binary.LittleEndian.PutUint32(body[0x34:0x38], 5)

	// filename table at 0x40
	binary.LittleEndian.PutUint32(body[0x40:0x44], 0x48) // first_filename_offset
	copy(body[0x48:], "a\x00b/c\x00")

	copy(body[0x54:0x58], "DATA")
	copy(body[0x58:0x5D], "HELLO")

	return body
}

func buildHeader(magic [4]byte, originalSize, packedInfo uint32) []byte {
	h := make([]byte, HeaderSize)
	copy(h[0:4], magic[:])
	copy(h[4:8], PlatformPC[:])
	binary.LittleEndian.PutUint32(h[8:12], originalSize)
	binary.LittleEndian.PutUint32(h[12:16], packedInfo)
	return h
}
