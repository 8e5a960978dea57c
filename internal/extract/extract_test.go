package extract

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/heron-tools/vromfsunpack/pkg/vromfs"
)

func testContainer(t *testing.T) *vromfs.Container {
	t.Helper()

	body := make([]byte, 0x60)
	putU32 := func(off int, v uint32) {
		body[off], body[off+1], body[off+2], body[off+3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
	putU32(0, 0x40)
	putU32(4, 2)
	putU32(16, 0x20)
	putU32(0x20, 0x54)
	putU32(0x24, 4)
	putU32(0x30, 0x58)
	putU32(0x34, 5)
	putU32(0x40, 0x48)
	copy(body[0x48:], "a\x00b/c\x00")
	copy(body[0x54:0x58], "DATA")
	copy(body[0x58:0x5D], "HELLO")

	header := make([]byte, vromfs.HeaderSize)
	copy(header[0:4], vromfs.Magic[:])
	copy(header[4:8], vromfs.PlatformPC[:])
	header[8] = byte(len(body))

	data := append(header, body...)
	c, err := vromfs.Parse(data, vromfs.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestExtractWritesFilesAndManifest(t *testing.T) {
	c := testContainer(t)
	dir := t.TempDir()

	manifest, err := Extract(c, Options{OutputDir: dir}, vromfs.DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if manifest.Version != 1 {
		t.Errorf("Version = %d, want 1", manifest.Version)
	}
	if len(manifest.Filelist) != 2 {
		t.Fatalf("Filelist = %+v, want 2 entries", manifest.Filelist)
	}
	if manifest.Filelist[0].Filename != "a" || manifest.Filelist[1].Filename != "b/c" {
		t.Errorf("manifest order = %+v, want [a, b/c] (directory order)", manifest.Filelist)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a"))
	if err != nil || string(data) != "DATA" {
		t.Errorf("file \"a\" = (%q, %v), want (\"DATA\", nil)", data, err)
	}
	data, err = os.ReadFile(filepath.Join(dir, "b", "c"))
	if err != nil || string(data) != "HELLO" {
		t.Errorf("file \"b/c\" = (%q, %v), want (\"HELLO\", nil)", data, err)
	}

	wantHash := func(plain string) string {
		return hexMD5(plain)
	}
	if manifest.Filelist[0].Hash != wantHash("DATA") {
		t.Errorf("hash(a) = %s, want %s", manifest.Filelist[0].Hash, wantHash("DATA"))
	}
}

func TestExtractDryRunWritesNothing(t *testing.T) {
	c := testContainer(t)
	dir := t.TempDir()

	manifest, err := Extract(c, Options{OutputDir: dir, DryRun: true}, vromfs.DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(manifest.Filelist) != 2 {
		t.Fatalf("Filelist = %+v, want 2 entries even in dry-run", manifest.Filelist)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run must not write anything, found %d entries in %s", len(entries), dir)
	}
}

func TestExtractOnlyFilter(t *testing.T) {
	c := testContainer(t)
	dir := t.TempDir()

	manifest, err := Extract(c, Options{OutputDir: dir, Only: map[string]struct{}{"a": {}}}, vromfs.DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(manifest.Filelist) != 1 || manifest.Filelist[0].Filename != "a" {
		t.Errorf("got %+v, want only entry \"a\"", manifest.Filelist)
	}
}

func hexMD5(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
