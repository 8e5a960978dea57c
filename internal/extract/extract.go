// Package extract drives a full container unpack on top of pkg/vromfs: it
// resolves the dictionary once, decodes every entry in directory order,
// writes the results to disk, and accumulates a digest manifest. None of
// this lives in pkg/vromfs itself — the core only parses and decodes bytes
// that are handed to it.
package extract

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/heron-tools/vromfsunpack/pkg/vromfs"
)

// ManifestEntry records one extracted entry's lowercased name and the hex
// MD5 digest of its decoded content.
type ManifestEntry struct {
	Filename string `json:"filename"`
	Hash     string `json:"hash"`
}

// Manifest is the metadata index written alongside an extraction when the
// caller asks for one.
type Manifest struct {
	Version  int             `json:"version"`
	Filelist []ManifestEntry `json:"filelist"`
}

// Options configures a single Extract call.
type Options struct {
	// OutputDir receives decoded entries, one file per entry, named by the
	// entry's directory name. Ignored when DryRun is set.
	OutputDir string
	// DryRun decodes every entry (so decode failures still surface) without
	// writing anything to OutputDir.
	DryRun bool
	// Only, when non-nil, restricts extraction to entries whose name is a
	// key of the set. A nil map means extract everything.
	Only map[string]struct{}
}

// Extract decodes every entry of container in directory order, per the
// shared-names bootstrap sequencing: the dictionary is resolved once before
// any entry is decoded.
func Extract(container *vromfs.Container, opts Options, decodeOpts vromfs.Options) (Manifest, error) {
	dict, err := container.ResolveDictionary()
	if err != nil {
		return Manifest{}, fmt.Errorf("resolve dictionary: %w", err)
	}

	manifest := Manifest{Version: 1}

	for i := range container.Directory.Entries {
		entry := &container.Directory.Entries[i]
		if opts.Only != nil {
			if _, ok := opts.Only[entry.Name]; !ok {
				continue
			}
		}

		decoded, err := decodeEntry(entry, dict, decodeOpts)
		if err != nil {
			return Manifest{}, fmt.Errorf("decode %q: %w", entry.Name, err)
		}

		if !opts.DryRun {
			if err := writeEntry(opts.OutputDir, entry.Name, decoded); err != nil {
				return Manifest{}, fmt.Errorf("write %q: %w", entry.Name, err)
			}
		}

		digest := md5.Sum(decoded)
		manifest.Filelist = append(manifest.Filelist, ManifestEntry{
			Filename: strings.ToLower(entry.Name),
			Hash:     hex.EncodeToString(digest[:]),
		})
	}

	return manifest, nil
}

// decodeEntry applies the right decoder for entry's role: the shared-names
// bootstrap entry gets SharedNamesDecoder, a dictionary blob is opaque
// (dictionaries are not themselves .blk-framed), and everything else goes
// through BlkDecoder.
func decodeEntry(entry *vromfs.Entry, dict *vromfs.Dict, opts vromfs.Options) ([]byte, error) {
	switch {
	case entry.Name == vromfs.SharedNamesEntry:
		if dict == nil {
			return entry.Payload, nil
		}
		return vromfs.DecodeSharedNames(entry, dict, opts)
	case strings.HasSuffix(entry.Name, ".dict"):
		return entry.Payload, nil
	default:
		return vromfs.DecodeBlk(entry, dict, opts)
	}
}

func writeEntry(outputDir, name string, data []byte) error {
	target := filepath.Join(outputDir, filepath.FromSlash(name))

	rel, err := filepath.Rel(outputDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("entry name %q escapes output directory", name)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	return os.WriteFile(target, data, 0o644)
}
