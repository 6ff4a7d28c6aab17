// This file implements scene file I/O. Each blend is one gzip-compressed
// JSON document named <blendID>.blend.json.gz inside the set directory.
package scene

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileExt is the extension of a stored scene file.
const FileExt = ".blend.json.gz"

// Filename returns the file name a blend is stored under.
func Filename(blendID string) string {
	return blendID + FileExt
}

// Load reads, decompresses, and validates a scene file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompressing scene %s: %w", path, err)
	}
	defer zr.Close()

	var s Scene
	if err := json.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scene %s: %w", path, err)
	}
	if s.BlendID == "" {
		// Fall back to the file name so older sets without an embedded
		// ID still get a usable one.
		s.BlendID = BlendIDFromFilename(filepath.Base(path))
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating scene %s: %w", path, err)
	}
	return &s, nil
}

// Save writes a scene atomically next to its final location. Used to build
// fixture sets; production blend sets are generated elsewhere.
func Save(path string, s *Scene) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validating scene %s: %w", s.BlendID, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".blend-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	zw := gzip.NewWriter(tmp)
	if err := json.NewEncoder(zw).Encode(s); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding scene %s: %w", s.BlendID, err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("compressing scene %s: %w", s.BlendID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// BlendIDFromFilename strips the scene file extension. Names that do not
// carry the full extension are trimmed at the first dot, so plain .json
// fixtures keep working.
func BlendIDFromFilename(name string) string {
	if id, ok := strings.CutSuffix(name, FileExt); ok {
		return id
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// ListBlendIDs returns the sorted blend IDs contained in a set directory.
func ListBlendIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing blend set %s: %w", dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, BlendIDFromFilename(e.Name()))
	}
	sort.Strings(ids)
	return ids, nil
}
