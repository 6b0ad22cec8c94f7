package export

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// ArchiveWriter collects named byte buffers and packs them into a single
// in-memory ZIP archive. Entries appear in the archive in insertion order,
// which keeps package output reproducible. The writer knows nothing about
// presentation semantics.
type ArchiveWriter struct {
	entries  []archiveEntry
	compress bool
}

type archiveEntry struct {
	path string
	data []byte
}

// NewArchiveWriter creates an empty archive. When compress is false every
// entry is stored uncompressed.
func NewArchiveWriter(compress bool) *ArchiveWriter {
	return &ArchiveWriter{compress: compress}
}

// Add appends one entry. Adding the same path twice is a caller bug and
// is rejected so a manifest can never silently diverge from the archive.
func (w *ArchiveWriter) Add(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("archive entry path must not be empty")
	}
	for _, e := range w.entries {
		if e.path == path {
			return fmt.Errorf("duplicate archive entry: %s", path)
		}
	}
	w.entries = append(w.entries, archiveEntry{path: path, data: data})
	return nil
}

// Len returns the number of entries added so far.
func (w *ArchiveWriter) Len() int {
	return len(w.entries)
}

// Bytes packs all entries into a ZIP buffer. The zip writer is closed
// explicitly to flush the central directory; a deferred close would
// swallow the error.
func (w *ArchiveWriter) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	method := zip.Deflate
	if !w.compress {
		method = zip.Store
	}

	for _, e := range w.entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   e.path,
			Method: method,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create zip entry %s: %w", e.path, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write zip entry %s: %w", e.path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
