// Package blobio is the teacher's mmap-backed zero-copy loading technique
// (SteosOfficial-SteosMorphy/analyzer/analyzer.go's loadInternal/bytesToSlice)
// generalized into a small reusable helper, used by both internal/compact
// (the automat.save file) and internal/document (the document blob), per
// SPEC_FULL.md §1 "Mmap-backed loading".
package blobio

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MappedFile owns an mmap'd read-only view of a file. The caller must call
// Close once done to release the mapping and the underlying file handle.
type MappedFile struct {
	file *os.File
	data mmap.MMap
}

// Open mmaps path read-only.
func Open(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blobio: open %s: %w", path, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blobio: mmap %s: %w", path, err)
	}
	return &MappedFile{file: f, data: data}, nil
}

// Bytes returns the mapped region. Valid only until Close.
func (m *MappedFile) Bytes() []byte { return m.data }

// Close unmaps the file and closes the handle.
func (m *MappedFile) Close() error {
	var firstErr error
	if err := m.data.Unmap(); err != nil {
		firstErr = err
	}
	if err := m.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
