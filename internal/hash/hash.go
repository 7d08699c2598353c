// Package hash provides file hashing functionality for content comparison.
//
// Nasher uses BLAKE3 hashes when unpacking an artifact into a source tree so
// that files whose content did not change keep their modification time. The
// package provides both a real implementation and a fake for testing.
package hash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"lukechampine.com/blake3"

	"github.com/danieljhkim/nasher/internal/fsops"
)

// Hasher provides an abstraction for file hashing operations.
type Hasher interface {
	// HashFile computes the hash of the file at the given path.
	HashFile(path string) (string, error)
}

// Blake3Hasher implements Hasher using 256-bit BLAKE3.
type Blake3Hasher struct{}

// NewBlake3Hasher creates a new Blake3Hasher.
func NewBlake3Hasher() *Blake3Hasher {
	return &Blake3Hasher{}
}

// HashFile computes the BLAKE3 hash of the file at the given path.
func (h *Blake3Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := blake3.New(32, nil)
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// SameContent reports whether the files at a and b hash identically.
// A missing b is reported as different, not as an error.
func SameContent(fs fsops.FS, h Hasher, a, b string) (bool, error) {
	exists, err := fs.Exists(b)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	ha, err := h.HashFile(a)
	if err != nil {
		return false, err
	}
	hb, err := h.HashFile(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

// FakeHasher implements Hasher with deterministic hashes for testing.
// A path without a set hash hashes to the path itself, so distinct files
// differ unless a test says otherwise.
type FakeHasher struct {
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
	}
}

// SetHash sets the hash for a specific path (for testing).
func (h *FakeHasher) SetHash(path, hash string) {
	h.hashes[path] = hash
}

// HashFile returns the predetermined hash for the given path.
func (h *FakeHasher) HashFile(path string) (string, error) {
	if hash, ok := h.hashes[path]; ok {
		return hash, nil
	}
	return "path:" + path, nil
}
