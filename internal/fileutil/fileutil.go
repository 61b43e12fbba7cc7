// Package fileutil writes files atomically with integrity verification.
package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Digest describes a written file.
type Digest struct {
	Size   int64
	SHA256 string
}

// WriteAtomic streams fill into a temporary file next to path, verifies the
// bytes on disk against what was written, and renames it over path. path is
// left untouched on any failure.
func WriteAtomic(path string, mode os.FileMode, fill func(io.Writer) error) (Digest, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Digest{}, fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return Digest{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(tmp, hasher)}
	if err := fill(counter); err != nil {
		return Digest{}, err
	}
	if err := tmp.Sync(); err != nil {
		return Digest{}, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Digest{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return Digest{}, fmt.Errorf("chmod temp file: %w", err)
	}

	want := Digest{Size: counter.n, SHA256: hex.EncodeToString(hasher.Sum(nil))}
	if err := Verify(tmpPath, want); err != nil {
		return Digest{}, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return Digest{}, fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return want, nil
}

// Verify re-reads path and compares its size and SHA256 with want.
func Verify(path string, want Digest) error {
	got, err := DigestFile(path)
	if err != nil {
		return err
	}
	if got.Size != want.Size {
		return fmt.Errorf("size mismatch: expected %d bytes, found %d bytes", want.Size, got.Size)
	}
	if got.SHA256 != want.SHA256 {
		return fmt.Errorf("hash mismatch: file corrupted during write")
	}
	return nil
}

// DigestFile computes the size and SHA256 of path.
func DigestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()
	hasher := sha256.New()
	n, err := io.Copy(hasher, f)
	if err != nil {
		return Digest{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return Digest{Size: n, SHA256: hex.EncodeToString(hasher.Sum(nil))}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
