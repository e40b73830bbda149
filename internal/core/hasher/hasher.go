// Package hasher computes content digests used to decide whether a file in
// the build directory is stale.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Prefix is prepended to every digest so the algorithm is visible when a
// digest is logged.
const Prefix = "sha256:"

// CalculateSHA256 returns the digest of content in the form "sha256:<hex>".
func CalculateSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return Prefix + hex.EncodeToString(sum[:])
}

// FileSHA256 streams the file at path through SHA-256.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return Prefix + hex.EncodeToString(h.Sum(nil)), nil
}

// SameContent reports whether dst exists and has the same digest as src.
// A missing dst is not an error; it simply differs.
func SameContent(src, dst string) (bool, error) {
	dstHash, err := FileSHA256(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	srcHash, err := FileSHA256(src)
	if err != nil {
		return false, err
	}
	return srcHash == dstHash, nil
}
