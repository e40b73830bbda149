package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestNotFound indicates the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrMalformedManifest indicates the file is not a manifest this package
	// understands: invalid JSON, a non-object document, or an entry of the
	// wrong shape.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrManifestNotReady indicates the bundler is still writing the
	// manifest (webpack-bundle-tracker "compiling" and friends).
	ErrManifestNotReady = errors.New("manifest not ready")

	// ErrKeyNotFound indicates a lookup of an asset name the manifest does
	// not declare.
	ErrKeyNotFound = errors.New("manifest key not found")

	// ErrUnsupportedExtension indicates an entry path that cannot be turned
	// into a tag.
	ErrUnsupportedExtension = errors.New("unsupported asset extension")

	// ErrNoManifest indicates the manifest lookup is disabled because no
	// manifest path is configured.
	ErrNoManifest = errors.New("no manifest configured")
)

// KeyNotFoundError carries the asset name that was requested.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrKeyNotFound, e.Key)
}

// Is makes errors.Is(err, ErrKeyNotFound) work.
func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}
