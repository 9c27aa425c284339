package shared

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// BLAKE3Spec returns a "blake3:<hex>" digest spec for content. Used for
// applied-state bookkeeping in the lockfile.
func BLAKE3Spec(content []byte) string {
	sum := blake3.Sum256(content)
	return "blake3:" + hex.EncodeToString(sum[:])
}

// SHA256Spec returns a "sha256:<hex>" digest spec for content.
func SHA256Spec(content []byte) string {
	sum := sha256.Sum256(content)
	return "sha256:" + hex.EncodeToString(sum[:])
}
