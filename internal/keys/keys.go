// Package keys derives independent keys from the application secret so the
// flash session and the CSRF token never share key material.
package keys

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Size is the length of every derived key, suitable for HMAC-SHA256 and AES-256.
const Size = 32

// Purposes passed to Derive.
const (
	Flash = "invoicer flash session"
	CSRF  = "invoicer csrf token"
)

// Derive expands secret into a Size-byte key bound to purpose using HKDF-SHA256.
func Derive(secret, purpose string) []byte {
	key := make([]byte, Size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		// HKDF-SHA256 can produce 8160 bytes; a short read is a programming error.
		panic(err)
	}
	return key
}
