package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
)

// HashSize is the length in bytes of a raw object digest.
const HashSize = sha1.Size

// Hash is a raw 20-byte SHA-1 digest. Its canonical text form is 40
// lowercase hex characters.
type Hash [HashSize]byte

// ZeroHash is the all-zero digest. No stored object has it.
var ZeroHash Hash

// String returns the 40-character lowercase hex form of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero digest.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Bytes returns a copy of the raw digest bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// ParseHash parses a 40-character hex digest. Upper-case hex is accepted
// and normalized.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*HashSize {
		return h, fmt.Errorf("parse hash %q: want %d hex characters, got %d", s, 2*HashSize, len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return ZeroHash, fmt.Errorf("parse hash %q: %w", s, err)
	}
	return h, nil
}

// HashFromBytes copies a raw 20-byte digest into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, fmt.Errorf("hash from bytes: want %d bytes, got %d", HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Sum computes the plain SHA-1 digest of data.
func Sum(data []byte) Hash {
	return Hash(sha1.Sum(data))
}

// HashObject computes the digest of the envelope "kind len\0payload"
// without materializing the framed bytes.
func HashObject(kind Kind, payload []byte) Hash {
	d := sha1.New()
	d.Write(appendHeader(nil, kind, len(payload)))
	d.Write(payload)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

func appendHeader(dst []byte, kind Kind, size int) []byte {
	dst = append(dst, kind.String()...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(size), 10)
	return append(dst, 0)
}
