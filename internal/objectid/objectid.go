package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// New returns a 24-character lowercase hex identifier: a 4-byte unix
// timestamp prefix followed by 8 random bytes. The timestamp prefix keeps
// ids roughly insertion-ordered, which the cards feed relies on as a
// tie-breaker.
func New() string {
	var b [12]byte

	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))

	if _, err := rand.Read(b[4:]); err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic("objectid: " + err.Error())
	}

	return hex.EncodeToString(b[:])
}

// IsValid reports whether s has the 24-character hex shape. Controllers
// check this before any store access so malformed ids fail with 400, not 404.
func IsValid(s string) bool {
	if len(s) != 24 {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}
