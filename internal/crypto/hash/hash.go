package hash

import (
	"crypto/sha256"
	"encoding/binary"
)

type Hashable interface {
	GetHash() []byte
}

func HashString(data string) []byte {
	hash := sha256.Sum256([]byte(data))
	return hash[:]
}

func HashBytes(data []byte) []byte {
	bytes := sha256.Sum256(data)
	return bytes[:]
}

// HashParts hashes the concatenation of parts without copying them into one buffer.
func HashParts(parts ...[]byte) []byte {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write(part)
	}
	return hasher.Sum(nil)
}

// HashLengthPrefixed hashes every part behind a 4 byte little endian length,
// so ("ab", "c") and ("a", "bc") produce different digests.
func HashLengthPrefixed(parts ...[]byte) []byte {
	hasher := sha256.New()
	lenBuf := make([]byte, 4)
	for _, part := range parts {
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(part)))
		hasher.Write(lenBuf)
		hasher.Write(part)
	}
	return hasher.Sum(nil)
}
