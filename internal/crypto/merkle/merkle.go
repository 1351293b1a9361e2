package merkle

import (
	"github.com/nivschuman/ChainDemocracy/internal/crypto/hash"
)

// CalculateMerkleRoot returns the root over the hashes of hashables, or nil
// when there are none. An odd level repeats its last hash.
func CalculateMerkleRoot[T hash.Hashable](hashables []T) []byte {
	if len(hashables) == 0 {
		return nil
	}

	hashes := make([][]byte, 0, len(hashables))
	for _, item := range hashables {
		hashes = append(hashes, item.GetHash())
	}

	for len(hashes) > 1 {
		if len(hashes)%2 != 0 {
			hashes = append(hashes, hashes[len(hashes)-1])
		}

		newLevel := make([][]byte, 0, len(hashes)/2)
		for i := 0; i < len(hashes); i += 2 {
			newLevel = append(newLevel, hashPair(hashes[i], hashes[i+1]))
		}

		hashes = newLevel
	}

	return hashes[0]
}

func hashPair(left []byte, right []byte) []byte {
	return hash.HashParts(left, right)
}
