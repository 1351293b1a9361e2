// Package address derives and validates the deterministic record addresses
// under which every election record is stored.
package address

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/oasisprotocol/curve25519-voi/curve"

	"github.com/nivschuman/ChainDemocracy/internal/crypto/hash"
)

const (
	Size     = 32
	MaxSeeds = 16

	derivedAddressMarker = "ProgramDerivedAddress"
)

var (
	ErrOnCurve         = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableNonce   = errors.New("unable to find a viable nonce for the seeds")
	ErrTooManySeeds    = fmt.Errorf("at most %d seeds are allowed", MaxSeeds)
	ErrAddressMismatch = errors.New("supplied address does not match derived address")
	ErrInvalidLength   = fmt.Errorf("address must be %d bytes", Size)
)

type Address [Size]byte

var Zero Address

func FromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != Size {
		return addr, ErrInvalidLength
	}
	copy(addr[:], b)
	return addr, nil
}

func FromHex(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid address hex: %w", err)
	}
	return FromBytes(b)
}

// FromPublicKey is the identity of a signing key: the hash of its bytes.
func FromPublicKey(publicKey []byte) Address {
	var addr Address
	copy(addr[:], hash.HashBytes(publicKey))
	return addr
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) Short() string {
	return a.String()[:8]
}

func (a Address) IsZero() bool {
	return a == Zero
}

func (a Address) Compare(other Address) int {
	return bytes.Compare(a[:], other[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// IsOnCurve reports whether b decodes to a point on the ed25519 curve, i.e.
// whether somebody could hold a private key for it.
func IsOnCurve(b []byte) bool {
	var compressed curve.CompressedEdwardsY
	if _, err := compressed.SetBytes(b); err != nil {
		return false
	}
	var point curve.EdwardsPoint
	_, err := point.SetCompressedY(&compressed)
	return err == nil
}

// CreateProgramAddress hashes the seeds, the nonce and the namespace. It fails
// with ErrOnCurve when the digest is a valid public key.
func CreateProgramAddress(namespace Address, seeds [][]byte, nonce uint8) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Zero, ErrTooManySeeds
	}

	parts := make([][]byte, 0, len(seeds)+3)
	parts = append(parts, seeds...)
	parts = append(parts, []byte{nonce}, namespace[:], []byte(derivedAddressMarker))

	digest := hash.HashLengthPrefixed(parts...)
	if IsOnCurve(digest) {
		return Zero, ErrOnCurve
	}

	return FromBytes(digest)
}

// FindProgramAddress searches nonces from 255 downwards and returns the first
// off-curve address together with the nonce that produced it.
func FindProgramAddress(namespace Address, seeds ...[]byte) (Address, uint8, error) {
	for nonce := 255; nonce >= 0; nonce-- {
		addr, err := CreateProgramAddress(namespace, seeds, uint8(nonce))
		if err == nil {
			return addr, uint8(nonce), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return Zero, 0, err
		}
	}
	return Zero, 0, ErrNoViableNonce
}

// Validate recomputes the address for seeds and compares it with supplied.
func Validate(namespace Address, supplied Address, seeds ...[]byte) error {
	derived, _, err := FindProgramAddress(namespace, seeds...)
	if err != nil {
		return err
	}
	if derived != supplied {
		return fmt.Errorf("%w: supplied %s, derived %s", ErrAddressMismatch, supplied.Short(), derived.Short())
	}
	return nil
}
