package ppk

import (
	"encoding/hex"
	"fmt"
)

type PublicKey interface {
	VerifySignature(signature []byte, hash []byte) bool
	AsBytes() []byte
}

type PrivateKey interface {
	CreateSignature(hash []byte) ([]byte, error)
	AsBytes() ([]byte, error)
}

type KeyPair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
}

func GetPublicKeyFromBytes(bytes []byte) (PublicKey, error) {
	publicKey, err := getECDSAPublicKeyFromBytes(bytes)

	if err != nil {
		return nil, err
	}

	return publicKey, err
}

func GetPrivateKeyFromBytes(bytes []byte) (PrivateKey, error) {
	privateKey, err := getECDSAPrivateKeyFromBytes(bytes)

	if err != nil {
		return nil, err
	}

	return privateKey, nil
}

// KeyPairFromPrivateHex rebuilds a key pair from a hex encoded SEC1 private key.
func KeyPairFromPrivateHex(privateKeyHex string) (*KeyPair, error) {
	privBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}

	privateKey, err := getECDSAPrivateKeyFromBytes(privBytes)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PublicKey:  privateKey.Public(),
		PrivateKey: privateKey,
	}, nil
}

func GenerateKeyPair() (*KeyPair, error) {
	return generateECDSAKeyPair()
}
