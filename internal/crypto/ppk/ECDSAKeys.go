package ppk

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"fmt"
)

const CompressedPublicKeySize = 33

type ECDSAPublicKey struct {
	publicKey *ecdsa.PublicKey
}

type ECDSAPrivateKey struct {
	privateKey *ecdsa.PrivateKey
}

func (ecdsaPublicKey *ECDSAPublicKey) VerifySignature(signature []byte, hash []byte) bool {
	return ecdsa.VerifyASN1(ecdsaPublicKey.publicKey, hash, signature)
}

func (ecdsaPublicKey *ECDSAPublicKey) AsBytes() []byte {
	publicKey := ecdsaPublicKey.publicKey
	return elliptic.MarshalCompressed(publicKey.Curve, publicKey.X, publicKey.Y)
}

func (ecdsaPrivateKey *ECDSAPrivateKey) AsBytes() ([]byte, error) {
	return x509.MarshalECPrivateKey(ecdsaPrivateKey.privateKey)
}

func (ecdsaPrivateKey *ECDSAPrivateKey) Public() *ECDSAPublicKey {
	return &ECDSAPublicKey{publicKey: &ecdsaPrivateKey.privateKey.PublicKey}
}

func (ecdsaPrivateKey *ECDSAPrivateKey) CreateSignature(hash []byte) ([]byte, error) {
	signature, err := ecdsa.SignASN1(rand.Reader, ecdsaPrivateKey.privateKey, hash)

	if err != nil {
		return nil, err
	}

	return signature, nil
}

func getECDSAPublicKeyFromBytes(bytes []byte) (*ECDSAPublicKey, error) {
	if len(bytes) != CompressedPublicKeySize {
		return nil, fmt.Errorf("invalid compressed key length: %d", len(bytes))
	}

	curve := elliptic.P256()

	x, y := elliptic.UnmarshalCompressed(curve, bytes)
	if x == nil || y == nil {
		return nil, fmt.Errorf("invalid compressed public key")
	}

	pubKey := &ecdsa.PublicKey{
		Curve: curve,
		X:     x,
		Y:     y,
	}

	return &ECDSAPublicKey{publicKey: pubKey}, nil
}

func getECDSAPrivateKeyFromBytes(bytes []byte) (*ECDSAPrivateKey, error) {
	privKey, err := x509.ParseECPrivateKey(bytes)
	if err != nil {
		return nil, err
	}

	return &ECDSAPrivateKey{privateKey: privKey}, nil
}

func generateECDSAKeyPair() (*KeyPair, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	keyPair := &KeyPair{
		PublicKey: &ECDSAPublicKey{
			publicKey: &privateKey.PublicKey,
		},
		PrivateKey: &ECDSAPrivateKey{
			privateKey: privateKey,
		},
	}

	return keyPair, nil
}
