package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Signer holds the ed25519 keypair used to authorize ledger submissions.
type Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewSigner derives a keypair from a hex-encoded 32-byte seed.
func NewSigner(seedHex string) (*Signer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode signer seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signer seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	if !isOnCurve(pub) {
		return nil, fmt.Errorf("public key is not a valid curve point")
	}

	return &Signer{priv: priv, pub: pub}, nil
}

// Address returns the base58-encoded public key.
func (s *Signer) Address() string {
	return base58.Encode(s.pub)
}

// Sign signs a message with the private key.
func (s *Signer) Sign(message []byte) []byte {
	return ed25519.Sign(s.priv, message)
}

// Verify checks a signature against the signer's public key.
func (s *Signer) Verify(message, sig []byte) bool {
	return ed25519.Verify(s.pub, message, sig)
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
