package ledger

import (
	"strings"
	"testing"
)

const testSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func TestSigner_SignAndVerify(t *testing.T) {
	signer, err := NewSigner(testSeed)
	if err != nil {
		t.Fatalf("NewSigner failed: %v", err)
	}

	msg := []byte("create_market|addr1|TKN-PERP")
	sig := signer.Sign(msg)

	if !signer.Verify(msg, sig) {
		t.Error("Signature did not verify")
	}
	if signer.Verify([]byte("tampered"), sig) {
		t.Error("Signature verified for wrong message")
	}
}

func TestSigner_Address(t *testing.T) {
	signer, err := NewSigner(testSeed)
	if err != nil {
		t.Fatalf("NewSigner failed: %v", err)
	}

	addr := signer.Address()
	if addr == "" {
		t.Fatal("Empty address")
	}
	// Base58 excludes 0, O, I and l.
	for _, c := range []string{"0", "O", "I", "l"} {
		if strings.Contains(addr, c) {
			t.Errorf("Address contains non-base58 character %q: %s", c, addr)
		}
	}

	// Deterministic for the same seed.
	signer2, err := NewSigner(testSeed)
	if err != nil {
		t.Fatal(err)
	}
	if signer2.Address() != addr {
		t.Error("Address not deterministic for same seed")
	}
}

func TestNewSigner_InvalidSeed(t *testing.T) {
	if _, err := NewSigner("not hex"); err == nil {
		t.Error("Expected error for non-hex seed")
	}
	if _, err := NewSigner("abcd"); err == nil {
		t.Error("Expected error for short seed")
	}
}
