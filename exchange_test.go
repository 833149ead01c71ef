// exchange_test.go: Test cases for shared-secret derivation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	crypto "github.com/agilira/hecate"
)

func TestDeriveSharedSecret_Symmetry(t *testing.T) {
	for _, keyType := range []crypto.AlgorithmID{crypto.KeyTypeX25519, crypto.KeyTypeEC, crypto.KeyTypeX448} {
		t.Run(string(keyType), func(t *testing.T) {
			alice, err := crypto.GenerateKeyPair(keyType, nil, nil)
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}
			bob, err := crypto.GenerateKeyPair(keyType, nil, nil)
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}

			alicePub, err := alice.PublicOnly()
			if err != nil {
				t.Fatalf("PublicOnly failed: %v", err)
			}
			bobPub, err := bob.PublicOnly()
			if err != nil {
				t.Fatalf("PublicOnly failed: %v", err)
			}

			s1, err := crypto.DeriveSharedSecret(alice, bobPub)
			if err != nil {
				t.Fatalf("DeriveSharedSecret failed: %v", err)
			}
			s2, err := crypto.DeriveSharedSecret(bob, alicePub)
			if err != nil {
				t.Fatalf("DeriveSharedSecret failed: %v", err)
			}
			if !bytes.Equal(s1, s2) {
				t.Error("Both sides should derive the same secret")
			}
			if len(s1) == 0 {
				t.Error("Expected non-empty shared secret")
			}
		})
	}
}

func TestDeriveSharedSecret_DistinctPeers(t *testing.T) {
	alice, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)
	bob, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)
	carol, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)

	bobPub, _ := bob.PublicOnly()
	carolPub, _ := carol.PublicOnly()

	s1, err := crypto.DeriveSharedSecret(alice, bobPub)
	if err != nil {
		t.Fatalf("DeriveSharedSecret failed: %v", err)
	}
	s2, err := crypto.DeriveSharedSecret(alice, carolPub)
	if err != nil {
		t.Fatalf("DeriveSharedSecret failed: %v", err)
	}
	if bytes.Equal(s1, s2) {
		t.Error("Secrets with different peers should differ")
	}
}

func TestDeriveSharedSecret_TypeMismatch(t *testing.T) {
	x, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)
	ec, _ := crypto.GenerateKeyPair(crypto.KeyTypeEC, nil, nil)
	ecPub, _ := ec.PublicOnly()

	if _, err := crypto.DeriveSharedSecret(x, ecPub); !errors.Is(err, crypto.ErrUnsupportedKeyType) {
		t.Errorf("Expected ErrUnsupportedKeyType for mixed key types, got %v", err)
	}
}

func TestDeriveSharedSecret_SigningKeyRejected(t *testing.T) {
	ed, _ := crypto.GenerateKeyPair(crypto.KeyTypeEd25519, nil, nil)
	edPub, _ := ed.PublicOnly()

	if _, err := crypto.DeriveSharedSecret(ed, edPub); !errors.Is(err, crypto.ErrUnsupportedKeyType) {
		t.Errorf("Expected ErrUnsupportedKeyType for signing-only key, got %v", err)
	}
}

func TestDeriveSharedSecret_WipedKey(t *testing.T) {
	alice, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)
	bob, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)
	bobPub, _ := bob.PublicOnly()

	if err := alice.Wipe(); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}
	if _, err := crypto.DeriveSharedSecret(alice, bobPub); !errors.Is(err, crypto.ErrKeyWiped) {
		t.Errorf("Expected ErrKeyWiped, got %v", err)
	}
}
