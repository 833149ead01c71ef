// asymmetric_test.go: Test cases for RSA public-key encryption.
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

func TestAsymmetric_RoundTripBothPaddings(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 2048}, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	plaintext := []byte("asymmetric round trip")

	for _, padding := range []crypto.AlgorithmID{crypto.PaddingPKCS1, crypto.PaddingOAEP} {
		t.Run(string(padding), func(t *testing.T) {
			ciphertext, err := crypto.EncryptAsymmetric(plaintext, key, padding)
			if err != nil {
				t.Fatalf("EncryptAsymmetric failed: %v", err)
			}
			if bytes.Equal(ciphertext, plaintext) {
				t.Error("Ciphertext should differ from plaintext")
			}

			decrypted, err := crypto.DecryptAsymmetric(ciphertext, key, padding)
			if err != nil {
				t.Fatalf("DecryptAsymmetric failed: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Errorf("Round trip mismatch: got %q", decrypted)
			}
		})
	}
}

func TestAsymmetric_PublicOnlyEncrypts(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 2048}, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	pub, err := key.PublicOnly()
	if err != nil {
		t.Fatalf("PublicOnly failed: %v", err)
	}

	ciphertext, err := crypto.EncryptAsymmetric([]byte("for your eyes only"), pub, crypto.PaddingOAEP)
	if err != nil {
		t.Fatalf("Encrypt with public-only key failed: %v", err)
	}

	// Decryption requires the private half.
	if _, err := crypto.DecryptAsymmetric(ciphertext, pub, crypto.PaddingOAEP); err == nil {
		t.Error("Expected error decrypting with public-only key")
	}
	decrypted, err := crypto.DecryptAsymmetric(ciphertext, key, crypto.PaddingOAEP)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(decrypted) != "for your eyes only" {
		t.Errorf("Round trip mismatch: got %q", decrypted)
	}
}

func TestAsymmetric_PaddingMismatch(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 2048}, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	ciphertext, err := crypto.EncryptAsymmetric([]byte("padding"), key, crypto.PaddingOAEP)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := crypto.DecryptAsymmetric(ciphertext, key, crypto.PaddingPKCS1); !errors.Is(err, crypto.ErrOperationFailed) {
		t.Errorf("Expected ErrOperationFailed for padding mismatch, got %v", err)
	}
}

func TestAsymmetric_NonRSAKey(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, nil, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if _, err := crypto.EncryptAsymmetric([]byte("x"), key, crypto.PaddingOAEP); !errors.Is(err, crypto.ErrUnsupportedKeyType) {
		t.Errorf("Expected ErrUnsupportedKeyType for EC key, got %v", err)
	}
	if _, err := crypto.DecryptAsymmetric([]byte("x"), key, crypto.PaddingOAEP); !errors.Is(err, crypto.ErrUnsupportedKeyType) {
		t.Errorf("Expected ErrUnsupportedKeyType for EC key, got %v", err)
	}
}

func TestAsymmetric_UnknownPadding(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 2048}, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if _, err := crypto.EncryptAsymmetric([]byte("x"), key, crypto.AlgorithmID("pss")); !errors.Is(err, crypto.ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm for unknown padding, got %v", err)
	}
}
