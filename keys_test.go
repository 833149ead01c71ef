// keys_test.go: Test cases for key lifecycle management.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	crypto "github.com/agilira/hecate"
)

func TestGenerateKeyPair_AllTypes(t *testing.T) {
	types := []crypto.AlgorithmID{
		crypto.KeyTypeRSA,
		crypto.KeyTypeEC,
		crypto.KeyTypeEd25519,
		crypto.KeyTypeEd448,
		crypto.KeyTypeX25519,
		crypto.KeyTypeX448,
	}
	for _, keyType := range types {
		t.Run(string(keyType), func(t *testing.T) {
			params := &crypto.KeyGenParams{}
			if keyType == crypto.KeyTypeRSA {
				params.Bits = 2048 // keep test runtime reasonable
			}
			key, err := crypto.GenerateKeyPair(keyType, params, nil)
			if err != nil {
				t.Fatalf("GenerateKeyPair(%s) failed: %v", keyType, err)
			}
			if key.Type() != keyType {
				t.Errorf("Expected type %q, got %q", keyType, key.Type())
			}
			if key.State() != crypto.KeyStateGenerated {
				t.Errorf("Expected state %q, got %q", crypto.KeyStateGenerated, key.State())
			}
		})
	}
}

func TestGenerateKeyPair_RSABelowFloor(t *testing.T) {
	_, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 1024}, nil)
	if !errors.Is(err, crypto.ErrUnsupportedKeyType) {
		t.Errorf("Expected ErrUnsupportedKeyType for 1024-bit RSA, got %v", err)
	}
}

func TestGenerateKeyPair_UnknownType(t *testing.T) {
	_, err := crypto.GenerateKeyPair(crypto.AlgorithmID("dsa"), nil, nil)
	if !errors.Is(err, crypto.ErrUnsupportedKeyType) {
		t.Errorf("Expected ErrUnsupportedKeyType for dsa, got %v", err)
	}
}

func TestGenerateKeyPair_ECCurves(t *testing.T) {
	for _, curve := range []string{"P-256", "P-384", "P-521"} {
		key, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, &crypto.KeyGenParams{Curve: curve}, nil)
		if err != nil {
			t.Errorf("GenerateKeyPair(ec, %s) failed: %v", curve, err)
			continue
		}
		if key.Type() != crypto.KeyTypeEC {
			t.Errorf("Expected ec key, got %q", key.Type())
		}
	}

	_, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, &crypto.KeyGenParams{Curve: "P-224"}, nil)
	if err == nil {
		t.Error("Expected error for unsupported curve P-224")
	}
}

func TestExportImportPrivateKey_Plain(t *testing.T) {
	for _, keyType := range []crypto.AlgorithmID{crypto.KeyTypeEC, crypto.KeyTypeEd25519, crypto.KeyTypeEd448, crypto.KeyTypeX25519, crypto.KeyTypeX448} {
		t.Run(string(keyType), func(t *testing.T) {
			key, err := crypto.GenerateKeyPair(keyType, nil, nil)
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}

			pemData, err := crypto.ExportPrivateKey(key, nil)
			if err != nil {
				t.Fatalf("ExportPrivateKey failed: %v", err)
			}
			if !strings.Contains(string(pemData), "PRIVATE KEY") {
				t.Errorf("Expected PEM private key block, got: %.60s", pemData)
			}
			if key.State() != crypto.KeyStateExported {
				t.Errorf("Expected state %q after export, got %q", crypto.KeyStateExported, key.State())
			}

			restored, err := crypto.ImportPrivateKey(keyType, pemData, nil)
			if err != nil {
				t.Fatalf("ImportPrivateKey failed: %v", err)
			}
			if restored.Type() != keyType {
				t.Errorf("Expected type %q after import, got %q", keyType, restored.Type())
			}
			if restored.State() != crypto.KeyStateImported {
				t.Errorf("Expected state %q, got %q", crypto.KeyStateImported, restored.State())
			}

			// Same material: fingerprints agree.
			orig, err := key.Fingerprint(crypto.DigestSHA256)
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			got, err := restored.Fingerprint(crypto.DigestSHA256)
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			if orig != got {
				t.Error("Fingerprint changed across export/import round trip")
			}
		})
	}
}

func TestExportImportPrivateKey_Passphrase(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 2048}, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	pemData, err := crypto.ExportPrivateKey(key, []byte("p1"))
	if err != nil {
		t.Fatalf("ExportPrivateKey with passphrase failed: %v", err)
	}
	if !strings.Contains(string(pemData), "ENCRYPTED") && !strings.Contains(string(pemData), "DEK-Info") {
		t.Errorf("Expected encrypted PEM markers, got: %.120s", pemData)
	}

	// Correct passphrase restores the key.
	restored, err := crypto.ImportPrivateKey(crypto.KeyTypeRSA, pemData, []byte("p1"))
	if err != nil {
		t.Fatalf("ImportPrivateKey with correct passphrase failed: %v", err)
	}
	if restored.Type() != crypto.KeyTypeRSA {
		t.Errorf("Expected rsa key, got %q", restored.Type())
	}

	// Wrong passphrase fails with the import sentinel.
	_, err = crypto.ImportPrivateKey(crypto.KeyTypeRSA, pemData, []byte("wrong"))
	if !errors.Is(err, crypto.ErrKeyImport) {
		t.Errorf("Expected ErrKeyImport for wrong passphrase, got %v", err)
	}
}

func TestImportPrivateKey_TypeMismatch(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, nil, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	pemData, err := crypto.ExportPrivateKey(key, nil)
	if err != nil {
		t.Fatalf("ExportPrivateKey failed: %v", err)
	}

	_, err = crypto.ImportPrivateKey(crypto.KeyTypeRSA, pemData, nil)
	if !errors.Is(err, crypto.ErrKeyImport) {
		t.Errorf("Expected ErrKeyImport for type mismatch, got %v", err)
	}
}

func TestImportPrivateKey_Garbage(t *testing.T) {
	_, err := crypto.ImportPrivateKey(crypto.KeyTypeRSA, []byte("not a pem"), nil)
	if !errors.Is(err, crypto.ErrKeyImport) {
		t.Errorf("Expected ErrKeyImport for garbage input, got %v", err)
	}
}

func TestExportImportPublicKey(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519, nil, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	pemData, err := crypto.ExportPublicKey(key)
	if err != nil {
		t.Fatalf("ExportPublicKey failed: %v", err)
	}
	if !strings.Contains(string(pemData), "PUBLIC KEY") {
		t.Errorf("Expected PEM public key block, got: %.60s", pemData)
	}

	pub, err := crypto.ImportPublicKey(crypto.KeyTypeEd25519, pemData)
	if err != nil {
		t.Fatalf("ImportPublicKey failed: %v", err)
	}
	if pub.Type() != crypto.KeyTypeEd25519 {
		t.Errorf("Expected ed25519 key, got %q", pub.Type())
	}
}

func TestPublicOnly(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, nil, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	pub, err := key.PublicOnly()
	if err != nil {
		t.Fatalf("PublicOnly failed: %v", err)
	}
	if pub.Type() != crypto.KeyTypeEC {
		t.Errorf("Expected ec public key, got %q", pub.Type())
	}

	// A public-only handle cannot export private material.
	if _, err := crypto.ExportPrivateKey(pub, nil); !errors.Is(err, crypto.ErrKeyExport) {
		t.Errorf("Expected ErrKeyExport exporting private from public-only key, got %v", err)
	}
}

func TestKeyMaterial_Wipe(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519, nil, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if err := key.Wipe(); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}
	if !key.Wiped() {
		t.Error("Expected Wiped() true after Wipe")
	}
	if key.State() != crypto.KeyStateWiped {
		t.Errorf("Expected state %q, got %q", crypto.KeyStateWiped, key.State())
	}

	// Every subsequent operation fails with the wipe sentinel.
	if _, err := crypto.ExportPrivateKey(key, nil); !errors.Is(err, crypto.ErrKeyWiped) {
		t.Errorf("Expected ErrKeyWiped on export, got %v", err)
	}
	if _, err := key.Fingerprint(crypto.DigestSHA256); !errors.Is(err, crypto.ErrKeyWiped) {
		t.Errorf("Expected ErrKeyWiped on fingerprint, got %v", err)
	}

	// Wiping twice is a no-op.
	if err := key.Wipe(); err != nil {
		t.Errorf("Second Wipe should succeed, got %v", err)
	}
}

func TestNewSymmetricKeyMaterial(t *testing.T) {
	raw := testKey(32)
	key, err := crypto.NewSymmetricKeyMaterial(raw)
	if err != nil {
		t.Fatalf("NewSymmetricKeyMaterial failed: %v", err)
	}
	got, err := key.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Error("Bytes returned different material")
	}

	if err := key.Wipe(); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}
	for _, b := range raw {
		if b != 0 {
			t.Fatal("Expected raw material to be zeroed by Wipe")
		}
	}
	if _, err := key.Bytes(); !errors.Is(err, crypto.ErrKeyWiped) {
		t.Errorf("Expected ErrKeyWiped after wipe, got %v", err)
	}

	_, err = crypto.NewSymmetricKeyMaterial(nil)
	if !errors.Is(err, crypto.ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey for empty material, got %v", err)
	}
}

func TestKeyFingerprints(t *testing.T) {
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, nil, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	fp1, err := key.Fingerprint(crypto.DigestSHA256)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	fp2, err := key.Fingerprint(crypto.DigestSHA256)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if fp1 != fp2 {
		t.Error("Fingerprint should be deterministic")
	}

	other, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, nil, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	fp3, err := other.Fingerprint(crypto.DigestSHA256)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if fp1 == fp3 {
		t.Error("Distinct keys should have distinct fingerprints")
	}

	if _, err := key.Fingerprint(crypto.AlgorithmID("crc32")); !errors.Is(err, crypto.ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm for crc32, got %v", err)
	}
}

func TestGetKeyFingerprint(t *testing.T) {
	key := testKey(32)
	fp := crypto.GetKeyFingerprint(key)
	if len(fp) != 16 {
		t.Errorf("Expected 16 hex chars, got %d (%q)", len(fp), fp)
	}
	if fp != crypto.GetKeyFingerprint(key) {
		t.Error("Fingerprint should be deterministic")
	}
	other := testKey(32)
	other[0] ^= 1
	if fp == crypto.GetKeyFingerprint(other) {
		t.Error("Distinct keys should have distinct fingerprints")
	}
}
