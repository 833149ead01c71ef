// ops_test.go: Test cases for the operation facade.
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

func TestFacade_SymmetricRoundTrip(t *testing.T) {
	f := crypto.NewFacade(nil)
	key := testKey(32)

	enc, err := f.Encryptor("symmetric")
	if err != nil {
		t.Fatalf("Encryptor failed: %v", err)
	}
	params, err := crypto.NewCipherParams(crypto.CipherAES256GCM, key, nil)
	if err != nil {
		t.Fatalf("NewCipherParams failed: %v", err)
	}
	ciphertext, err := enc.Encrypt([]byte("facade payload"), crypto.OperationParams{Cipher: params})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	dec, err := f.Decryptor("symmetric")
	if err != nil {
		t.Fatalf("Decryptor failed: %v", err)
	}
	decParams, err := crypto.NewCipherParams(crypto.CipherAES256GCM, key, params.IV)
	if err != nil {
		t.Fatalf("NewCipherParams failed: %v", err)
	}
	decrypted, err := dec.Decrypt(ciphertext, crypto.OperationParams{Cipher: decParams})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, []byte("facade payload")) {
		t.Errorf("Round trip mismatch: got %q", decrypted)
	}
}

func TestFacade_AsymmetricRoundTrip(t *testing.T) {
	f := crypto.NewFacade(nil)
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 2048}, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	enc, err := f.Encryptor("asymmetricPublic")
	if err != nil {
		t.Fatalf("Encryptor failed: %v", err)
	}
	// Padding defaults to OAEP when unset.
	ciphertext, err := enc.Encrypt([]byte("facade rsa"), crypto.OperationParams{Key: key})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	dec, err := f.Decryptor("asymmetricPrivate")
	if err != nil {
		t.Fatalf("Decryptor failed: %v", err)
	}
	decrypted, err := dec.Decrypt(ciphertext, crypto.OperationParams{Key: key})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(decrypted) != "facade rsa" {
		t.Errorf("Round trip mismatch: got %q", decrypted)
	}
}

func TestFacade_UnsupportedDirections(t *testing.T) {
	f := crypto.NewFacade(nil)
	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, &crypto.KeyGenParams{Bits: 2048}, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	// Raw private-key encryption: signing is the supported path.
	enc, err := f.Encryptor("asymmetricPrivate")
	if err != nil {
		t.Fatalf("Encryptor failed: %v", err)
	}
	if _, err := enc.Encrypt([]byte("x"), crypto.OperationParams{Key: key}); !errors.Is(err, crypto.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation for private encrypt, got %v", err)
	}

	// Raw public-key decryption: verification is the supported path.
	dec, err := f.Decryptor("asymmetricPublic")
	if err != nil {
		t.Fatalf("Decryptor failed: %v", err)
	}
	if _, err := dec.Decrypt([]byte("x"), crypto.OperationParams{Key: key}); !errors.Is(err, crypto.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation for public decrypt, got %v", err)
	}
}

func TestFacade_UnknownSubType(t *testing.T) {
	f := crypto.NewFacade(nil)

	if _, err := f.Encryptor("quantum"); !errors.Is(err, crypto.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation for unknown encryptor sub-type, got %v", err)
	}
	if _, err := f.Decryptor("quantum"); !errors.Is(err, crypto.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation for unknown decryptor sub-type, got %v", err)
	}
	if _, err := f.RandomGenerator("quantum"); !errors.Is(err, crypto.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation for unknown random sub-type, got %v", err)
	}
}

func TestFacade_RandomSubTypes(t *testing.T) {
	f := crypto.NewFacade(nil)

	cases := []struct {
		subType     string
		defaultSize int
	}{
		{"general", crypto.DefaultRandomLength},
		{"passwordSalt", crypto.DefaultSaltLength},
		{"keyMaterial", crypto.DefaultKeyMaterialLength},
	}
	for _, tc := range cases {
		gen, err := f.RandomGenerator(tc.subType)
		if err != nil {
			t.Fatalf("RandomGenerator(%s) failed: %v", tc.subType, err)
		}
		b, err := gen.Generate(0)
		if err != nil {
			t.Fatalf("Generate failed for %s: %v", tc.subType, err)
		}
		if len(b) != tc.defaultSize {
			t.Errorf("%s default length = %d, want %d", tc.subType, len(b), tc.defaultSize)
		}

		b, err = gen.Generate(20)
		if err != nil {
			t.Fatalf("Generate(20) failed for %s: %v", tc.subType, err)
		}
		if len(b) != 20 {
			t.Errorf("%s explicit length = %d, want 20", tc.subType, len(b))
		}
	}

	pseudo, err := f.RandomGenerator("pseudoRandom")
	if err != nil {
		t.Fatalf("RandomGenerator(pseudoRandom) failed: %v", err)
	}
	result, err := pseudo.GeneratePseudo(16)
	if err != nil {
		t.Fatalf("GeneratePseudo failed: %v", err)
	}
	if len(result.Bytes) != 16 || !result.Strong {
		t.Errorf("Unexpected pseudo-random result: %d bytes, strong=%v", len(result.Bytes), result.Strong)
	}
}

func TestFacade_IVGenerator(t *testing.T) {
	f := crypto.NewFacade(nil)

	gen, err := f.IVGenerator(crypto.CipherAES256CBC)
	if err != nil {
		t.Fatalf("IVGenerator failed: %v", err)
	}
	iv, err := gen()
	if err != nil {
		t.Fatalf("IV generation failed: %v", err)
	}
	if len(iv) != 16 {
		t.Errorf("Expected 16-byte CBC IV, got %d", len(iv))
	}

	if _, err := f.IVGenerator(crypto.AlgorithmID("rc4")); !errors.Is(err, crypto.ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm for unknown cipher, got %v", err)
	}
}

func TestFacade_Hasher(t *testing.T) {
	f := crypto.NewFacade(nil)
	h := f.Hasher()

	sum, err := h.Digest([]byte("abc"), crypto.DigestSHA256)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if len(sum) != 32 {
		t.Errorf("Expected 32-byte digest, got %d", len(sum))
	}

	key, err := h.PBKDF2([]byte("password"), []byte("salt"), 1000, 32, crypto.DigestSHA256)
	if err != nil {
		t.Fatalf("PBKDF2 failed: %v", err)
	}
	if len(key) != 32 {
		t.Errorf("Expected 32-byte derived key, got %d", len(key))
	}

	if len(h.ListSupportedDigests()) == 0 {
		t.Error("Expected non-empty digest list")
	}
}

func TestFacade_Converter(t *testing.T) {
	f := crypto.NewFacade(nil)
	c := f.Converter()

	data := []byte{0xca, 0xfe}
	decoded, err := c.Base64ToBin(c.BinToBase64(data))
	if err != nil {
		t.Fatalf("Base64 round trip failed: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("Base64 round trip mismatch")
	}

	decoded, err = c.HexToBin(c.BinToHex(data))
	if err != nil {
		t.Fatalf("Hex round trip failed: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("Hex round trip mismatch")
	}
}
