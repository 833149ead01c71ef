// random.go: Secure random generation sub-types backed by the platform CSPRNG.
//
// Every path in this file reads from crypto/rand. There is no non-CSPRNG
// fallback: if the platform source fails, the operation fails.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/rand"
	"io"
)

// RandomResult carries pseudo-random output together with its strength
// attestation. Strong is a first-class field rather than an out-parameter
// so callers cannot forget to check it: when false the bytes are
// advisory-weak and must be rejected for security-sensitive uses.
type RandomResult struct {
	Bytes  []byte
	Strong bool
}

// RandomBytes generates length cryptographically secure random bytes.
// A non-positive length falls back to the policy's general default.
func RandomBytes(length int, policy *Policy) ([]byte, error) {
	p := policy.orDefault()
	if length <= 0 {
		length = p.RandomLength
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "random general: csprng read failed")
	}
	return buf, nil
}

// RandomSalt generates a password salt of the policy's salt length
// (overridable via length > 0).
func RandomSalt(length int, policy *Policy) ([]byte, error) {
	p := policy.orDefault()
	if length <= 0 {
		length = p.SaltLength
	}
	salt := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "random passwordSalt: csprng read failed")
	}
	return salt, nil
}

// RandomKeyMaterial generates symmetric key material of the policy's key
// length (overridable via length > 0).
func RandomKeyMaterial(length int, policy *Policy) ([]byte, error) {
	p := policy.orDefault()
	if length <= 0 {
		length = p.KeyMaterialLength
	}
	key := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "random keyMaterial: csprng read failed")
	}
	return key, nil
}

// RandomIVFor generates an IV sized for the named cipher's registry entry.
func RandomIVFor(cipherID AlgorithmID) ([]byte, error) {
	info, err := CipherSpec(cipherID)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, info.IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "random ivFor: csprng read failed for cipher %q", cipherID)
	}
	return iv, nil
}

// PseudoRandom generates length random bytes and reports their
// cryptographic strength. With crypto/rand as the only source the result is
// always strong; the field exists so the attestation travels with the bytes
// through caller code.
func PseudoRandom(length int, policy *Policy) (RandomResult, error) {
	bytes, err := RandomBytes(length, policy)
	if err != nil {
		return RandomResult{}, err
	}
	return RandomResult{Bytes: bytes, Strong: true}, nil
}

// GenerateKey generates a key of DefaultKeyMaterialLength bytes, suitable
// for the AES-256-GCM convenience wrappers.
//
// Example:
//
//	key, err := crypto.GenerateKey()
//	if err != nil {
//		log.Fatal(err)
//	}
func GenerateKey() ([]byte, error) {
	return RandomKeyMaterial(DefaultKeyMaterialLength, nil)
}

// GenerateNonce generates a random nonce of the given size. Size must be
// positive; there is no default nonce length because the right size is a
// property of the cipher (see RandomIVFor).
func GenerateNonce(size int) ([]byte, error) {
	if size <= 0 {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "generateNonce: parameter size must be positive")
	}
	nonce := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "generateNonce: csprng read failed")
	}
	return nonce, nil
}
