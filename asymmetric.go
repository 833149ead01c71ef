// asymmetric.go: RSA public/private encryption primitives with padding modes.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
)

// EncryptAsymmetric encrypts data for the holder of the matching private
// key (the asymmetricPublic sub-type).
//
// Parameters:
//   - data: The plaintext. Length is bounded by the modulus size and
//     padding overhead
//   - key: RSA key material carrying at least a public key
//   - padding: PaddingPKCS1 or PaddingOAEP (OAEP uses SHA-256)
//
// Returns ErrUnsupportedKeyType for non-RSA material, ErrUnknownAlgorithm
// for an unregistered padding mode, and ErrOperationFailed when the
// provider primitive rejects the input (e.g. data too long).
func EncryptAsymmetric(data []byte, key *KeyMaterial, padding AlgorithmID) ([]byte, error) {
	if err := key.ensureUsable("asymmetricPublic encrypt"); err != nil {
		return nil, err
	}
	pub, ok := key.pub.(*rsa.PublicKey)
	if !ok {
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "asymmetricPublic encrypt: key type %q is not rsa", key.keyType)
	}

	var out []byte
	var err error
	switch padding {
	case PaddingPKCS1:
		out, err = rsa.EncryptPKCS1v15(rand.Reader, pub, data)
	case PaddingOAEP:
		out, err = rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, data, nil)
	default:
		return nil, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "asymmetricPublic encrypt: unknown padding %q", padding)
	}
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "asymmetricPublic encrypt: provider primitive failed")
	}
	if len(out) == 0 {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "asymmetricPublic encrypt: provider returned empty result")
	}
	return out, nil
}

// DecryptAsymmetric decrypts data with the private key (the
// asymmetricPrivate sub-type). The padding mode must match the one used at
// encryption time.
func DecryptAsymmetric(data []byte, key *KeyMaterial, padding AlgorithmID) ([]byte, error) {
	if err := key.ensureUsable("asymmetricPrivate decrypt"); err != nil {
		return nil, err
	}
	priv, ok := key.priv.(*rsa.PrivateKey)
	if !ok {
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "asymmetricPrivate decrypt: key type %q is not rsa or holds no private key", key.keyType)
	}

	var out []byte
	var err error
	switch padding {
	case PaddingPKCS1:
		out, err = rsa.DecryptPKCS1v15(rand.Reader, priv, data)
	case PaddingOAEP:
		out, err = rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, data, nil)
	default:
		return nil, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "asymmetricPrivate decrypt: unknown padding %q", padding)
	}
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "asymmetricPrivate decrypt: provider primitive failed")
	}
	return out, nil
}
