// sign.go: Detached digital signatures and verification.
//
// Verification returns false for a mismatched signature - an expected,
// non-exceptional outcome. Errors are reserved for malformed input
// (unknown digest, wiped key, wrong key type). This is the one place the
// library communicates a negative result without an error.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"

	"github.com/cloudflare/circl/sign/ed448"
)

// SignatureBlock pairs signature bytes with the digest algorithm that
// produced them. Verification is a pure function of (data, block, public
// key) and never mutates its inputs.
type SignatureBlock struct {
	// Algorithm is the digest used for RSA/ECDSA signatures, or the key
	// type identifier for the EdDSA family (which hashes internally).
	Algorithm AlgorithmID

	// Bytes is the detached signature.
	Bytes []byte
}

// weakDigest rejects broken digests for signature use. They stay in the
// registry for legacy fingerprints only.
func weakDigest(id AlgorithmID) bool {
	return id == DigestMD5 || id == DigestSHA1
}

// Sign produces a detached signature over data.
//
// Parameters:
//   - data: The message. It is digested internally; pass the full message,
//     not a precomputed hash
//   - key: Private key material (rsa, ec, ed25519 or ed448)
//   - algorithm: Digest for rsa/ec ("" uses the policy default); ignored
//     for the EdDSA family
//
// RSA uses PKCS#1 v1.5, EC uses ASN.1 ECDSA. MD5 and SHA-1 are rejected.
//
// Example:
//
//	sig, err := crypto.Sign(data, key, crypto.DigestSHA256, nil)
func Sign(data []byte, key *KeyMaterial, algorithm AlgorithmID, policy *Policy) (*SignatureBlock, error) {
	if err := key.ensureUsable("sign"); err != nil {
		return nil, err
	}
	p := policy.orDefault()
	if algorithm == "" {
		algorithm = p.SignatureDigest
	}

	switch priv := key.priv.(type) {
	case *rsa.PrivateKey:
		if weakDigest(algorithm) {
			return nil, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "sign: digest %q is not acceptable for signatures", algorithm)
		}
		info, err := digestByID(algorithm)
		if err != nil {
			return nil, err
		}
		sum, _ := Digest(data, algorithm)
		sig, err := rsa.SignPKCS1v15(rand.Reader, priv, info.hash, sum)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "sign: rsa signing failed")
		}
		return &SignatureBlock{Algorithm: algorithm, Bytes: sig}, nil

	case *ecdsa.PrivateKey:
		if weakDigest(algorithm) {
			return nil, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "sign: digest %q is not acceptable for signatures", algorithm)
		}
		if _, err := digestByID(algorithm); err != nil {
			return nil, err
		}
		sum, _ := Digest(data, algorithm)
		sig, err := ecdsa.SignASN1(rand.Reader, priv, sum)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "sign: ecdsa signing failed")
		}
		return &SignatureBlock{Algorithm: algorithm, Bytes: sig}, nil

	case ed25519.PrivateKey:
		return &SignatureBlock{Algorithm: KeyTypeEd25519, Bytes: ed25519.Sign(priv, data)}, nil

	case ed448.PrivateKey:
		return &SignatureBlock{Algorithm: KeyTypeEd448, Bytes: ed448.Sign(priv, data, "")}, nil

	default:
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "sign: key type %q cannot sign", key.keyType)
	}
}

// Verify checks a detached signature against data and a public key.
//
// Returns (false, nil) for a mismatched signature and a non-nil error only
// for malformed input: unknown digest, wiped key, or a key type that cannot
// verify the block.
//
// Example:
//
//	ok, err := crypto.Verify(data, sig, pubKey)
//	if err != nil {
//		log.Fatal(err) // malformed input, caller defect
//	}
//	if !ok {
//		// signature mismatch, expected negative outcome
//	}
func Verify(data []byte, block *SignatureBlock, key *KeyMaterial) (bool, error) {
	if block == nil || len(block.Bytes) == 0 {
		return false, failf(ErrOperationFailed, ErrCodeOperationFailed, "verify: parameter signature is required")
	}
	if err := key.ensureUsable("verify"); err != nil {
		return false, err
	}

	switch pub := key.pub.(type) {
	case *rsa.PublicKey:
		info, err := digestByID(block.Algorithm)
		if err != nil {
			return false, err
		}
		sum, _ := Digest(data, block.Algorithm)
		if err := rsa.VerifyPKCS1v15(pub, info.hash, sum, block.Bytes); err != nil {
			return false, nil
		}
		return true, nil

	case *ecdsa.PublicKey:
		if _, err := digestByID(block.Algorithm); err != nil {
			return false, err
		}
		sum, _ := Digest(data, block.Algorithm)
		return ecdsa.VerifyASN1(pub, sum, block.Bytes), nil

	case ed25519.PublicKey:
		return ed25519.Verify(pub, data, block.Bytes), nil

	case ed448.PublicKey:
		return ed448.Verify(pub, data, block.Bytes, ""), nil

	default:
		return false, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "verify: key type %q cannot verify", key.keyType)
	}
}
