// policy.go: Security policy object supplying overridable defaults.
//
// Every security-relevant default in this library (key sizes, iteration
// counts, default digests, random lengths) lives here as a named value.
// The surrounding application constructs a Policy and injects it; nothing
// in the primitive layer hardcodes a default the caller cannot override.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Named policy defaults. RSA and PBKDF2 values follow current NIST/OWASP
// guidance rather than inherited magic numbers.
const (
	// DefaultRSABits is the default RSA modulus size in bits.
	DefaultRSABits = 3072

	// MinRSABits is the enforced floor for RSA key generation. Requests
	// below this fail with ErrUnsupportedKeyType.
	MinRSABits = 2048

	// DefaultECCurve is the default named curve for EC key generation.
	DefaultECCurve = "P-256"

	// DefaultPBKDF2Iterations is the default PBKDF2-SHA256 iteration count
	// (OWASP 2023 recommendation).
	DefaultPBKDF2Iterations = 600000

	// DefaultPBKDF2KeyLength is the default PBKDF2 output length in bytes.
	DefaultPBKDF2KeyLength = 32

	// DefaultRandomLength is the default byte count for general-purpose
	// random generation.
	DefaultRandomLength = 32

	// DefaultSaltLength is the default byte count for password salts.
	DefaultSaltLength = 16

	// DefaultKeyMaterialLength is the default byte count for symmetric key
	// material generation.
	DefaultKeyMaterialLength = 32
)

// Policy collects the overridable security defaults consumed by the
// operation handles. A nil Policy anywhere in the API means DefaultPolicy().
//
// Policies are plain values: construct once, share read-only.
type Policy struct {
	// RSABits is the modulus size used when RSA generation parameters omit one.
	RSABits int

	// RSAMinBits is the enforced generation floor. Lowering it below
	// MinRSABits has no effect.
	RSAMinBits int

	// ECCurve is the named curve used when EC generation parameters omit one.
	// Supported: P-256, P-384, P-521.
	ECCurve string

	// PBKDF2Iterations is the iteration count used when a PBKDF2 call omits one.
	PBKDF2Iterations int

	// PBKDF2KeyLength is the output length used when a PBKDF2 call omits one.
	PBKDF2KeyLength int

	// PBKDF2Digest is the PRF digest for PBKDF2.
	PBKDF2Digest AlgorithmID

	// SignatureDigest is the digest used for RSA and ECDSA signatures when
	// the caller does not name one.
	SignatureDigest AlgorithmID

	// FingerprintDigest is the digest used for key and certificate
	// fingerprints when the caller does not name one.
	FingerprintDigest AlgorithmID

	// RandomLength, SaltLength and KeyMaterialLength are the default output
	// sizes of the corresponding random generator sub-types.
	RandomLength      int
	SaltLength        int
	KeyMaterialLength int

	// KDF holds Argon2id parameters for password-based key derivation.
	// Nil means the library defaults (DefaultTime/DefaultMemory/DefaultThreads).
	KDF *KDFParams
}

// DefaultPolicy returns a Policy populated with the library's named defaults.
func DefaultPolicy() *Policy {
	return &Policy{
		RSABits:           DefaultRSABits,
		RSAMinBits:        MinRSABits,
		ECCurve:           DefaultECCurve,
		PBKDF2Iterations:  DefaultPBKDF2Iterations,
		PBKDF2KeyLength:   DefaultPBKDF2KeyLength,
		PBKDF2Digest:      DigestSHA256,
		SignatureDigest:   DigestSHA256,
		FingerprintDigest: DigestSHA256,
		RandomLength:      DefaultRandomLength,
		SaltLength:        DefaultSaltLength,
		KeyMaterialLength: DefaultKeyMaterialLength,
	}
}

// PolicyFromEnv builds a Policy from HECATE_* environment variables,
// falling back to DefaultPolicy values for anything unset. A .env file in
// the working directory is honored when present (godotenv); a missing file
// is not an error.
//
// Recognized variables:
//
//	HECATE_RSA_BITS, HECATE_EC_CURVE, HECATE_PBKDF2_ITERATIONS,
//	HECATE_PBKDF2_KEY_LENGTH, HECATE_SIGNATURE_DIGEST,
//	HECATE_FINGERPRINT_DIGEST, HECATE_RANDOM_LENGTH, HECATE_SALT_LENGTH
//
// Digest variables must name a registered digest; unknown names fail with
// ErrUnknownAlgorithm rather than silently keeping the default.
func PolicyFromEnv() (*Policy, error) {
	_ = godotenv.Load()

	p := DefaultPolicy()

	if v := os.Getenv("HECATE_RSA_BITS"); v != "" {
		bits, err := strconv.Atoi(v)
		if err != nil {
			return nil, wrapf(err, ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "policyFromEnv: HECATE_RSA_BITS is not an integer")
		}
		p.RSABits = bits
	}
	if v := os.Getenv("HECATE_EC_CURVE"); v != "" {
		p.ECCurve = v
	}
	if v := os.Getenv("HECATE_PBKDF2_ITERATIONS"); v != "" {
		iters, err := strconv.Atoi(v)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "policyFromEnv: HECATE_PBKDF2_ITERATIONS is not an integer")
		}
		p.PBKDF2Iterations = iters
	}
	if v := os.Getenv("HECATE_PBKDF2_KEY_LENGTH"); v != "" {
		keyLen, err := strconv.Atoi(v)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "policyFromEnv: HECATE_PBKDF2_KEY_LENGTH is not an integer")
		}
		p.PBKDF2KeyLength = keyLen
	}
	if v := os.Getenv("HECATE_SIGNATURE_DIGEST"); v != "" {
		id, err := Resolve(CategoryDigests, v)
		if err != nil {
			return nil, err
		}
		p.SignatureDigest = id
	}
	if v := os.Getenv("HECATE_FINGERPRINT_DIGEST"); v != "" {
		id, err := Resolve(CategoryDigests, v)
		if err != nil {
			return nil, err
		}
		p.FingerprintDigest = id
	}
	if v := os.Getenv("HECATE_RANDOM_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "policyFromEnv: HECATE_RANDOM_LENGTH is not an integer")
		}
		p.RandomLength = n
	}
	if v := os.Getenv("HECATE_SALT_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "policyFromEnv: HECATE_SALT_LENGTH is not an integer")
		}
		p.SaltLength = n
	}

	return p, nil
}

// effectiveRSABits applies the generation floor.
func (p *Policy) effectiveRSABits(requested int) int {
	bits := requested
	if bits == 0 {
		bits = p.RSABits
	}
	return bits
}

// orDefault returns p when non-nil, otherwise the library default policy.
func (p *Policy) orDefault() *Policy {
	if p != nil {
		return p
	}
	return DefaultPolicy()
}
