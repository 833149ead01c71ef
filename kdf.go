// kdf.go: Key derivation - Argon2id, PBKDF2 and HKDF.
//
// PBKDF2 defaults (iterations, key length, PRF digest) come from the
// injected Policy, never from inline magic numbers. Argon2id carries its
// own parameter struct with library defaults.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"io"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	pbkdf2 "golang.org/x/crypto/pbkdf2"
)

// Default Argon2id parameters for password-based key derivation.
const (
	// DefaultTime is the default number of iterations for Argon2id.
	DefaultTime = 3

	// DefaultMemory is the default memory usage in MB for Argon2id.
	DefaultMemory = 64

	// DefaultThreads is the default number of threads for Argon2id.
	DefaultThreads = 4
)

// KDFParams defines custom parameters for Argon2id key derivation.
// A zero field means the library's secure default.
//
// Example:
//
//	params := &crypto.KDFParams{Time: 4, Memory: 128, Threads: 2}
//	key, err := crypto.DeriveKey(password, salt, 32, params)
type KDFParams struct {
	// Time is the number of iterations for Argon2id.
	Time uint32 `json:"time,omitempty"`

	// Memory is the memory usage in MB for Argon2id.
	Memory uint32 `json:"memory,omitempty"`

	// Threads is the number of threads for Argon2id. Should not exceed
	// the number of CPU cores.
	Threads uint8 `json:"threads,omitempty"`
}

// HighSecurityKDFParams returns Argon2id parameters for maximum security
// scenarios: master key derivation or high-value secret encryption.
//
// Parameters: Time=5, Memory=128MB, Threads=4
func HighSecurityKDFParams() *KDFParams {
	return &KDFParams{Time: 5, Memory: 128, Threads: 4}
}

// FastKDFParams returns Argon2id parameters optimized for speed. Suitable
// for development and testing where the threat model allows reduced margins.
//
// Parameters: Time=1, Memory=32MB, Threads=2
func FastKDFParams() *KDFParams {
	return &KDFParams{Time: 1, Memory: 32, Threads: 2}
}

// DeriveKey derives a key from a password and salt using Argon2id.
//
// Parameters:
//   - password: Cannot be empty
//   - salt: Cannot be empty, should be random (see RandomSalt)
//   - keyLen: Desired output length in bytes, must be positive
//   - params: Custom Argon2id parameters, nil for secure defaults
//
// Example:
//
//	salt, _ := crypto.RandomSalt(0, nil)
//	key, err := crypto.DeriveKey([]byte("passphrase"), salt, 32, nil)
func DeriveKey(password, salt []byte, keyLen int, params *KDFParams) ([]byte, error) {
	if len(password) == 0 {
		return nil, goerrors.New("EMPTY_PASSWORD", "password cannot be empty")
	}
	if len(salt) == 0 {
		return nil, goerrors.New("EMPTY_SALT", "salt cannot be empty")
	}
	if keyLen <= 0 {
		return nil, goerrors.New("INVALID_KEYLEN", "key length must be positive")
	}

	time := uint32(DefaultTime)
	memory := uint32(DefaultMemory * 1024)
	threads := uint8(DefaultThreads)
	if params != nil {
		if params.Time > 0 {
			time = params.Time
		}
		if params.Memory > 0 {
			memory = params.Memory * 1024
		}
		if params.Threads > 0 {
			threads = params.Threads
		}
	}

	// Conversions are safe due to the validation above
	key := argon2.IDKey(password, salt, time, memory, threads, uint32(keyLen)) // #nosec G115
	return key, nil
}

// DeriveKeyDefault derives a key using Argon2id with secure defaults.
// Equivalent to DeriveKey with nil params.
func DeriveKeyDefault(password, salt []byte, keyLen int) ([]byte, error) {
	return DeriveKey(password, salt, keyLen, nil)
}

// PBKDF2 derives a key from a password and salt using PBKDF2.
//
// Parameters:
//   - password: Cannot be empty
//   - salt: Cannot be empty
//   - iterations: Iteration count; <= 0 uses the policy default
//   - keyLen: Output length in bytes; <= 0 uses the policy default
//   - algorithm: PRF digest; "" uses the policy default
//   - policy: Policy supplying the defaults, nil for DefaultPolicy
//
// Returns ErrUnknownAlgorithm for an unregistered PRF digest.
func PBKDF2(password, salt []byte, iterations, keyLen int, algorithm AlgorithmID, policy *Policy) ([]byte, error) {
	if len(password) == 0 {
		return nil, goerrors.New("EMPTY_PASSWORD", "password cannot be empty")
	}
	if len(salt) == 0 {
		return nil, goerrors.New("EMPTY_SALT", "salt cannot be empty")
	}

	p := policy.orDefault()
	if iterations <= 0 {
		iterations = p.PBKDF2Iterations
	}
	if keyLen <= 0 {
		keyLen = p.PBKDF2KeyLength
	}
	if algorithm == "" {
		algorithm = p.PBKDF2Digest
	}

	info, err := digestByID(algorithm)
	if err != nil {
		return nil, err
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, info.ctor), nil
}

// DeriveKeyHKDF derives high-entropy key material using HKDF-SHA256.
// Suitable for DEK generation from a master key; not for passwords
// (use DeriveKey or PBKDF2 for low-entropy input).
//
// Parameters:
//   - masterKey: High-entropy input keying material, cannot be empty
//   - salt: Optional, may be nil
//   - info: Optional context binding, may be nil
//   - keyLen: Output length in bytes, must be positive
func DeriveKeyHKDF(masterKey, salt, info []byte, keyLen int) ([]byte, error) {
	if len(masterKey) == 0 {
		return nil, goerrors.New("EMPTY_MASTER_KEY", "master key cannot be empty")
	}
	if keyLen <= 0 {
		return nil, goerrors.New("INVALID_KEYLEN", "key length must be positive")
	}

	sha256Info, _ := digestByID(DigestSHA256)
	out := make([]byte, keyLen)
	if _, err := io.ReadFull(hkdf.New(sha256Info.ctor, masterKey, salt, info), out); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "hkdf: expansion failed")
	}
	return out, nil
}
