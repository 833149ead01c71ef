// hash.go: Digest computation over the digest registry.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/hmac"
)

// Digest hashes data with the named digest algorithm.
//
// Parameters:
//   - data: The bytes to hash (may be empty)
//   - algorithm: A resolved digest identifier (see CategoryDigests)
//
// Returns ErrUnknownAlgorithm for an unregistered digest.
//
// Example:
//
//	sum, err := crypto.Digest([]byte("abc"), crypto.DigestSHA256)
func Digest(data []byte, algorithm AlgorithmID) ([]byte, error) {
	info, err := digestByID(algorithm)
	if err != nil {
		return nil, err
	}
	h := info.ctor()
	h.Write(data)
	return h.Sum(nil), nil
}

// HMAC computes a keyed-hash message authentication code with the named
// digest. An empty key fails with ErrMissingKey.
func HMAC(data, key []byte, algorithm AlgorithmID) ([]byte, error) {
	if len(key) == 0 {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "hmac: parameter key is required")
	}
	info, err := digestByID(algorithm)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(info.ctor, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}
