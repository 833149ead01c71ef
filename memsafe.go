// memsafe.go: Secure buffer wipe and constant-time comparison.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/subtle"
	"runtime"
)

// Wipe overwrites the buffer with zero bytes in place. Subsequent reads
// observe zeros, never the original secret. runtime.KeepAlive pins the
// slice so the compiler cannot elide the store as a dead write.
//
// Example:
//
//	key, _ := crypto.GenerateKey()
//	defer crypto.Wipe(key)
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Zeroize is the historical name for Wipe, kept for drop-in compatibility.
func Zeroize(b []byte) {
	Wipe(b)
}

// ConstantTimeEquals compares two byte slices in time independent of where
// they first differ. Unequal lengths compare unequal; only the trivial
// length check itself is length-dependent.
func ConstantTimeEquals(a, b []byte) bool {
	if len(a) != len(b) {
		// Burn through a self-comparison so the unequal-length path costs
		// roughly one comparison pass rather than returning immediately.
		subtle.ConstantTimeCompare(a, a)
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
