// memsafe_test.go: Test cases for secure memory handling.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto_test

import (
	"testing"

	crypto "github.com/agilira/hecate"
)

func TestWipe(t *testing.T) {
	data := testKey(64)
	crypto.Wipe(data)
	for i, b := range data {
		if b != 0 {
			t.Fatalf("Expected byte %d to be zero, got %#x", i, b)
		}
	}

	// Nil and empty slices are no-ops.
	crypto.Wipe(nil)
	crypto.Wipe([]byte{})
}

func TestZeroize(t *testing.T) {
	data := []byte("sensitive")
	crypto.Zeroize(data)
	for _, b := range data {
		if b != 0 {
			t.Fatal("Expected Zeroize to clear all bytes")
		}
	}
}

func TestConstantTimeEquals(t *testing.T) {
	a := []byte("equal-value-here")
	b := []byte("equal-value-here")
	c := []byte("other-value-here")

	if !crypto.ConstantTimeEquals(a, b) {
		t.Error("Expected equal slices to compare true")
	}
	if crypto.ConstantTimeEquals(a, c) {
		t.Error("Expected different slices to compare false")
	}
	if crypto.ConstantTimeEquals(a, a[:8]) {
		t.Error("Expected different lengths to compare false")
	}
	if !crypto.ConstantTimeEquals(nil, nil) {
		t.Error("Expected two nil slices to compare true")
	}
	if crypto.ConstantTimeEquals(nil, []byte{0}) {
		t.Error("Expected nil and non-empty to compare false")
	}
}
