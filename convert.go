// convert.go: Strict binary/text encoding conversions.
//
// Decoding is strict: bad alphabet characters or bad padding fail with
// ErrInvalidEncoding rather than best-effort decoding.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"encoding/base64"
	"encoding/hex"
)

// BinToBase64 encodes bytes as standard (padded) base64.
func BinToBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64ToBin decodes standard base64, rejecting malformed input with
// ErrInvalidEncoding.
//
// Example:
//
//	raw, err := crypto.Base64ToBin("dGVzdA==")
//	if err != nil {
//		log.Fatal(err)
//	}
func Base64ToBin(s string) ([]byte, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, wrapf(err, ErrInvalidEncoding, ErrCodeInvalidEncoding, "base64ToBin: parameter data is not valid base64")
	}
	return b, nil
}

// BinToHex encodes bytes as lowercase hexadecimal.
func BinToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBin decodes hexadecimal (either case), rejecting malformed input
// with ErrInvalidEncoding.
func HexToBin(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, wrapf(err, ErrInvalidEncoding, ErrCodeInvalidEncoding, "hexToBin: parameter data is not valid hex")
	}
	return b, nil
}

// KeyToBase64 encodes a key as a base64 string for text-based storage.
func KeyToBase64(key []byte) string {
	return BinToBase64(key)
}

// KeyFromBase64 decodes a base64 string to a key.
func KeyFromBase64(s string) ([]byte, error) {
	return Base64ToBin(s)
}

// KeyToHex encodes a key as a hexadecimal string.
func KeyToHex(key []byte) string {
	return BinToHex(key)
}

// KeyFromHex decodes a hexadecimal string to a key.
func KeyFromHex(s string) ([]byte, error) {
	return HexToBin(s)
}
