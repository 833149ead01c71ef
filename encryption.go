// encryption.go: Symmetric encryption and decryption over the cipher registry.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// Options is a bitmask of symmetric operation modifiers.
type Options uint32

const (
	// OptionNone requests default behavior for the selected cipher.
	OptionNone Options = 0

	// OptionNoPadding disables PKCS#7 padding for block modes. Plaintext
	// length must then be a multiple of the cipher block size.
	OptionNoPadding Options = 1 << iota
)

// CipherParams carries the validated parameter set for one symmetric
// operation. Construct it with NewCipherParams; a zero CipherParams is not
// usable. Parameter violations (IV length, missing key, AAD on a non-AEAD
// cipher) are construction-time failures, never discovered deep inside a
// provider call.
type CipherParams struct {
	// Cipher is the resolved cipher identifier.
	Cipher AlgorithmID

	// Key is the raw symmetric key. Length must match the cipher's
	// required key size.
	Key []byte

	// IV is the initialization vector / nonce. May be nil for encryption
	// (one is generated and recorded here); decryption requires it.
	IV []byte

	// AAD is additional authenticated data, AEAD ciphers only.
	AAD []byte

	// Options modifies padding behavior for block modes.
	Options Options

	info CipherInfo
}

// NewCipherParams validates and assembles a symmetric parameter set.
//
// Parameters:
//   - cipherID: A resolved cipher identifier (see Resolve / CategoryCiphers)
//   - key: The raw key, exactly the cipher's key size (cannot be empty)
//   - iv: The IV/nonce, exactly the cipher's IV size, or nil to defer
//     generation to EncryptSymmetric
//
// Returns:
//   - A validated *CipherParams
//   - ErrMissingKey, ErrInvalidIVSize or ErrUnknownAlgorithm on violation
//
// Example:
//
//	id, _ := crypto.Resolve(crypto.CategoryCiphers, "aes256gcm")
//	params, err := crypto.NewCipherParams(id, key, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
func NewCipherParams(cipherID AlgorithmID, key, iv []byte) (*CipherParams, error) {
	info, err := CipherSpec(cipherID)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "newCipherParams: parameter key is required for cipher %q", cipherID)
	}
	if len(key) != info.KeySize {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "newCipherParams: parameter key must be %d bytes for cipher %q (got %d)", info.KeySize, cipherID, len(key))
	}
	if iv != nil && len(iv) != info.IVSize {
		return nil, failf(ErrInvalidIVSize, ErrCodeInvalidIVSize, "newCipherParams: parameter iv must be %d bytes for cipher %q (got %d)", info.IVSize, cipherID, len(iv))
	}
	return &CipherParams{Cipher: cipherID, Key: key, IV: iv, info: info}, nil
}

// WithAAD attaches additional authenticated data. Fails for non-AEAD ciphers.
func (p *CipherParams) WithAAD(aad []byte) (*CipherParams, error) {
	if !p.info.AEAD {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "withAAD: cipher %q does not authenticate additional data", p.Cipher)
	}
	p.AAD = aad
	return p, nil
}

// aeadCache holds assembled AEAD instances keyed by cipher+key fingerprint,
// avoiding repeated key schedule setup on hot paths.
var (
	aeadCacheMu sync.RWMutex
	aeadCache   = make(map[string]cipher.AEAD)
)

// cachedAEAD returns an AEAD for the cipher/key pair, creating and caching
// it on first use. Cache keys are fingerprints, never raw key bytes.
func cachedAEAD(id AlgorithmID, key []byte) (cipher.AEAD, error) {
	cacheKey := string(id) + ":" + GetKeyFingerprint(key)

	aeadCacheMu.RLock()
	if aead, ok := aeadCache[cacheKey]; ok {
		aeadCacheMu.RUnlock()
		return aead, nil
	}
	aeadCacheMu.RUnlock()

	var aead cipher.AEAD
	var err error
	switch id {
	case CipherChaCha20Poly1305:
		aead, err = chacha20poly1305.New(key)
	default:
		var block cipher.Block
		block, err = aes.NewCipher(key)
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	}
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "symmetric: cipher initialization failed for %q", id)
	}

	aeadCacheMu.Lock()
	aeadCache[cacheKey] = aead
	aeadCacheMu.Unlock()

	return aead, nil
}

// FlushCipherCache drops every cached cipher instance. Call it after wiping
// key material so no key schedule derived from wiped bytes stays resident.
func FlushCipherCache() {
	aeadCacheMu.Lock()
	aeadCache = make(map[string]cipher.AEAD)
	aeadCacheMu.Unlock()
}

// EncryptSymmetric encrypts plaintext with the supplied parameter set and
// returns raw ciphertext bytes.
//
// If params.IV is nil a fresh IV is generated from the CSPRNG and stored in
// params.IV so the caller can transport it alongside the ciphertext. AEAD
// ciphers append their authentication tag to the output; block and stream
// modes return exactly the transformed payload.
//
// Returns ErrOperationFailed when the underlying primitive fails; the
// message names the symmetric sub-type.
func EncryptSymmetric(plaintext []byte, params *CipherParams) ([]byte, error) {
	if params == nil || len(params.Key) == 0 {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "symmetric encrypt: parameter key is required")
	}
	if params.IV == nil {
		iv := make([]byte, params.info.IVSize)
		if _, err := io.ReadFull(rand.Reader, iv); err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "symmetric encrypt: iv generation failed")
		}
		params.IV = iv
	}

	switch {
	case params.info.AEAD:
		aead, err := cachedAEAD(params.Cipher, params.Key)
		if err != nil {
			return nil, err
		}
		return aead.Seal(nil, params.IV, plaintext, params.AAD), nil

	case isCBC(params.Cipher):
		return encryptCBC(plaintext, params)

	default: // CTR
		return transformCTR(plaintext, params, "symmetric encrypt")
	}
}

// DecryptSymmetric decrypts raw ciphertext with the supplied parameter set.
//
// An explicit IV is mandatory: omission fails with ErrMissingIV rather than
// guessing a framing convention. AEAD authentication failure, bad padding
// and provider errors all surface as ErrOperationFailed.
func DecryptSymmetric(ciphertext []byte, params *CipherParams) ([]byte, error) {
	if params == nil || len(params.Key) == 0 {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "symmetric decrypt: parameter key is required")
	}
	if params.IV == nil {
		return nil, failf(ErrMissingIV, ErrCodeMissingIV, "symmetric decrypt: parameter iv is required for cipher %q", params.Cipher)
	}

	switch {
	case params.info.AEAD:
		aead, err := cachedAEAD(params.Cipher, params.Key)
		if err != nil {
			return nil, err
		}
		plaintext, err := aead.Open(nil, params.IV, ciphertext, params.AAD)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "symmetric decrypt: authentication failed (wrong key, tampered data, or AAD mismatch)")
		}
		return plaintext, nil

	case isCBC(params.Cipher):
		return decryptCBC(ciphertext, params)

	default: // CTR
		return transformCTR(ciphertext, params, "symmetric decrypt")
	}
}

func isCBC(id AlgorithmID) bool {
	return id == CipherAES128CBC || id == CipherAES192CBC || id == CipherAES256CBC
}

func encryptCBC(plaintext []byte, params *CipherParams) ([]byte, error) {
	block, err := aes.NewCipher(params.Key)
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "symmetric encrypt: cipher initialization failed for %q", params.Cipher)
	}

	padded := plaintext
	if params.Options&OptionNoPadding == 0 {
		padded = pkcs7Pad(plaintext, block.BlockSize())
	} else if len(plaintext)%block.BlockSize() != 0 {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "symmetric encrypt: plaintext length %d is not a multiple of the block size with padding disabled", len(plaintext))
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, params.IV).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

func decryptCBC(ciphertext []byte, params *CipherParams) ([]byte, error) {
	block, err := aes.NewCipher(params.Key)
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "symmetric decrypt: cipher initialization failed for %q", params.Cipher)
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "symmetric decrypt: ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, params.IV).CryptBlocks(plaintext, ciphertext)

	if params.Options&OptionNoPadding != 0 {
		return plaintext, nil
	}
	return pkcs7Unpad(plaintext, block.BlockSize())
}

func transformCTR(data []byte, params *CipherParams, op string) ([]byte, error) {
	block, err := aes.NewCipher(params.Key)
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "%s: cipher initialization failed for %q", op, params.Cipher)
	}
	out := make([]byte, len(data))
	cipher.NewCTR(block, params.IV).XORKeyStream(out, data)
	return out, nil
}

// pkcs7Pad appends PKCS#7 padding up to the block size.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad strips PKCS#7 padding. The check scans a fixed window of the
// final block so the comparison count does not depend on the padding length.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "symmetric decrypt: malformed padded payload")
	}
	padLen := int(data[len(data)-1])
	valid := subtle.ConstantTimeLessOrEq(1, padLen) & subtle.ConstantTimeLessOrEq(padLen, blockSize)
	for i := 0; i < blockSize; i++ {
		idx := len(data) - 1 - i
		inPad := subtle.ConstantTimeLessOrEq(i+1, padLen)
		match := subtle.ConstantTimeByteEq(data[idx], byte(padLen))
		valid &= subtle.ConstantTimeSelect(inPad, match, 1)
	}
	if valid != 1 {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "symmetric decrypt: invalid padding")
	}
	return data[:len(data)-padLen], nil
}

// Encrypt is a convenience wrapper that encrypts plaintext with AES-256-GCM,
// prepending the generated nonce to the returned ciphertext. The key must be
// DefaultKeyMaterialLength bytes.
//
// Example:
//
//	key, _ := crypto.GenerateKey()
//	sealed, err := crypto.Encrypt([]byte("sensitive data"), key)
//	if err != nil {
//		log.Fatal(err)
//	}
func Encrypt(plaintext, key []byte) ([]byte, error) {
	params, err := NewCipherParams(CipherAES256GCM, key, nil)
	if err != nil {
		return nil, err
	}
	ciphertext, err := EncryptSymmetric(plaintext, params)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(params.IV)+len(ciphertext))
	out = append(out, params.IV...)
	return append(out, ciphertext...), nil
}

// Decrypt reverses Encrypt, reading the nonce from the ciphertext prefix.
func Decrypt(sealed, key []byte) ([]byte, error) {
	info, _ := CipherSpec(CipherAES256GCM)
	if len(sealed) < info.IVSize {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "decrypt: ciphertext too short (%d bytes)", len(sealed))
	}
	params, err := NewCipherParams(CipherAES256GCM, key, sealed[:info.IVSize])
	if err != nil {
		return nil, err
	}
	return DecryptSymmetric(sealed[info.IVSize:], params)
}
