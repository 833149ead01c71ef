// Package crypto provides a unified cryptographic operations layer for Go applications.
//
// This package offers a single surface over the primitives applications
// typically reach for individually:
//   - Named algorithm catalogs (ciphers, digests, key types, paddings) with
//     registry resolution and descriptive failures for unknown names
//   - Symmetric encryption with AES-GCM, ChaCha20-Poly1305, AES-CBC and
//     AES-CTR, with cipher caching and automatic IV handling
//   - RSA public-key encryption with PKCS#1 v1.5 and OAEP padding
//   - Key pair generation, PEM import/export (optionally passphrase
//     protected), and ECDH/X25519/X448 shared-secret derivation
//   - Digital signatures over RSA, ECDSA, Ed25519 and Ed448
//   - X.509 certificate parsing, purpose checking, and self-signed issuance
//   - Multi-recipient envelope encryption, PKCS#7 bulk operations, and
//     PKCS#12 keystore encode/decode
//   - Argon2id, PBKDF2 and HKDF key derivation
//   - Cryptographically secure random generation with policy defaults
//   - Secure memory zeroization, buffer pooling, and streaming encryption
//     for large datasets
//
// # Quick Start
//
// Basic encryption and decryption:
//
//	// Generate a new encryption key
//	key, err := crypto.GenerateKey()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Encrypt some data (AES-256-GCM, IV prepended)
//	ciphertext, err := crypto.Encrypt([]byte("sensitive data"), key)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Decrypt the data
//	plaintext, err := crypto.Decrypt(ciphertext, key)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Algorithm Resolution
//
// Every operation takes algorithm identifiers resolved through the
// registry, so callers can drive the library from configuration:
//
//	cipherID, err := crypto.Resolve(crypto.CategoryCiphers, "aes256gcm")
//	if err != nil {
//		// errors.Is(err, crypto.ErrUnknownAlgorithm)
//	}
//	params, err := crypto.NewCipherParams(cipherID, key, nil)
//	ciphertext, err := crypto.EncryptSymmetric(data, params)
//	// params.IV now holds the generated IV for transport
//
// # Key Lifecycle
//
// Key pairs move through a tracked lifecycle (generated, exported,
// imported, wiped); operations on wiped keys fail with ErrKeyWiped:
//
//	key, err := crypto.GenerateKeyPair(crypto.KeyTypeEC, &crypto.KeyGenParams{Curve: "P-256"}, nil)
//	pemData, err := crypto.ExportPrivateKey(key, []byte("passphrase"))
//	restored, err := crypto.ImportPrivateKey(crypto.KeyTypeEC, pemData, []byte("passphrase"))
//	defer restored.Wipe()
//
// # Error Handling
//
// All functions return standard Go errors. Failures wrap both a sentinel
// for errors.Is matching and a coded rich error from
// github.com/agilira/go-errors for auditing:
//
//	_, err := crypto.Resolve(crypto.CategoryCiphers, "rot13")
//	if errors.Is(err, crypto.ErrUnknownAlgorithm) {
//		// Handle unknown algorithm
//	}
//
// # Security Considerations
//
// This library uses industry-standard cryptographic algorithms:
//   - AEAD ciphers preferred throughout; CBC decryption unpads in constant time
//   - MD5 and SHA-1 remain resolvable for fingerprinting but are rejected
//     for signature creation
//   - RSA generation enforces a configurable minimum modulus size
//   - Random generation always uses crypto/rand; the pseudo-random entry
//     point reports cryptographic strength explicitly
//   - Key material is zeroized on Wipe and pooled buffers are cleared on return
//
// # External Engines
//
// Deployments backed by PKCS#11 tokens or cloud key services can register
// engine providers through the go-plugins based EngineManager and route
// selected operations to hardware. See EngineProvider.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package crypto
