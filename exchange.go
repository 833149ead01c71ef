// exchange.go: Diffie-Hellman shared secret derivation.
//
// Both participants derive byte-identical secrets given matching
// parameters; this symmetry is covered by the test suite.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"

	"github.com/cloudflare/circl/dh/x448"
)

// DeriveSharedSecret computes the Diffie-Hellman shared secret between a
// private key and a peer public key. Supported key types: x25519, x448, and
// ec (NIST P curves, via ECDH on the same curve).
//
// Parameters:
//   - privateKey: Local key material holding a private key
//   - peerPublicKey: Peer key material holding a public key of the same
//     type (and curve, for EC)
//
// Returns ErrUnsupportedKeyType for signing-only types (rsa, ed25519,
// ed448) and for type or curve mismatches; ErrOperationFailed when the
// provider rejects the peer point (e.g. low-order input).
//
// Example:
//
//	a, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)
//	b, _ := crypto.GenerateKeyPair(crypto.KeyTypeX25519, nil, nil)
//	bPub, _ := b.PublicOnly()
//	secret, err := crypto.DeriveSharedSecret(a, bPub)
func DeriveSharedSecret(privateKey, peerPublicKey *KeyMaterial) ([]byte, error) {
	if err := privateKey.ensureUsable("deriveSharedSecret"); err != nil {
		return nil, err
	}
	if err := peerPublicKey.ensureUsable("deriveSharedSecret"); err != nil {
		return nil, err
	}
	if privateKey.keyType != peerPublicKey.keyType {
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "deriveSharedSecret: key type mismatch (%q vs %q)", privateKey.keyType, peerPublicKey.keyType)
	}

	switch priv := privateKey.priv.(type) {
	case *ecdh.PrivateKey:
		pub, ok := peerPublicKey.pub.(*ecdh.PublicKey)
		if !ok {
			return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "deriveSharedSecret: peer key holds no x25519 public key")
		}
		secret, err := priv.ECDH(pub)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "deriveSharedSecret: x25519 agreement failed")
		}
		return secret, nil

	case *ecdsa.PrivateKey:
		ecdhPriv, err := priv.ECDH()
		if err != nil {
			return nil, wrapf(err, ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "deriveSharedSecret: ec key does not support ECDH")
		}
		ecdsaPub, ok := peerPublicKey.pub.(*ecdsa.PublicKey)
		if !ok {
			return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "deriveSharedSecret: peer key holds no ec public key")
		}
		ecdhPub, err := ecdsaPub.ECDH()
		if err != nil {
			return nil, wrapf(err, ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "deriveSharedSecret: peer ec key does not support ECDH")
		}
		secret, err := ecdhPriv.ECDH(ecdhPub)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "deriveSharedSecret: ec agreement failed (curve mismatch?)")
		}
		return secret, nil

	case *x448.Key:
		pub, ok := peerPublicKey.pub.(*x448.Key)
		if !ok {
			return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "deriveSharedSecret: peer key holds no x448 public key")
		}
		var shared x448.Key
		if !x448.Shared(&shared, priv, pub) {
			return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "deriveSharedSecret: x448 agreement rejected peer point")
		}
		return shared[:], nil

	default:
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "deriveSharedSecret: key type %q does not support key exchange", privateKey.keyType)
	}
}
