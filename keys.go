// keys.go: Key material lifecycle - generation, import/export, fingerprints, wipe.
//
// KeyMaterial follows an explicit state machine:
//
//	Unbound -> Generated|Imported -> (optionally Exported) -> Wiped
//
// Ownership is exclusive: the library never retains a reference to key
// material after an operation returns, and wiping is an irreversible
// transition after which every use fails with ErrKeyWiped.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"

	"github.com/cloudflare/circl/dh/x448"
	"github.com/cloudflare/circl/sign/ed448"
	"github.com/sirupsen/logrus"
)

// KeyState names a position in the key lifecycle state machine.
type KeyState string

const (
	KeyStateUnbound   KeyState = "unbound"   // No material bound yet
	KeyStateGenerated KeyState = "generated" // Freshly generated material
	KeyStateImported  KeyState = "imported"  // Material parsed from external encoding
	KeyStateExported  KeyState = "exported"  // Material has been serialized at least once
	KeyStateWiped     KeyState = "wiped"     // Material destroyed; any use is an error
)

// KeyGenParams carries optional generation parameters. Zero values defer to
// the Policy defaults.
type KeyGenParams struct {
	// Bits is the RSA modulus size. Ignored for non-RSA types.
	Bits int

	// Curve is the EC named curve (P-256, P-384, P-521). Ignored for
	// non-EC types.
	Curve string
}

// KeyMaterial owns raw key bytes or an opaque provider key object. It is
// not safe for concurrent use by design: ownership is exclusive, and Wipe
// must not interleave with use.
type KeyMaterial struct {
	keyType AlgorithmID
	state   KeyState

	// Exactly one representation is populated per type: priv/pub for
	// provider key objects, raw for symmetric and circl raw-byte keys.
	priv any
	pub  any
	raw  []byte
}

// Type returns the resolved key type identifier.
func (k *KeyMaterial) Type() AlgorithmID { return k.keyType }

// State returns the current lifecycle state.
func (k *KeyMaterial) State() KeyState { return k.state }

// Wiped reports whether the material has been destroyed.
func (k *KeyMaterial) Wiped() bool { return k.state == KeyStateWiped }

// ensureUsable guards every operation against use-after-wipe.
func (k *KeyMaterial) ensureUsable(op string) error {
	if k == nil {
		return failf(ErrMissingKey, ErrCodeMissingKey, "%s: parameter key is required", op)
	}
	if k.state == KeyStateWiped {
		return failf(ErrKeyWiped, ErrCodeKeyWiped, "%s: key material has been wiped", op)
	}
	return nil
}

// Wipe destroys the key material in place. Raw byte representations are
// zeroed; provider key objects are dereferenced; the cipher cache is flushed
// so no schedule derived from the wiped key stays resident. The transition
// is irreversible.
func (k *KeyMaterial) Wipe() error {
	if k == nil {
		return failf(ErrMissingKey, ErrCodeMissingKey, "wipe: parameter key is required")
	}
	if k.state == KeyStateWiped {
		return nil
	}

	Wipe(k.raw)
	switch priv := k.priv.(type) {
	case ed25519.PrivateKey:
		Wipe(priv)
	case ed448.PrivateKey:
		Wipe(priv)
	}
	k.raw = nil
	k.priv = nil
	k.pub = nil
	k.state = KeyStateWiped

	FlushCipherCache()
	return nil
}

// NewSymmetricKeyMaterial wraps raw symmetric key bytes in the lifecycle.
// The bytes are owned by the returned KeyMaterial from this point on.
func NewSymmetricKeyMaterial(raw []byte) (*KeyMaterial, error) {
	if len(raw) == 0 {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "newSymmetricKeyMaterial: parameter raw is required")
	}
	return &KeyMaterial{keyType: "symmetric", state: KeyStateImported, raw: raw}, nil
}

// Bytes returns the raw symmetric material. Fails for asymmetric types and
// wiped keys.
func (k *KeyMaterial) Bytes() ([]byte, error) {
	if err := k.ensureUsable("bytes"); err != nil {
		return nil, err
	}
	if k.raw == nil {
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "bytes: key type %q has no raw byte form", k.keyType)
	}
	return k.raw, nil
}

// GenerateKeyPair generates asymmetric key material of the named type.
//
// RSA honors params.Bits (policy default when zero) and enforces the policy
// floor; EC honors params.Curve. Unknown types fail with
// ErrUnsupportedKeyType.
//
// Example:
//
//	key, err := crypto.GenerateKeyPair(crypto.KeyTypeRSA, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer key.Wipe()
func GenerateKeyPair(keyType AlgorithmID, params *KeyGenParams, policy *Policy) (*KeyMaterial, error) {
	p := policy.orDefault()
	if params == nil {
		params = &KeyGenParams{}
	}

	logrus.WithFields(logrus.Fields{
		"function": "GenerateKeyPair",
		"key_type": string(keyType),
	}).Debug("generating asymmetric key material")

	km := &KeyMaterial{keyType: keyType, state: KeyStateGenerated}

	switch keyType {
	case KeyTypeRSA:
		bits := p.effectiveRSABits(params.Bits)
		floor := p.RSAMinBits
		if floor < MinRSABits {
			floor = MinRSABits
		}
		if bits < floor {
			return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "generate: rsa bit length %d is below the enforced floor %d", bits, floor)
		}
		priv, err := rsa.GenerateKey(rand.Reader, bits)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "generate: rsa key generation failed")
		}
		km.priv, km.pub = priv, &priv.PublicKey

	case KeyTypeEC:
		curveName := params.Curve
		if curveName == "" {
			curveName = p.ECCurve
		}
		curve, err := curveByName(curveName)
		if err != nil {
			return nil, err
		}
		priv, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "generate: ec key generation failed")
		}
		km.priv, km.pub = priv, &priv.PublicKey

	case KeyTypeEd25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "generate: ed25519 key generation failed")
		}
		km.priv, km.pub = priv, pub

	case KeyTypeEd448:
		pub, priv, err := ed448.GenerateKey(rand.Reader)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "generate: ed448 key generation failed")
		}
		km.priv, km.pub = priv, pub

	case KeyTypeX25519:
		priv, err := ecdh.X25519().GenerateKey(rand.Reader)
		if err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "generate: x25519 key generation failed")
		}
		km.priv, km.pub = priv, priv.PublicKey()

	case KeyTypeX448:
		var secret, public x448.Key
		if _, err := rand.Read(secret[:]); err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "generate: x448 key generation failed")
		}
		x448.KeyGen(&public, &secret)
		km.priv, km.pub = &secret, &public

	default:
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "generate: unsupported key type %q", keyType)
	}

	return km, nil
}

// curveByName maps a named curve to its elliptic.Curve.
func curveByName(name string) (elliptic.Curve, error) {
	switch name {
	case "P-256":
		return elliptic.P256(), nil
	case "P-384":
		return elliptic.P384(), nil
	case "P-521":
		return elliptic.P521(), nil
	}
	return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "generate: unsupported ec curve %q", name)
}

// PEM block types. RSA and EC use the traditional forms OpenSSL tooling
// expects; Ed448/X448 have no stdlib encoding and use raw seed blocks.
const (
	pemTypeRSAPrivate = "RSA PRIVATE KEY"
	pemTypeECPrivate  = "EC PRIVATE KEY"
	pemTypePKCS8      = "PRIVATE KEY"
	pemTypePublic     = "PUBLIC KEY"
	pemTypeEd448Priv  = "ED448 PRIVATE KEY"
	pemTypeEd448Pub   = "ED448 PUBLIC KEY"
	pemTypeX448Priv   = "X448 PRIVATE KEY"
	pemTypeX448Pub    = "X448 PUBLIC KEY"
)

// ExportPrivateKey serializes private key material to PEM. A non-empty
// passphrase produces a DEK-Info encrypted block (AES-256-CBC) readable by
// standard tooling. The key transitions to the Exported state.
func ExportPrivateKey(key *KeyMaterial, passphrase []byte) ([]byte, error) {
	if err := key.ensureUsable("export"); err != nil {
		return nil, err
	}

	var blockType string
	var der []byte
	var err error

	switch priv := key.priv.(type) {
	case *rsa.PrivateKey:
		blockType, der = pemTypeRSAPrivate, x509.MarshalPKCS1PrivateKey(priv)
	case *ecdsa.PrivateKey:
		blockType = pemTypeECPrivate
		der, err = x509.MarshalECPrivateKey(priv)
	case ed25519.PrivateKey:
		blockType = pemTypePKCS8
		der, err = x509.MarshalPKCS8PrivateKey(priv)
	case *ecdh.PrivateKey:
		blockType = pemTypePKCS8
		der, err = x509.MarshalPKCS8PrivateKey(priv)
	case ed448.PrivateKey:
		blockType, der = pemTypeEd448Priv, priv.Seed()
	case *x448.Key:
		blockType, der = pemTypeX448Priv, priv[:]
	default:
		return nil, failf(ErrKeyExport, ErrCodeKeyExport, "export: key type %q has no private key form", key.keyType)
	}
	if err != nil {
		return nil, wrapf(err, ErrKeyExport, ErrCodeKeyExport, "export: private key serialization failed for type %q", key.keyType)
	}

	block := &pem.Block{Type: blockType, Bytes: der}
	if len(passphrase) > 0 {
		//nolint:staticcheck // DEK-Info PEM is the interoperable passphrase format for traditional blocks
		block, err = x509.EncryptPEMBlock(rand.Reader, blockType, der, passphrase, x509.PEMCipherAES256)
		if err != nil {
			return nil, wrapf(err, ErrKeyExport, ErrCodeKeyExport, "export: private key encryption failed")
		}
	}

	key.state = KeyStateExported

	logrus.WithFields(logrus.Fields{
		"function": "ExportPrivateKey",
		"key_type": string(key.keyType),
	}).Debug("private key material exported")

	return pem.EncodeToMemory(block), nil
}

// ExportPublicKey serializes the public half to PEM (PKIX for standard
// types, raw blocks for Ed448/X448).
func ExportPublicKey(key *KeyMaterial) ([]byte, error) {
	if err := key.ensureUsable("export"); err != nil {
		return nil, err
	}
	if key.pub == nil {
		return nil, failf(ErrKeyExport, ErrCodeKeyExport, "export: key type %q has no public key form", key.keyType)
	}

	var blockType string
	var der []byte
	var err error

	switch pub := key.pub.(type) {
	case ed448.PublicKey:
		blockType, der = pemTypeEd448Pub, pub
	case *x448.Key:
		blockType, der = pemTypeX448Pub, pub[:]
	default:
		blockType = pemTypePublic
		der, err = x509.MarshalPKIXPublicKey(pub)
	}
	if err != nil {
		return nil, wrapf(err, ErrKeyExport, ErrCodeKeyExport, "export: public key serialization failed for type %q", key.keyType)
	}

	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}), nil
}

// ImportPrivateKey parses PEM private key material.
//
// Parameters:
//   - keyType: Expected key type, or "" to accept whatever the encoding
//     declares. A mismatch fails with ErrKeyImport.
//   - data: PEM bytes
//   - passphrase: Required for DEK-Info encrypted blocks; a wrong
//     passphrase fails with ErrKeyImport, never a panic
//
// Example:
//
//	key, err := crypto.ImportPrivateKey(crypto.KeyTypeRSA, pemBytes, []byte("p1"))
func ImportPrivateKey(keyType AlgorithmID, data, passphrase []byte) (*KeyMaterial, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: parameter data contains no PEM block")
	}

	der := block.Bytes
	//nolint:staticcheck // paired with ExportPrivateKey's DEK-Info encryption
	if x509.IsEncryptedPEMBlock(block) {
		if len(passphrase) == 0 {
			return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: parameter passphrase is required for encrypted key material")
		}
		var err error
		//nolint:staticcheck
		der, err = x509.DecryptPEMBlock(block, passphrase)
		if err != nil {
			return nil, wrapf(err, ErrKeyImport, ErrCodeKeyImport, "import: private key decryption failed (wrong passphrase?)")
		}
	}

	km, err := parsePrivateDER(block.Type, der)
	if err != nil {
		return nil, err
	}
	if keyType != "" && km.keyType != keyType {
		return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: expected key type %q but material is %q", keyType, km.keyType)
	}

	logrus.WithFields(logrus.Fields{
		"function": "ImportPrivateKey",
		"key_type": string(km.keyType),
	}).Debug("private key material imported")

	return km, nil
}

// parsePrivateDER decodes a private key DER payload by PEM block type.
// A DEK-Info block decrypted with a wrong passphrase that slips past the
// padding check still fails here, which is why every parse error maps to
// ErrKeyImport.
func parsePrivateDER(blockType string, der []byte) (*KeyMaterial, error) {
	km := &KeyMaterial{state: KeyStateImported}

	switch blockType {
	case pemTypeRSAPrivate:
		priv, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			return nil, wrapf(err, ErrKeyImport, ErrCodeKeyImport, "import: rsa private key parse failed")
		}
		km.keyType, km.priv, km.pub = KeyTypeRSA, priv, &priv.PublicKey

	case pemTypeECPrivate:
		priv, err := x509.ParseECPrivateKey(der)
		if err != nil {
			return nil, wrapf(err, ErrKeyImport, ErrCodeKeyImport, "import: ec private key parse failed")
		}
		km.keyType, km.priv, km.pub = KeyTypeEC, priv, &priv.PublicKey

	case pemTypePKCS8:
		parsed, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, wrapf(err, ErrKeyImport, ErrCodeKeyImport, "import: pkcs8 private key parse failed")
		}
		switch priv := parsed.(type) {
		case *rsa.PrivateKey:
			km.keyType, km.priv, km.pub = KeyTypeRSA, priv, &priv.PublicKey
		case *ecdsa.PrivateKey:
			km.keyType, km.priv, km.pub = KeyTypeEC, priv, &priv.PublicKey
		case ed25519.PrivateKey:
			km.keyType, km.priv, km.pub = KeyTypeEd25519, priv, priv.Public()
		case *ecdh.PrivateKey:
			km.keyType, km.priv, km.pub = KeyTypeX25519, priv, priv.PublicKey()
		default:
			return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "import: unsupported pkcs8 key type %T", parsed)
		}

	case pemTypeEd448Priv:
		if len(der) != ed448.SeedSize {
			return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: ed448 seed must be %d bytes (got %d)", ed448.SeedSize, len(der))
		}
		priv := ed448.NewKeyFromSeed(der)
		km.keyType, km.priv, km.pub = KeyTypeEd448, priv, priv.Public()

	case pemTypeX448Priv:
		if len(der) != x448.Size {
			return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: x448 secret must be %d bytes (got %d)", x448.Size, len(der))
		}
		var secret, public x448.Key
		copy(secret[:], der)
		x448.KeyGen(&public, &secret)
		km.keyType, km.priv, km.pub = KeyTypeX448, &secret, &public

	default:
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "import: unsupported PEM block type %q", blockType)
	}

	return km, nil
}

// ImportPublicKey parses PEM public key material.
func ImportPublicKey(keyType AlgorithmID, data []byte) (*KeyMaterial, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: parameter data contains no PEM block")
	}

	km := &KeyMaterial{state: KeyStateImported}

	switch block.Type {
	case pemTypePublic:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, wrapf(err, ErrKeyImport, ErrCodeKeyImport, "import: public key parse failed")
		}
		switch pub := parsed.(type) {
		case *rsa.PublicKey:
			km.keyType, km.pub = KeyTypeRSA, pub
		case *ecdsa.PublicKey:
			km.keyType, km.pub = KeyTypeEC, pub
		case ed25519.PublicKey:
			km.keyType, km.pub = KeyTypeEd25519, pub
		case *ecdh.PublicKey:
			km.keyType, km.pub = KeyTypeX25519, pub
		default:
			return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "import: unsupported public key type %T", parsed)
		}
	case pemTypeEd448Pub:
		if len(block.Bytes) != ed448.PublicKeySize {
			return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: ed448 public key must be %d bytes (got %d)", ed448.PublicKeySize, len(block.Bytes))
		}
		km.keyType, km.pub = KeyTypeEd448, ed448.PublicKey(block.Bytes)
	case pemTypeX448Pub:
		if len(block.Bytes) != x448.Size {
			return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: x448 public key must be %d bytes (got %d)", x448.Size, len(block.Bytes))
		}
		var public x448.Key
		copy(public[:], block.Bytes)
		km.keyType, km.pub = KeyTypeX448, &public
	default:
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "import: unsupported PEM block type %q", block.Type)
	}

	if keyType != "" && km.keyType != keyType {
		return nil, failf(ErrKeyImport, ErrCodeKeyImport, "import: expected key type %q but material is %q", keyType, km.keyType)
	}
	return km, nil
}

// PublicOnly returns a KeyMaterial holding just the public half, suitable
// for handing to verification or envelope-seal paths.
func (k *KeyMaterial) PublicOnly() (*KeyMaterial, error) {
	if err := k.ensureUsable("publicOnly"); err != nil {
		return nil, err
	}
	if k.pub == nil {
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "publicOnly: key type %q has no public key form", k.keyType)
	}
	return &KeyMaterial{keyType: k.keyType, state: k.state, pub: k.pub}, nil
}

// Fingerprint digests the public half (or raw symmetric bytes) with the
// named digest and returns lowercase hex. Safe to log.
func (k *KeyMaterial) Fingerprint(digest AlgorithmID) (string, error) {
	if err := k.ensureUsable("fingerprint"); err != nil {
		return "", err
	}

	var material []byte
	switch {
	case k.raw != nil:
		material = k.raw
	case k.pub != nil:
		out, err := ExportPublicKey(k)
		if err != nil {
			return "", err
		}
		material = out
	default:
		return "", failf(ErrOperationFailed, ErrCodeOperationFailed, "fingerprint: key holds no material")
	}

	sum, err := Digest(material, digest)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// GetKeyFingerprint generates a short non-cryptographic fingerprint for raw
// key bytes: the first 8 bytes of SHA-256, hex encoded. Useful for logging
// and cache keying without exposing material. Empty input yields "".
func GetKeyFingerprint(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	hash := sha256.Sum256(key)
	return fmt.Sprintf("%016x", hash[:8])
}
