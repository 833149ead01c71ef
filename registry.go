// registry.go: Immutable algorithm registry mapping symbolic names to identifiers.
//
// The registry is the single source of truth for every symbolic algorithm
// name accepted at the facade boundary. Tables are populated at package
// initialization and never mutated; lookups are O(1) map reads with no
// network or filesystem access. A name either resolves to exactly one
// AlgorithmID or fails fast with ErrUnknownAlgorithm - there is no silent
// fallback.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	stdcrypto "crypto"
	"crypto/md5"  // #nosec G501 -- registered for legacy fingerprints only, never for signatures
	"crypto/sha1" // #nosec G505 -- registered for legacy fingerprints only, never for signatures
	"crypto/sha256"
	"crypto/sha512"
	"crypto/tls"
	"hash"

	"golang.org/x/crypto/sha3"
)

// AlgorithmID is a resolved, provider-specific identifier for a named
// cryptographic primitive. Callers treat it as opaque; the only way to
// obtain one is through Resolve.
type AlgorithmID string

// Category names a registry table. The set of categories is closed;
// Resolve rejects anything else with ErrUnknownAlgorithm.
type Category string

const (
	// CategoryCiphers contains symmetric cipher identifiers.
	CategoryCiphers Category = "ciphers"
	// CategoryDigests contains digest algorithm identifiers.
	CategoryDigests Category = "digests"
	// CategoryKeyTypes contains asymmetric key type identifiers.
	CategoryKeyTypes Category = "keyTypes"
	// CategoryPaddings contains asymmetric padding mode identifiers.
	CategoryPaddings Category = "paddings"
	// CategoryEnvelope contains PKCS#7/CMS framing flag identifiers.
	CategoryEnvelope Category = "envelope"
	// CategoryCertPurposes contains certificate purpose identifiers.
	CategoryCertPurposes Category = "certPurposes"
	// CategoryTLSVersions contains transport-security protocol versions.
	CategoryTLSVersions Category = "tlsVersions"
)

// Symmetric cipher identifiers.
const (
	CipherAES128GCM        AlgorithmID = "aes128gcm"
	CipherAES192GCM        AlgorithmID = "aes192gcm"
	CipherAES256GCM        AlgorithmID = "aes256gcm"
	CipherAES128CBC        AlgorithmID = "aes128cbc"
	CipherAES192CBC        AlgorithmID = "aes192cbc"
	CipherAES256CBC        AlgorithmID = "aes256cbc"
	CipherAES128CTR        AlgorithmID = "aes128ctr"
	CipherAES192CTR        AlgorithmID = "aes192ctr"
	CipherAES256CTR        AlgorithmID = "aes256ctr"
	CipherChaCha20Poly1305 AlgorithmID = "chacha20poly1305"
)

// Digest algorithm identifiers. MD5 and SHA-1 are registered for legacy
// fingerprint interoperability only; signing rejects them.
const (
	DigestMD5     AlgorithmID = "md5"
	DigestSHA1    AlgorithmID = "sha1"
	DigestSHA224  AlgorithmID = "sha224"
	DigestSHA256  AlgorithmID = "sha256"
	DigestSHA384  AlgorithmID = "sha384"
	DigestSHA512  AlgorithmID = "sha512"
	DigestSHA3256 AlgorithmID = "sha3-256"
	DigestSHA3512 AlgorithmID = "sha3-512"
)

// Asymmetric key type identifiers.
const (
	KeyTypeRSA     AlgorithmID = "rsa"
	KeyTypeEC      AlgorithmID = "ec"
	KeyTypeEd25519 AlgorithmID = "ed25519"
	KeyTypeEd448   AlgorithmID = "ed448"
	KeyTypeX25519  AlgorithmID = "x25519"
	KeyTypeX448    AlgorithmID = "x448"
)

// Asymmetric padding mode identifiers.
const (
	PaddingPKCS1 AlgorithmID = "pkcs1"
	PaddingOAEP  AlgorithmID = "oaep"
)

// Envelope/container framing flag identifiers.
const (
	EnvelopeBinary   AlgorithmID = "binary"
	EnvelopeText     AlgorithmID = "text"
	EnvelopeDetached AlgorithmID = "detached"
	EnvelopeNoChain  AlgorithmID = "nochain"
	EnvelopeNoAttr   AlgorithmID = "noattr"
)

// Certificate purpose identifiers.
const (
	PurposeSSLClient AlgorithmID = "sslClient"
	PurposeSSLServer AlgorithmID = "sslServer"
	PurposeEmail     AlgorithmID = "emailProtection"
	PurposeCodeSign  AlgorithmID = "codeSigning"
	PurposeTimestamp AlgorithmID = "timestamping"
	PurposeOCSPSign  AlgorithmID = "ocspSigning"
	PurposeAny       AlgorithmID = "any"
)

// Transport-security protocol version identifiers.
const (
	TLSVersion10 AlgorithmID = "tls10"
	TLSVersion11 AlgorithmID = "tls11"
	TLSVersion12 AlgorithmID = "tls12"
	TLSVersion13 AlgorithmID = "tls13"
)

// CipherInfo describes the parameter requirements of a symmetric cipher.
type CipherInfo struct {
	ID      AlgorithmID // Resolved cipher identifier
	KeySize int         // Required key length in bytes
	IVSize  int         // Required IV/nonce length in bytes
	AEAD    bool        // Whether the cipher authenticates (GCM, ChaCha20-Poly1305)
}

// digestInfo pairs a hash constructor with the stdlib crypto.Hash value
// needed by RSA signing primitives.
type digestInfo struct {
	id   AlgorithmID
	hash stdcrypto.Hash
	ctor func() hash.Hash
}

var cipherTable = map[string]CipherInfo{
	"aes128gcm":        {CipherAES128GCM, 16, 12, true},
	"aes192gcm":        {CipherAES192GCM, 24, 12, true},
	"aes256gcm":        {CipherAES256GCM, 32, 12, true},
	"aes128cbc":        {CipherAES128CBC, 16, 16, false},
	"aes192cbc":        {CipherAES192CBC, 24, 16, false},
	"aes256cbc":        {CipherAES256CBC, 32, 16, false},
	"aes128ctr":        {CipherAES128CTR, 16, 16, false},
	"aes192ctr":        {CipherAES192CTR, 24, 16, false},
	"aes256ctr":        {CipherAES256CTR, 32, 16, false},
	"chacha20poly1305": {CipherChaCha20Poly1305, 32, 12, true},
}

var digestTable = map[string]digestInfo{
	"md5":      {DigestMD5, stdcrypto.MD5, md5.New},
	"sha1":     {DigestSHA1, stdcrypto.SHA1, sha1.New},
	"sha224":   {DigestSHA224, stdcrypto.SHA224, sha256.New224},
	"sha256":   {DigestSHA256, stdcrypto.SHA256, sha256.New},
	"sha384":   {DigestSHA384, stdcrypto.SHA384, sha512.New384},
	"sha512":   {DigestSHA512, stdcrypto.SHA512, sha512.New},
	"sha3-256": {DigestSHA3256, stdcrypto.SHA3_256, func() hash.Hash { return sha3.New256() }},
	"sha3-512": {DigestSHA3512, stdcrypto.SHA3_512, func() hash.Hash { return sha3.New512() }},
}

var keyTypeTable = map[string]AlgorithmID{
	"rsa":     KeyTypeRSA,
	"ec":      KeyTypeEC,
	"ed25519": KeyTypeEd25519,
	"ed448":   KeyTypeEd448,
	"x25519":  KeyTypeX25519,
	"x448":    KeyTypeX448,
}

var paddingTable = map[string]AlgorithmID{
	"pkcs1": PaddingPKCS1,
	"oaep":  PaddingOAEP,
}

var envelopeTable = map[string]AlgorithmID{
	"binary":   EnvelopeBinary,
	"text":     EnvelopeText,
	"detached": EnvelopeDetached,
	"nochain":  EnvelopeNoChain,
	"noattr":   EnvelopeNoAttr,
}

var certPurposeTable = map[string]AlgorithmID{
	"sslClient":       PurposeSSLClient,
	"sslServer":       PurposeSSLServer,
	"emailProtection": PurposeEmail,
	"codeSigning":     PurposeCodeSign,
	"timestamping":    PurposeTimestamp,
	"ocspSigning":     PurposeOCSPSign,
	"any":             PurposeAny,
}

var tlsVersionTable = map[string]AlgorithmID{
	"tls10": TLSVersion10,
	"tls11": TLSVersion11,
	"tls12": TLSVersion12,
	"tls13": TLSVersion13,
}

var tlsVersionValues = map[AlgorithmID]uint16{
	TLSVersion10: tls.VersionTLS10,
	TLSVersion11: tls.VersionTLS11,
	TLSVersion12: tls.VersionTLS12,
	TLSVersion13: tls.VersionTLS13,
}

// Resolve maps a symbolic name within a category to its AlgorithmID.
//
// Parameters:
//   - category: One of the Category constants (e.g. CategoryCiphers)
//   - name: The symbolic algorithm name (e.g. "aes256gcm")
//
// Returns:
//   - The resolved AlgorithmID
//   - ErrUnknownAlgorithm if the category or name is not registered
//
// Example:
//
//	id, err := crypto.Resolve(crypto.CategoryCiphers, "aes256gcm")
//	if err != nil {
//		log.Fatal(err)
//	}
func Resolve(category Category, name string) (AlgorithmID, error) {
	switch category {
	case CategoryCiphers:
		if info, ok := cipherTable[name]; ok {
			return info.ID, nil
		}
	case CategoryDigests:
		if info, ok := digestTable[name]; ok {
			return info.id, nil
		}
	case CategoryKeyTypes:
		if id, ok := keyTypeTable[name]; ok {
			return id, nil
		}
	case CategoryPaddings:
		if id, ok := paddingTable[name]; ok {
			return id, nil
		}
	case CategoryEnvelope:
		if id, ok := envelopeTable[name]; ok {
			return id, nil
		}
	case CategoryCertPurposes:
		if id, ok := certPurposeTable[name]; ok {
			return id, nil
		}
	case CategoryTLSVersions:
		if id, ok := tlsVersionTable[name]; ok {
			return id, nil
		}
	default:
		return "", failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "resolve: unknown category %q", category)
	}
	return "", failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "resolve: no algorithm %q in category %q", name, category)
}

// CipherSpec returns the parameter requirements of a resolved symmetric cipher.
// Unknown identifiers fail with ErrUnknownAlgorithm.
func CipherSpec(id AlgorithmID) (CipherInfo, error) {
	if info, ok := cipherTable[string(id)]; ok {
		return info, nil
	}
	return CipherInfo{}, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "cipherSpec: no cipher %q", id)
}

// TLSVersionValue returns the wire constant for a resolved transport-security
// protocol version.
func TLSVersionValue(id AlgorithmID) (uint16, error) {
	if v, ok := tlsVersionValues[id]; ok {
		return v, nil
	}
	return 0, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "tlsVersionValue: no protocol version %q", id)
}

// ListSupportedDigests enumerates the digest algorithm names the provider
// supports, in no particular order.
func ListSupportedDigests() []string {
	names := make([]string, 0, len(digestTable))
	for name := range digestTable {
		names = append(names, name)
	}
	return names
}

// digestByID returns digest metadata for a resolved identifier.
func digestByID(id AlgorithmID) (digestInfo, error) {
	if info, ok := digestTable[string(id)]; ok {
		return info, nil
	}
	return digestInfo{}, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "digest: no digest %q", id)
}
