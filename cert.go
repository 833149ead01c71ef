// cert.go: Certificate parsing, verification, purposes and encoding.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"time"

	"github.com/agilira/go-timecache"
)

// Certificate wraps parsed provider certificate state. Read-only once
// parsed; accessors expose the fields the facade contract needs without
// leaking the provider type into caller code.
type Certificate struct {
	x *x509.Certificate
}

const pemTypeCertificate = "CERTIFICATE"

// ParseCertificate parses DER or PEM encoded certificate bytes.
//
// Example:
//
//	cert, err := crypto.ParseCertificate(pemBytes)
//	if err != nil {
//		log.Fatal(err)
//	}
func ParseCertificate(data []byte) (*Certificate, error) {
	der := data
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != pemTypeCertificate {
			return nil, failf(ErrCertificate, ErrCodeCertificate, "parseCertificate: unexpected PEM block type %q", block.Type)
		}
		der = block.Bytes
	}
	parsed, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, wrapf(err, ErrCertificate, ErrCodeCertificate, "parseCertificate: parameter data is not a valid certificate")
	}
	return &Certificate{x: parsed}, nil
}

// Raw returns the DER encoding of the certificate.
func (c *Certificate) Raw() []byte { return c.x.Raw }

// Subject returns the subject distinguished name in RFC 2253 form.
func (c *Certificate) Subject() string { return c.x.Subject.String() }

// Issuer returns the issuer distinguished name in RFC 2253 form.
func (c *Certificate) Issuer() string { return c.x.Issuer.String() }

// NotBefore returns the start of the validity window.
func (c *Certificate) NotBefore() time.Time { return c.x.NotBefore }

// NotAfter returns the end of the validity window.
func (c *Certificate) NotAfter() time.Time { return c.x.NotAfter }

// PublicKey returns the certificate's public key as KeyMaterial, usable
// with Verify, EncryptAsymmetric and the envelope operations.
func (c *Certificate) PublicKey() (*KeyMaterial, error) {
	km := &KeyMaterial{state: KeyStateImported, pub: c.x.PublicKey}
	switch c.x.PublicKeyAlgorithm {
	case x509.RSA:
		km.keyType = KeyTypeRSA
	case x509.ECDSA:
		km.keyType = KeyTypeEC
	case x509.Ed25519:
		km.keyType = KeyTypeEd25519
	default:
		return nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "certificate publicKey: unsupported algorithm %v", c.x.PublicKeyAlgorithm)
	}
	return km, nil
}

// VerifySignedBy reports whether the certificate's signature was produced
// by the given issuer public key. A mismatched signature is (false, nil);
// errors are reserved for unusable key material.
func VerifySignedBy(cert *Certificate, issuerPublicKey *KeyMaterial) (bool, error) {
	if cert == nil {
		return false, failf(ErrCertificate, ErrCodeCertificate, "verifySignedBy: parameter cert is required")
	}
	if err := issuerPublicKey.ensureUsable("verifySignedBy"); err != nil {
		return false, err
	}

	parent := &x509.Certificate{PublicKey: issuerPublicKey.pub}
	if err := parent.CheckSignature(cert.x.SignatureAlgorithm, cert.x.RawTBSCertificate, cert.x.Signature); err != nil {
		return false, nil
	}
	return true, nil
}

var extKeyUsageByPurpose = map[AlgorithmID]x509.ExtKeyUsage{
	PurposeSSLClient: x509.ExtKeyUsageClientAuth,
	PurposeSSLServer: x509.ExtKeyUsageServerAuth,
	PurposeEmail:     x509.ExtKeyUsageEmailProtection,
	PurposeCodeSign:  x509.ExtKeyUsageCodeSigning,
	PurposeTimestamp: x509.ExtKeyUsageTimeStamping,
	PurposeOCSPSign:  x509.ExtKeyUsageOCSPSigning,
	PurposeAny:       x509.ExtKeyUsageAny,
}

// CheckPurpose reports whether the certificate is currently valid for the
// named purpose. With trust anchors supplied, full chain verification runs
// against them; without anchors, only the validity window and extended key
// usage of the leaf are checked. The current time comes from the shared
// time cache, not a per-call clock read.
func CheckPurpose(cert *Certificate, purpose AlgorithmID, trustAnchors []*Certificate) (bool, error) {
	if cert == nil {
		return false, failf(ErrCertificate, ErrCodeCertificate, "checkPurpose: parameter cert is required")
	}
	usage, ok := extKeyUsageByPurpose[purpose]
	if !ok {
		return false, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "checkPurpose: unknown purpose %q", purpose)
	}

	now := timecache.CachedTime().UTC()

	if len(trustAnchors) > 0 {
		roots := x509.NewCertPool()
		for _, anchor := range trustAnchors {
			roots.AddCert(anchor.x)
		}
		opts := x509.VerifyOptions{
			Roots:       roots,
			CurrentTime: now,
			KeyUsages:   []x509.ExtKeyUsage{usage},
		}
		if _, err := cert.x.Verify(opts); err != nil {
			return false, nil
		}
		return true, nil
	}

	if now.Before(cert.x.NotBefore) || now.After(cert.x.NotAfter) {
		return false, nil
	}
	if usage == x509.ExtKeyUsageAny || len(cert.x.ExtKeyUsage) == 0 {
		return true, nil
	}
	for _, eku := range cert.x.ExtKeyUsage {
		if eku == usage || eku == x509.ExtKeyUsageAny {
			return true, nil
		}
	}
	return false, nil
}

// FingerprintCertificate digests the certificate's DER bytes with the named
// digest algorithm.
func FingerprintCertificate(cert *Certificate, algorithm AlgorithmID) ([]byte, error) {
	if cert == nil {
		return nil, failf(ErrCertificate, ErrCodeCertificate, "fingerprint: parameter cert is required")
	}
	return Digest(cert.x.Raw, algorithm)
}

// Encoding forms accepted by ConvertCertificateEncoding.
const (
	FormDER = "der"
	FormPEM = "pem"
)

// ConvertCertificateEncoding reshapes certificate bytes between binary DER
// and textual PEM without validating them beyond framing. Round-trips are
// byte-exact for valid input; PEM output wraps base64 at 64 columns per
// RFC 7468.
func ConvertCertificateEncoding(data []byte, fromForm, toForm string) ([]byte, error) {
	switch {
	case fromForm == toForm:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil

	case fromForm == FormDER && toForm == FormPEM:
		return pem.EncodeToMemory(&pem.Block{Type: pemTypeCertificate, Bytes: data}), nil

	case fromForm == FormPEM && toForm == FormDER:
		block, _ := pem.Decode(data)
		if block == nil || block.Type != pemTypeCertificate {
			return nil, failf(ErrCertificate, ErrCodeCertificate, "convertEncoding: parameter data contains no certificate PEM block")
		}
		return block.Bytes, nil

	default:
		return nil, failf(ErrCertificate, ErrCodeCertificate, "convertEncoding: unsupported conversion %q -> %q", fromForm, toForm)
	}
}

// NewSelfSignedCertificate issues a self-signed certificate over the key
// material, valid from now for the given duration, carrying the listed
// purposes as extended key usages. Intended for bootstrap identities and
// test fixtures.
//
// Example:
//
//	key, _ := crypto.GenerateKeyPair(crypto.KeyTypeRSA, nil, nil)
//	cert, err := crypto.NewSelfSignedCertificate(key, "worker-1", 24*time.Hour, crypto.PurposeSSLServer)
func NewSelfSignedCertificate(key *KeyMaterial, commonName string, validFor time.Duration, purposes ...AlgorithmID) (*Certificate, error) {
	if err := key.ensureUsable("newSelfSignedCertificate"); err != nil {
		return nil, err
	}
	if key.priv == nil {
		return nil, failf(ErrCertificate, ErrCodeCertificate, "newSelfSignedCertificate: key holds no private key")
	}

	var ekus []x509.ExtKeyUsage
	for _, p := range purposes {
		usage, ok := extKeyUsageByPurpose[p]
		if !ok {
			return nil, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "newSelfSignedCertificate: unknown purpose %q", p)
		}
		ekus = append(ekus, usage)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "newSelfSignedCertificate: serial generation failed")
	}

	now := timecache.CachedTime().UTC()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           ekus,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, key.pub, key.priv)
	if err != nil {
		return nil, wrapf(err, ErrCertificate, ErrCodeCertificate, "newSelfSignedCertificate: issuance failed")
	}
	parsed, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, wrapf(err, ErrCertificate, ErrCodeCertificate, "newSelfSignedCertificate: reparse failed")
	}

	return &Certificate{x: parsed}, nil
}
