// pkcs.go: PKCS#7/CMS bulk operations and PKCS#12 keystore containers.
//
// Bulk operations act over certificate sets and fail atomically: either the
// full structure parses/encrypts/decrypts or the call fails with
// ErrEnvelope. Partial success is never reported.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"bytes"
	"crypto/x509"
	"sync"

	"go.mozilla.org/pkcs7"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// pkcs7 selects its content cipher through a package-level variable whose
// default is DES-CBC. The variable is set under a lock immediately before
// each Encrypt call rather than at import time, so other users of the
// library in the same process keep whatever they configured.
var pkcs7EncryptMu sync.Mutex

func pkcs7EncryptAESGCM(data []byte, recipients []*x509.Certificate) ([]byte, error) {
	pkcs7EncryptMu.Lock()
	defer pkcs7EncryptMu.Unlock()
	previous := pkcs7.ContentEncryptionAlgorithm
	pkcs7.ContentEncryptionAlgorithm = pkcs7.EncryptionAlgorithmAES128GCM
	defer func() { pkcs7.ContentEncryptionAlgorithm = previous }()
	return pkcs7.Encrypt(data, recipients)
}

// BulkFlags configures PKCS#7 signing and verification strictness.
type BulkFlags struct {
	// Detached produces/expects a signature without embedded content.
	Detached bool

	// Text treats the payload as canonical text: line endings are
	// CRLF-normalized before signing and verification.
	Text bool

	// NoChain skips certificate chain validation during verification and
	// validates only the embedded signer signature.
	NoChain bool

	// NoAttributes signs without authenticated attributes.
	NoAttributes bool
}

// BulkFlagsFrom builds BulkFlags from resolved envelope-category
// identifiers. Unknown identifiers fail with ErrUnknownAlgorithm.
func BulkFlagsFrom(ids ...AlgorithmID) (BulkFlags, error) {
	var flags BulkFlags
	for _, id := range ids {
		switch id {
		case EnvelopeBinary:
			flags.Text = false
		case EnvelopeText:
			flags.Text = true
		case EnvelopeDetached:
			flags.Detached = true
		case EnvelopeNoChain:
			flags.NoChain = true
		case EnvelopeNoAttr:
			flags.NoAttributes = true
		default:
			return BulkFlags{}, failf(ErrUnknownAlgorithm, ErrCodeUnknownAlgorithm, "bulkFlags: unknown envelope flag %q", id)
		}
	}
	return flags, nil
}

// canonicalText converts lone LF line endings to CRLF, the framing CMS
// expects for text content.
func canonicalText(data []byte) []byte {
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(normalized, []byte("\n"), []byte("\r\n"))
}

// BulkEncryptForCertificates encrypts data for every certificate in the
// set as a single PKCS#7 enveloped-data structure.
//
// Example:
//
//	der, err := crypto.BulkEncryptForCertificates(data, []*crypto.Certificate{c1, c2})
func BulkEncryptForCertificates(data []byte, certs []*Certificate) ([]byte, error) {
	if len(certs) == 0 {
		return nil, failf(ErrEnvelope, ErrCodeEnvelope, "bulkEncrypt: parameter certs must not be empty")
	}
	recipients := make([]*x509.Certificate, 0, len(certs))
	for _, c := range certs {
		recipients = append(recipients, c.x)
	}
	out, err := pkcs7EncryptAESGCM(data, recipients)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "bulkEncrypt: enveloped-data construction failed")
	}
	return out, nil
}

// BulkDecrypt opens a PKCS#7 enveloped-data structure with one recipient's
// certificate and private key material.
func BulkDecrypt(ciphertext []byte, cert *Certificate, key *KeyMaterial) ([]byte, error) {
	if cert == nil {
		return nil, failf(ErrEnvelope, ErrCodeEnvelope, "bulkDecrypt: parameter cert is required")
	}
	if err := key.ensureUsable("bulkDecrypt"); err != nil {
		return nil, err
	}
	if key.priv == nil {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "bulkDecrypt: key holds no private key")
	}

	p7, err := pkcs7.Parse(ciphertext)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "bulkDecrypt: enveloped-data parse failed")
	}
	plaintext, err := p7.Decrypt(cert.x, key.priv)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "bulkDecrypt: content key unwrap or payload decryption failed")
	}
	return plaintext, nil
}

// BulkSign produces a PKCS#7 signed-data structure over data with the
// signer certificate and key. Flags select detached signatures, text
// framing and attribute suppression.
func BulkSign(data []byte, cert *Certificate, key *KeyMaterial, flags BulkFlags) ([]byte, error) {
	if cert == nil {
		return nil, failf(ErrEnvelope, ErrCodeEnvelope, "bulkSign: parameter cert is required")
	}
	if err := key.ensureUsable("bulkSign"); err != nil {
		return nil, err
	}
	if key.priv == nil {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "bulkSign: key holds no private key")
	}

	payload := data
	if flags.Text {
		payload = canonicalText(data)
	}

	sd, err := pkcs7.NewSignedData(payload)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "bulkSign: signed-data construction failed")
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)

	if flags.NoAttributes {
		err = sd.SignWithoutAttr(cert.x, key.priv, pkcs7.SignerInfoConfig{})
	} else {
		err = sd.AddSigner(cert.x, key.priv, pkcs7.SignerInfoConfig{})
	}
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "bulkSign: signer attachment failed")
	}

	if flags.Detached {
		sd.Detach()
	}

	out, err := sd.Finish()
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "bulkSign: signed-data serialization failed")
	}
	return out, nil
}

// BulkVerify validates a PKCS#7 signed-data structure against one or more
// trusted certificates.
//
// Parameters:
//   - data: The payload for detached signatures; ignored when the
//     signature embeds its content
//   - signature: The signed-data structure (DER)
//   - certs: Trusted certificates; with NoChain unset they anchor full
//     chain validation
//   - flags: Strictness flags (see BulkFlags)
//
// A failed signature or chain check is (false, nil); only a structurally
// malformed signature raises ErrEnvelope.
func BulkVerify(data, signature []byte, certs []*Certificate, flags BulkFlags) (bool, error) {
	if len(certs) == 0 {
		return false, failf(ErrEnvelope, ErrCodeEnvelope, "bulkVerify: parameter certs must not be empty")
	}

	p7, err := pkcs7.Parse(signature)
	if err != nil {
		return false, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "bulkVerify: signed-data parse failed")
	}

	if flags.Detached {
		payload := data
		if flags.Text {
			payload = canonicalText(data)
		}
		p7.Content = payload
	}

	if flags.NoChain {
		if err := p7.Verify(); err != nil {
			return false, nil
		}
		return true, nil
	}

	pool := x509.NewCertPool()
	for _, c := range certs {
		pool.AddCert(c.x)
	}
	if err := p7.VerifyWithChain(pool); err != nil {
		return false, nil
	}
	return true, nil
}

// EncodeKeystore packs a private key, its certificate and an optional CA
// chain into a PKCS#12 keystore encrypted under the password (modern
// AES-256 encoding).
func EncodeKeystore(key *KeyMaterial, cert *Certificate, caCerts []*Certificate, password string) ([]byte, error) {
	if cert == nil {
		return nil, failf(ErrEnvelope, ErrCodeEnvelope, "encodeKeystore: parameter cert is required")
	}
	if err := key.ensureUsable("encodeKeystore"); err != nil {
		return nil, err
	}
	if key.priv == nil {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "encodeKeystore: key holds no private key")
	}

	cas := make([]*x509.Certificate, 0, len(caCerts))
	for _, c := range caCerts {
		cas = append(cas, c.x)
	}

	out, err := pkcs12.Modern.Encode(key.priv, cert.x, cas, password)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "encodeKeystore: pkcs12 encoding failed")
	}
	return out, nil
}

// DecodeKeystore unpacks a PKCS#12 keystore. A wrong password fails with
// ErrEnvelope; the whole structure decodes or nothing does.
func DecodeKeystore(pfx []byte, password string) (*KeyMaterial, *Certificate, []*Certificate, error) {
	priv, cert, cas, err := pkcs12.DecodeChain(pfx, password)
	if err != nil {
		return nil, nil, nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "decodeKeystore: pkcs12 decoding failed (wrong password?)")
	}

	km := &KeyMaterial{state: KeyStateImported, priv: priv}
	switch cert.PublicKeyAlgorithm {
	case x509.RSA:
		km.keyType = KeyTypeRSA
	case x509.ECDSA:
		km.keyType = KeyTypeEC
	case x509.Ed25519:
		km.keyType = KeyTypeEd25519
	default:
		return nil, nil, nil, failf(ErrUnsupportedKeyType, ErrCodeUnsupportedKey, "decodeKeystore: unsupported key algorithm %v", cert.PublicKeyAlgorithm)
	}
	km.pub = cert.PublicKey

	chain := make([]*Certificate, 0, len(cas))
	for _, c := range cas {
		chain = append(chain, &Certificate{x: c})
	}
	return km, &Certificate{x: cert}, chain, nil
}
