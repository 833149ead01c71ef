// envelope.go: Multi-recipient sealed encryption.
//
// A seal generates one content encryption key, encrypts the payload once
// with AES-256-GCM, and wraps the CEK separately for every recipient with
// RSA-OAEP. Each recipient opens the envelope with their private key and
// their own per-recipient key slot; slot order matches the recipient order
// given at seal time.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

// Envelope is a sealed payload plus one encrypted content key per
// recipient. Immutable once produced.
type Envelope struct {
	// SealedPayload is the AEAD ciphertext of the original data.
	SealedPayload []byte

	// IV is the nonce used for the payload encryption.
	IV []byte

	// Cipher identifies the payload cipher.
	Cipher AlgorithmID

	// PerRecipientKeys holds the wrapped content key for each recipient,
	// in seal-time recipient order.
	PerRecipientKeys [][]byte
}

// SealForRecipients encrypts data once and wraps the content key for every
// recipient public key.
//
// Parameters:
//   - data: The plaintext payload
//   - recipients: RSA public key material, one entry per recipient; the
//     slice must be non-empty
//
// The operation is atomic: a single failed wrap fails the whole seal and
// the content key never leaves the function.
//
// Example:
//
//	env, err := crypto.SealForRecipients(data, []*crypto.KeyMaterial{alice, bob})
func SealForRecipients(data []byte, recipients []*KeyMaterial) (*Envelope, error) {
	if len(recipients) == 0 {
		return nil, failf(ErrEnvelope, ErrCodeEnvelope, "seal: parameter recipients must not be empty")
	}

	cek, err := RandomKeyMaterial(0, nil)
	if err != nil {
		return nil, err
	}
	defer Wipe(cek)

	params, err := NewCipherParams(CipherAES256GCM, cek, nil)
	if err != nil {
		return nil, err
	}
	sealed, err := EncryptSymmetric(data, params)
	if err != nil {
		return nil, err
	}

	wrapped := make([][]byte, 0, len(recipients))
	for i, recipient := range recipients {
		slot, err := EncryptAsymmetric(cek, recipient, PaddingOAEP)
		if err != nil {
			return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "seal: wrapping content key for recipient %d failed", i)
		}
		wrapped = append(wrapped, slot)
	}

	return &Envelope{
		SealedPayload:    sealed,
		IV:               params.IV,
		Cipher:           CipherAES256GCM,
		PerRecipientKeys: wrapped,
	}, nil
}

// OpenEnvelope recovers the original payload using one recipient's private
// key and the matching per-recipient key slot.
//
// Parameters:
//   - env: The sealed envelope
//   - recipientIndex: The slot matching this recipient's position at seal
//     time; out-of-range indexes fail with ErrEnvelope
//   - privateKey: The recipient's RSA private key material
func OpenEnvelope(env *Envelope, recipientIndex int, privateKey *KeyMaterial) ([]byte, error) {
	if env == nil || len(env.PerRecipientKeys) == 0 {
		return nil, failf(ErrEnvelope, ErrCodeEnvelope, "open: parameter envelope is empty")
	}
	if recipientIndex < 0 || recipientIndex >= len(env.PerRecipientKeys) {
		return nil, failf(ErrEnvelope, ErrCodeEnvelope, "open: recipient index %d out of range (%d slots)", recipientIndex, len(env.PerRecipientKeys))
	}

	cek, err := DecryptAsymmetric(env.PerRecipientKeys[recipientIndex], privateKey, PaddingOAEP)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "open: unwrapping content key for slot %d failed", recipientIndex)
	}
	defer Wipe(cek)

	params, err := NewCipherParams(env.Cipher, cek, env.IV)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "open: envelope cipher parameters invalid")
	}
	plaintext, err := DecryptSymmetric(env.SealedPayload, params)
	if err != nil {
		return nil, wrapf(err, ErrEnvelope, ErrCodeEnvelope, "open: payload decryption failed")
	}
	return plaintext, nil
}
