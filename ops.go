// ops.go: Operation dispatch facade over the primitive families.
//
// Surrounding application layers obtain typed operation handles by naming a
// category and sub-type. Sub-type strings resolve to closed enums at handle
// construction, so an unknown pair fails immediately with
// ErrUnsupportedOperation and every dispatch switch below is exhaustive at
// compile time. Handles are stateless beyond the injected read-only Policy
// and are safe for concurrent use.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

// Facade is the entry point the surrounding application wires against.
type Facade struct {
	policy *Policy
}

// NewFacade constructs a facade around the given policy (nil for library
// defaults).
//
// Example:
//
//	ops := crypto.NewFacade(nil)
//	enc, err := ops.Encryptor("symmetric")
func NewFacade(policy *Policy) *Facade {
	return &Facade{policy: policy.orDefault()}
}

// cryptKind enumerates the encryptor/decryptor sub-types.
type cryptKind int

const (
	kindSymmetric cryptKind = iota
	kindAsymmetricPublic
	kindAsymmetricPrivate
)

// cryptKindByName is the sub-type resolution table for both directions.
var cryptKindByName = map[string]cryptKind{
	"symmetric":         kindSymmetric,
	"asymmetricPublic":  kindAsymmetricPublic,
	"asymmetricPrivate": kindAsymmetricPrivate,
}

// OperationParams is the parameter bag handed to encryptor/decryptor
// handles. Which fields matter depends on the sub-type: symmetric reads
// Cipher, the asymmetric variants read Key and Padding.
type OperationParams struct {
	// Cipher carries the validated symmetric parameter set.
	Cipher *CipherParams

	// Key carries asymmetric key material.
	Key *KeyMaterial

	// Padding selects the asymmetric padding mode; empty means PaddingOAEP.
	Padding AlgorithmID
}

func (p OperationParams) padding() AlgorithmID {
	if p.Padding == "" {
		return PaddingOAEP
	}
	return p.Padding
}

// Encryptor is an operation handle for one encryption sub-type.
type Encryptor struct {
	kind cryptKind
}

// Encryptor returns the encryption handle for a named sub-type
// (symmetric, asymmetricPublic, asymmetricPrivate).
func (f *Facade) Encryptor(subType string) (*Encryptor, error) {
	kind, ok := cryptKindByName[subType]
	if !ok {
		return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "encryptor: unknown sub-type %q", subType)
	}
	return &Encryptor{kind: kind}, nil
}

// Encrypt performs the handle's encryption primitive on data.
//
// The asymmetricPrivate direction (raw private-key encryption) is not
// exposed by the backing provider; signing is the supported path for
// private-key authenticity operations, so that sub-type fails with
// ErrUnsupportedOperation here.
func (e *Encryptor) Encrypt(data []byte, params OperationParams) ([]byte, error) {
	switch e.kind {
	case kindSymmetric:
		if params.Cipher == nil {
			return nil, failf(ErrMissingKey, ErrCodeMissingKey, "symmetric encrypt: parameter cipher is required")
		}
		return EncryptSymmetric(data, params.Cipher)
	case kindAsymmetricPublic:
		return EncryptAsymmetric(data, params.Key, params.padding())
	case kindAsymmetricPrivate:
		return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "asymmetricPrivate encrypt: provider exposes signing instead of raw private-key encryption")
	}
	return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "encrypt: unreachable sub-type")
}

// Decryptor is an operation handle for one decryption sub-type.
type Decryptor struct {
	kind cryptKind
}

// Decryptor returns the decryption handle for a named sub-type.
func (f *Facade) Decryptor(subType string) (*Decryptor, error) {
	kind, ok := cryptKindByName[subType]
	if !ok {
		return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "decryptor: unknown sub-type %q", subType)
	}
	return &Decryptor{kind: kind}, nil
}

// Decrypt performs the handle's decryption primitive on data. The
// asymmetricPublic direction (signature recovery) is not exposed by the
// backing provider; use Verify.
func (d *Decryptor) Decrypt(data []byte, params OperationParams) ([]byte, error) {
	switch d.kind {
	case kindSymmetric:
		if params.Cipher == nil {
			return nil, failf(ErrMissingKey, ErrCodeMissingKey, "symmetric decrypt: parameter cipher is required")
		}
		return DecryptSymmetric(data, params.Cipher)
	case kindAsymmetricPrivate:
		return DecryptAsymmetric(data, params.Key, params.padding())
	case kindAsymmetricPublic:
		return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "asymmetricPublic decrypt: provider exposes verification instead of raw public-key decryption")
	}
	return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "decrypt: unreachable sub-type")
}

// randomKind enumerates the random generator sub-types.
type randomKind int

const (
	randomGeneral randomKind = iota
	randomPasswordSalt
	randomKeyMaterial
	randomPseudo
)

var randomKindByName = map[string]randomKind{
	"general":      randomGeneral,
	"passwordSalt": randomPasswordSalt,
	"keyMaterial":  randomKeyMaterial,
	"pseudoRandom": randomPseudo,
}

// RandomGenerator is an operation handle for one random sub-type.
type RandomGenerator struct {
	kind   randomKind
	policy *Policy
}

// RandomGenerator returns the random handle for a named sub-type
// (general, passwordSalt, keyMaterial, pseudoRandom). For IV generation
// sized to a cipher, see IVGenerator.
func (f *Facade) RandomGenerator(subType string) (*RandomGenerator, error) {
	kind, ok := randomKindByName[subType]
	if !ok {
		return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "randomGenerator: unknown sub-type %q", subType)
	}
	return &RandomGenerator{kind: kind, policy: f.policy}, nil
}

// Generate produces random bytes. A non-positive length selects the
// sub-type's policy default. The pseudoRandom sub-type reports strength
// through GeneratePseudo; calling Generate on it uses the strong source.
func (g *RandomGenerator) Generate(length int) ([]byte, error) {
	switch g.kind {
	case randomGeneral, randomPseudo:
		return RandomBytes(length, g.policy)
	case randomPasswordSalt:
		return RandomSalt(length, g.policy)
	case randomKeyMaterial:
		return RandomKeyMaterial(length, g.policy)
	}
	return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "random: unreachable sub-type")
}

// GeneratePseudo produces random bytes with a strength attestation.
// Only valid on the pseudoRandom sub-type.
func (g *RandomGenerator) GeneratePseudo(length int) (RandomResult, error) {
	if g.kind != randomPseudo {
		return RandomResult{}, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "random: strength attestation is only available on the pseudoRandom sub-type")
	}
	return PseudoRandom(length, g.policy)
}

// IVGenerator returns a generator producing IVs sized for the named cipher.
func (f *Facade) IVGenerator(cipherID AlgorithmID) (func() ([]byte, error), error) {
	if _, err := CipherSpec(cipherID); err != nil {
		return nil, err
	}
	return func() ([]byte, error) { return RandomIVFor(cipherID) }, nil
}

// Hasher is the operation handle for digest and KDF hashing.
type Hasher struct {
	policy *Policy
}

// Hasher returns the hashing handle.
func (f *Facade) Hasher() *Hasher {
	return &Hasher{policy: f.policy}
}

// Digest hashes data with the named digest algorithm.
func (h *Hasher) Digest(data []byte, algorithm AlgorithmID) ([]byte, error) {
	return Digest(data, algorithm)
}

// PBKDF2 derives a key from a password; zero-valued parameters fall back
// to the injected policy, never to inline constants.
func (h *Hasher) PBKDF2(password, salt []byte, iterations, keyLen int, algorithm AlgorithmID) ([]byte, error) {
	return PBKDF2(password, salt, iterations, keyLen, algorithm, h.policy)
}

// ListSupportedDigests enumerates provider digest capability.
func (h *Hasher) ListSupportedDigests() []string {
	return ListSupportedDigests()
}

// Converter is the operation handle for binary/text conversions.
type Converter struct{}

// Converter returns the conversion handle.
func (f *Facade) Converter() *Converter { return &Converter{} }

// BinToBase64 encodes bytes as standard base64.
func (Converter) BinToBase64(b []byte) string { return BinToBase64(b) }

// Base64ToBin strictly decodes standard base64.
func (Converter) Base64ToBin(s string) ([]byte, error) { return Base64ToBin(s) }

// BinToHex encodes bytes as lowercase hex.
func (Converter) BinToHex(b []byte) string { return BinToHex(b) }

// HexToBin strictly decodes hex.
func (Converter) HexToBin(s string) ([]byte, error) { return HexToBin(s) }
