// errors.go: Error taxonomy for the cryptographic operations facade.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Public standard errors for drop-in compatibility.
// These errors can be used with errors.Is() for error checking.
// Messages carry the attempted operation and, where safe, the offending
// parameter name. Key material never appears in an error message.
var (
	// ErrUnknownAlgorithm is returned when a symbolic algorithm name does not
	// resolve in the requested registry category.
	ErrUnknownAlgorithm = errors.New("crypto: unknown algorithm")

	// ErrMissingKey is returned when an operation that requires key material
	// is invoked without it. The library never substitutes a default secret.
	ErrMissingKey = errors.New("crypto: missing key")

	// ErrMissingIV is returned when symmetric decryption is invoked without
	// an explicit initialization vector.
	ErrMissingIV = errors.New("crypto: missing iv")

	// ErrInvalidIVSize is returned at parameter construction time when the
	// supplied IV length does not match the cipher's required IV length.
	ErrInvalidIVSize = errors.New("crypto: invalid iv size")

	// ErrInvalidEncoding is returned when hex or base64 input cannot be
	// decoded strictly (bad alphabet, bad padding). Best-effort decoding is
	// never attempted.
	ErrInvalidEncoding = errors.New("crypto: invalid encoding")

	// ErrOperationFailed is returned when the underlying provider primitive
	// fails or produces an empty result.
	ErrOperationFailed = errors.New("crypto: operation failed")

	// ErrKeyImport is returned when key material cannot be imported,
	// including decryption failure with a wrong passphrase.
	ErrKeyImport = errors.New("crypto: key import failed")

	// ErrKeyExport is returned when key material cannot be serialized.
	ErrKeyExport = errors.New("crypto: key export failed")

	// ErrUnsupportedKeyType is returned when key generation or import is
	// requested for a key type the library does not support.
	ErrUnsupportedKeyType = errors.New("crypto: unsupported key type")

	// ErrKeyWiped is returned when key material is used after Wipe.
	ErrKeyWiped = errors.New("crypto: key material has been wiped")

	// ErrCertificate is returned for certificate parsing, verification and
	// conversion failures.
	ErrCertificate = errors.New("crypto: certificate error")

	// ErrEnvelope is returned for multi-recipient envelope and PKCS#7/PKCS#12
	// container failures. Bulk operations fail atomically with this error;
	// partial success is never reported.
	ErrEnvelope = errors.New("crypto: envelope error")

	// ErrUnsupportedOperation is returned by the dispatch facade for an
	// unknown operation category or sub-type.
	ErrUnsupportedOperation = errors.New("crypto: unsupported operation")
)

// Error codes for rich error handling
const (
	ErrCodeUnknownAlgorithm = "CRYPTO_UNKNOWN_ALGORITHM"
	ErrCodeMissingKey       = "CRYPTO_MISSING_KEY"
	ErrCodeMissingIV        = "CRYPTO_MISSING_IV"
	ErrCodeInvalidIVSize    = "CRYPTO_INVALID_IV_SIZE"
	ErrCodeInvalidEncoding  = "CRYPTO_INVALID_ENCODING"
	ErrCodeOperationFailed  = "CRYPTO_OPERATION_FAILED"
	ErrCodeKeyImport        = "CRYPTO_KEY_IMPORT"
	ErrCodeKeyExport        = "CRYPTO_KEY_EXPORT"
	ErrCodeUnsupportedKey   = "CRYPTO_UNSUPPORTED_KEY_TYPE"
	ErrCodeKeyWiped         = "CRYPTO_KEY_WIPED"
	ErrCodeCertificate      = "CRYPTO_CERTIFICATE"
	ErrCodeEnvelope         = "CRYPTO_ENVELOPE"
	ErrCodeUnsupportedOp    = "CRYPTO_UNSUPPORTED_OPERATION"
)

// failf builds a sentinel-wrapped rich error in the library's canonical shape.
// The sentinel satisfies errors.Is(); the rich error carries the code and the
// operation context for auditing.
func failf(sentinel error, code, format string, args ...interface{}) error {
	richErr := goerrors.New(goerrors.ErrorCode(code), fmt.Sprintf(format, args...))
	return fmt.Errorf("%w: %w", sentinel, richErr)
}

// wrapf is like failf but preserves an underlying provider error as the cause.
func wrapf(cause error, sentinel error, code, format string, args ...interface{}) error {
	richErr := goerrors.Wrap(cause, goerrors.ErrorCode(code), fmt.Sprintf(format, args...))
	return fmt.Errorf("%w: %w", sentinel, richErr)
}
