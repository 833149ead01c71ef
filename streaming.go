// streaming.go: Chunked AEAD encryption for large data sets.
//
// The stream is framed as a header followed by length-prefixed sealed
// chunks. Every chunk carries its own authentication tag; a zero-length
// terminator chunk authenticates the end of stream, so truncation is
// detected rather than silently accepted.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"io"
)

// DefaultChunkSize is the plaintext chunk size for streaming operations
// (64KB). It balances memory usage against per-chunk tag overhead.
const DefaultChunkSize = 64 * 1024

// Stream header: [4 bytes magic] [4 bytes version] [1 byte cipher name len]
// [cipher name] [1 byte iv len] [base iv] [4 bytes chunk size].
const (
	streamMagic   = "HCTE"
	streamVersion = uint32(1)
)

// StreamingEncryptor encrypts data in chunks while maintaining AEAD
// guarantees. Close must be called to write the authenticated terminator.
//
// Example:
//
//	params, _ := crypto.NewCipherParams(crypto.CipherAES256GCM, key, nil)
//	enc, _ := crypto.NewStreamingEncryptor(out, params)
//	io.Copy(enc, in)
//	enc.Close()
type StreamingEncryptor struct {
	writer     io.Writer
	aead       cipher.AEAD
	baseIV     []byte
	chunk      *[]byte
	used       int
	chunkSize  int
	chunkCount uint32
	closed     bool
}

// NewStreamingEncryptor creates a streaming encryptor with the default
// chunk size. The cipher must be an AEAD (GCM or ChaCha20-Poly1305); the
// params IV, if set, seeds the per-chunk nonces and must never be reused
// with the same key.
func NewStreamingEncryptor(writer io.Writer, params *CipherParams) (*StreamingEncryptor, error) {
	return NewStreamingEncryptorWithChunkSize(writer, params, DefaultChunkSize)
}

// NewStreamingEncryptorWithChunkSize creates a streaming encryptor with an
// explicit plaintext chunk size.
func NewStreamingEncryptorWithChunkSize(writer io.Writer, params *CipherParams, chunkSize int) (*StreamingEncryptor, error) {
	if params == nil || len(params.Key) == 0 {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "streaming encrypt: parameter cipher is required")
	}
	if !params.info.AEAD {
		return nil, failf(ErrUnsupportedOperation, ErrCodeUnsupportedOp, "streaming encrypt: cipher %q does not authenticate; streaming requires an AEAD cipher", params.Cipher)
	}
	if chunkSize <= 0 || chunkSize > 16*1024*1024 {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming encrypt: chunk size %d out of range", chunkSize)
	}

	aead, err := cachedAEAD(params.Cipher, params.Key)
	if err != nil {
		return nil, err
	}

	baseIV := params.IV
	if baseIV == nil {
		baseIV = make([]byte, params.info.IVSize)
		if _, err := io.ReadFull(rand.Reader, baseIV); err != nil {
			return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming encrypt: iv generation failed")
		}
	}

	e := &StreamingEncryptor{
		writer:    writer,
		aead:      aead,
		baseIV:    baseIV,
		chunk:     getBuffer(chunkSize),
		chunkSize: chunkSize,
	}
	if err := e.writeHeader(params.Cipher); err != nil {
		putBuffer(e.chunk)
		return nil, err
	}
	return e, nil
}

func (e *StreamingEncryptor) writeHeader(cipherID AlgorithmID) error {
	var header bytes.Buffer
	header.WriteString(streamMagic)
	_ = binary.Write(&header, binary.BigEndian, streamVersion)
	header.WriteByte(byte(len(cipherID)))
	header.WriteString(string(cipherID))
	header.WriteByte(byte(len(e.baseIV)))
	header.Write(e.baseIV)
	_ = binary.Write(&header, binary.BigEndian, uint32(e.chunkSize)) // #nosec G115 -- range checked at construction

	if _, err := e.writer.Write(header.Bytes()); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming encrypt: header write failed")
	}
	return nil
}

// chunkNonce derives the nonce for one chunk by mixing the counter into the
// trailing bytes of the base IV. Nonces never repeat within a stream.
func chunkNonce(baseIV []byte, counter uint32) []byte {
	nonce := make([]byte, len(baseIV))
	copy(nonce, baseIV)
	binary.BigEndian.PutUint32(nonce[len(nonce)-4:], binary.BigEndian.Uint32(nonce[len(nonce)-4:])^counter)
	return nonce
}

// Write buffers and encrypts data chunk by chunk.
func (e *StreamingEncryptor) Write(data []byte) (int, error) {
	if e.closed {
		return 0, failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming encrypt: write after close")
	}
	total := 0
	for len(data) > 0 {
		n := copy((*e.chunk)[e.used:e.chunkSize], data)
		e.used += n
		data = data[n:]
		total += n
		if e.used == e.chunkSize {
			if err := e.flushChunk(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// Close flushes the final partial chunk and writes the authenticated
// terminator. Must be called to ensure stream integrity.
func (e *StreamingEncryptor) Close() error {
	if e.closed {
		return nil
	}
	if e.used > 0 {
		if err := e.flushChunk(); err != nil {
			return err
		}
	}
	// Zero-length terminator chunk
	if err := e.flushChunk(); err != nil {
		return err
	}
	e.closed = true
	putBuffer(e.chunk)
	e.chunk = nil
	return nil
}

func (e *StreamingEncryptor) flushChunk() error {
	plain := (*e.chunk)[:e.used]
	nonce := chunkNonce(e.baseIV, e.chunkCount)
	sealed := e.aead.Seal(nil, nonce, plain, nil)

	var frame [4]byte
	binary.BigEndian.PutUint32(frame[:], uint32(len(sealed))) // #nosec G115 -- bounded by chunk size
	if _, err := e.writer.Write(frame[:]); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming encrypt: chunk frame write failed")
	}
	if _, err := e.writer.Write(sealed); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming encrypt: chunk write failed")
	}
	e.used = 0
	e.chunkCount++
	return nil
}

// StreamingDecryptor decrypts a stream produced by StreamingEncryptor,
// verifying every chunk tag and the end-of-stream terminator.
type StreamingDecryptor struct {
	reader     io.Reader
	aead       cipher.AEAD
	baseIV     []byte
	chunkSize  int
	chunkCount uint32
	remaining  []byte
	key        []byte
	headerRead bool
	terminated bool
}

// NewStreamingDecryptor creates a streaming decryptor. The key must match
// the one used for encryption; the cipher and IV are read from the stream
// header.
func NewStreamingDecryptor(reader io.Reader, key []byte) (*StreamingDecryptor, error) {
	if len(key) == 0 {
		return nil, failf(ErrMissingKey, ErrCodeMissingKey, "streaming decrypt: parameter key is required")
	}
	return &StreamingDecryptor{reader: reader, key: key}, nil
}

func (d *StreamingDecryptor) readHeader() error {
	fixed := make([]byte, 8)
	if _, err := io.ReadFull(d.reader, fixed); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header read failed")
	}
	if string(fixed[:4]) != streamMagic {
		return failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: bad stream magic")
	}
	if binary.BigEndian.Uint32(fixed[4:]) != streamVersion {
		return failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: unsupported stream version")
	}

	var nameLen [1]byte
	if _, err := io.ReadFull(d.reader, nameLen[:]); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header read failed")
	}
	name := make([]byte, nameLen[0])
	if _, err := io.ReadFull(d.reader, name); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header read failed")
	}
	info, err := CipherSpec(AlgorithmID(name))
	if err != nil {
		return err
	}
	if !info.AEAD {
		return failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: stream names non-AEAD cipher %q", name)
	}

	var ivLen [1]byte
	if _, err := io.ReadFull(d.reader, ivLen[:]); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header read failed")
	}
	if int(ivLen[0]) != info.IVSize {
		return failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header iv length %d does not match cipher %q", ivLen[0], name)
	}
	d.baseIV = make([]byte, ivLen[0])
	if _, err := io.ReadFull(d.reader, d.baseIV); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header read failed")
	}

	var chunkSize [4]byte
	if _, err := io.ReadFull(d.reader, chunkSize[:]); err != nil {
		return wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header read failed")
	}
	d.chunkSize = int(binary.BigEndian.Uint32(chunkSize[:]))
	if d.chunkSize <= 0 || d.chunkSize > 16*1024*1024 {
		return failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: header chunk size %d out of range", d.chunkSize)
	}

	d.aead, err = cachedAEAD(AlgorithmID(name), d.key)
	if err != nil {
		return err
	}
	d.headerRead = true
	return nil
}

// Read decrypts and returns stream data. io.EOF is only returned after the
// authenticated terminator chunk has been verified; a stream that simply
// stops fails with ErrOperationFailed.
func (d *StreamingDecryptor) Read(out []byte) (int, error) {
	if !d.headerRead {
		if err := d.readHeader(); err != nil {
			return 0, err
		}
	}
	for len(d.remaining) == 0 {
		if d.terminated {
			return 0, io.EOF
		}
		chunk, err := d.readNextChunk()
		if err != nil {
			return 0, err
		}
		if len(chunk) == 0 {
			d.terminated = true
			return 0, io.EOF
		}
		d.remaining = chunk
	}
	n := copy(out, d.remaining)
	d.remaining = d.remaining[n:]
	return n, nil
}

func (d *StreamingDecryptor) readNextChunk() ([]byte, error) {
	var frame [4]byte
	if _, err := io.ReadFull(d.reader, frame[:]); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: stream truncated before terminator")
	}
	sealedLen := int(binary.BigEndian.Uint32(frame[:]))
	if sealedLen > d.chunkSize+d.aead.Overhead() {
		return nil, failf(ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: chunk length %d exceeds negotiated chunk size", sealedLen)
	}

	sealedBuf := getBuffer(sealedLen)
	defer putBuffer(sealedBuf)
	sealed := (*sealedBuf)[:sealedLen]
	if _, err := io.ReadFull(d.reader, sealed); err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: chunk read failed")
	}

	nonce := chunkNonce(d.baseIV, d.chunkCount)
	plain, err := d.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, wrapf(err, ErrOperationFailed, ErrCodeOperationFailed, "streaming decrypt: chunk authentication failed")
	}
	d.chunkCount++
	return plain, nil
}

// Close releases decryptor state. It does not verify the terminator; Read
// until io.EOF for that guarantee.
func (d *StreamingDecryptor) Close() error {
	d.remaining = nil
	return nil
}
