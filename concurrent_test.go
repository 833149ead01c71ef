// concurrent_test.go: Concurrent test cases for the cryptographic core.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto_test

import (
	"bytes"
	"sync"
	"testing"

	crypto "github.com/agilira/hecate"
)

func TestConcurrentEncryptDecrypt(t *testing.T) {
	key := testKey(32)
	const numGoroutines = 16
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			plaintext := []byte{byte(id), byte(id >> 8), 0xEE, 0xFF}
			for j := 0; j < 50; j++ {
				params, err := crypto.NewCipherParams(crypto.CipherAES256GCM, key, nil)
				if err != nil {
					t.Errorf("Concurrent NewCipherParams %d failed: %v", id, err)
					return
				}
				ciphertext, err := crypto.EncryptSymmetric(plaintext, params)
				if err != nil {
					t.Errorf("Concurrent encryption %d failed: %v", id, err)
					return
				}
				decrypted, err := crypto.DecryptSymmetric(ciphertext, params)
				if err != nil {
					t.Errorf("Concurrent decryption %d failed: %v", id, err)
					return
				}
				if !bytes.Equal(decrypted, plaintext) {
					t.Errorf("Concurrent round-trip %d mismatch", id)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

// TestConcurrentCacheFlush runs encrypt/decrypt traffic while another
// goroutine repeatedly drops the cipher cache, so cache population, lookup
// and flush all interleave.
func TestConcurrentCacheFlush(t *testing.T) {
	const numWorkers = 8
	var workers sync.WaitGroup
	stop := make(chan struct{})

	// Distinct keys per worker so the flusher races both inserts and hits.
	for i := 0; i < numWorkers; i++ {
		workers.Add(1)
		go func(id int) {
			defer workers.Done()
			key := testKey(32)
			key[0] = byte(id)
			plaintext := []byte("cache flush stress payload")
			for j := 0; j < 100; j++ {
				params, err := crypto.NewCipherParams(crypto.CipherChaCha20Poly1305, key, nil)
				if err != nil {
					t.Errorf("Worker %d NewCipherParams failed: %v", id, err)
					return
				}
				ciphertext, err := crypto.EncryptSymmetric(plaintext, params)
				if err != nil {
					t.Errorf("Worker %d encryption failed: %v", id, err)
					return
				}
				decrypted, err := crypto.DecryptSymmetric(ciphertext, params)
				if err != nil {
					t.Errorf("Worker %d decryption failed: %v", id, err)
					return
				}
				if !bytes.Equal(decrypted, plaintext) {
					t.Errorf("Worker %d round-trip mismatch", id)
					return
				}
			}
		}(i)
	}

	var flusher sync.WaitGroup
	flusher.Add(1)
	go func() {
		defer flusher.Done()
		for {
			select {
			case <-stop:
				return
			default:
				crypto.FlushCipherCache()
			}
		}
	}()

	workers.Wait()
	close(stop)
	flusher.Wait()
}

func TestConcurrentKeyGeneration(t *testing.T) {
	const numGoroutines = 12
	keys := make([]*crypto.KeyMaterial, numGoroutines)
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519, nil, nil)
			if err != nil {
				t.Errorf("Concurrent key generation %d failed: %v", id, err)
				return
			}
			keys[id] = key
		}(i)
	}
	wg.Wait()

	// All generated, all distinct.
	seen := make(map[string]int)
	for i, key := range keys {
		if key == nil {
			t.Errorf("Key %d was not generated", i)
			continue
		}
		fp, err := key.Fingerprint(crypto.DigestSHA256)
		if err != nil {
			t.Errorf("Fingerprint %d failed: %v", i, err)
			continue
		}
		if prev, dup := seen[fp]; dup {
			t.Errorf("Duplicate keys at indices %d and %d", prev, i)
		}
		seen[fp] = i
	}
}

func TestConcurrentRandomGeneration(t *testing.T) {
	const numGoroutines = 20
	values := make([][]byte, numGoroutines)
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			b, err := crypto.RandomBytes(32, nil)
			if err != nil {
				t.Errorf("Concurrent random generation %d failed: %v", id, err)
				return
			}
			values[id] = b
		}(i)
	}
	wg.Wait()

	for i, v := range values {
		if v == nil {
			t.Errorf("Value %d was not generated", i)
			continue
		}
		for j := i + 1; j < len(values); j++ {
			if values[j] != nil && bytes.Equal(v, values[j]) {
				t.Errorf("Duplicate random values at indices %d and %d", i, j)
			}
		}
	}
}

// TestConcurrentFacade exercises shared operation handles from many
// goroutines; handles are documented as stateless and safe to share.
func TestConcurrentFacade(t *testing.T) {
	ops := crypto.NewFacade(nil)
	enc, err := ops.Encryptor("symmetric")
	if err != nil {
		t.Fatalf("Encryptor failed: %v", err)
	}
	dec, err := ops.Decryptor("symmetric")
	if err != nil {
		t.Fatalf("Decryptor failed: %v", err)
	}
	key := testKey(32)

	const numGoroutines = 10
	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			plaintext := []byte{0xC0, byte(id)}
			params, err := crypto.NewCipherParams(crypto.CipherAES128GCM, key[:16], nil)
			if err != nil {
				t.Errorf("Goroutine %d NewCipherParams failed: %v", id, err)
				return
			}
			sealed, err := enc.Encrypt(plaintext, crypto.OperationParams{Cipher: params})
			if err != nil {
				t.Errorf("Goroutine %d facade encrypt failed: %v", id, err)
				return
			}
			opened, err := dec.Decrypt(sealed, crypto.OperationParams{Cipher: params})
			if err != nil {
				t.Errorf("Goroutine %d facade decrypt failed: %v", id, err)
				return
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("Goroutine %d facade round-trip mismatch", id)
			}
		}(i)
	}
	wg.Wait()
}
