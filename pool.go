// pool.go: Buffer pooling for streaming and IV-sized scratch space.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"sync"
)

var (
	// smallPool serves IV and key sized scratch buffers.
	smallPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 32)
			return &buf
		},
	}

	// chunkPool serves streaming chunk buffers.
	chunkPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, DefaultChunkSize)
			return &buf
		},
	}
)

// getBuffer retrieves a scratch buffer of at least the requested size from
// the matching pool. Oversized requests allocate directly.
func getBuffer(size int) *[]byte {
	switch {
	case size <= 32:
		buf := smallPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	case size <= DefaultChunkSize:
		buf := chunkPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	default:
		buf := make([]byte, size)
		return &buf
	}
}

// putBuffer zeroes and returns a buffer to its pool. Buffers that did not
// come from a pool are dropped for the garbage collector.
func putBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	full := (*buf)[:cap(*buf)]
	Wipe(full)
	switch cap(*buf) {
	case 32:
		smallPool.Put(buf)
	case DefaultChunkSize:
		chunkPool.Put(buf)
	}
}

// WarmupPools pre-allocates count buffers per pool to avoid first-use
// latency after process start.
func WarmupPools(count int) {
	small := make([]*[]byte, count)
	chunks := make([]*[]byte, count)
	for i := 0; i < count; i++ {
		small[i] = getBuffer(32)
		chunks[i] = getBuffer(DefaultChunkSize)
	}
	for i := 0; i < count; i++ {
		putBuffer(small[i])
		putBuffer(chunks[i])
	}
}
