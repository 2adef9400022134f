// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package kanary

import "bytes"

// MemoryBuffer is a trivial ByteSink and ByteSource backed by an in-memory
// buffer. It's the engine's only shipped stream adapter; anything beyond
// tests and toy callers is expected to bring its own file/socket adapter
// (spec §6 treats those as external collaborators).
type MemoryBuffer struct {
	buf    bytes.Buffer
	closed bool
}

// NewMemoryBuffer returns an empty MemoryBuffer ready for writing.
func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{}
}

// NewMemoryBufferFromBytes returns a MemoryBuffer preloaded for reading.
func NewMemoryBufferFromBytes(data []byte) *MemoryBuffer {
	m := &MemoryBuffer{}
	m.buf.Write(data)
	return m
}

// Write implements ByteSink.
func (m *MemoryBuffer) Write(p []byte) (int, error) {
	return m.buf.Write(p)
}

// Read implements ByteSource.
func (m *MemoryBuffer) Read(p []byte) (int, error) {
	return m.buf.Read(p)
}

// Flush is a no-op: the backing buffer has no external destination to flush to.
func (m *MemoryBuffer) Flush() error {
	return nil
}

// Close marks the buffer closed. Further writes/reads still succeed; this
// only guards against double-close bookkeeping by callers that track it.
func (m *MemoryBuffer) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryBuffer) Closed() bool {
	return m.closed
}

// Bytes returns the unread/written contents of the buffer.
func (m *MemoryBuffer) Bytes() []byte {
	return m.buf.Bytes()
}

// Len returns the number of unread bytes remaining in the buffer.
func (m *MemoryBuffer) Len() int {
	return m.buf.Len()
}
