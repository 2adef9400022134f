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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteWriterReaderPrimitivesRoundTrip(t *testing.T) {
	buf := NewMemoryBuffer()
	w := newByteWriter(buf)
	require.Nil(t, w.writeBool(true))
	require.Nil(t, w.writeByte(0xAB))
	require.Nil(t, w.writeChar(0x4E2D))
	require.Nil(t, w.writeShort(-1))
	require.Nil(t, w.writeInt(-70000))
	require.Nil(t, w.writeLong(1<<40))
	require.Nil(t, w.writeFloat(3.5))
	require.Nil(t, w.writeDouble(-2.25))
	require.Nil(t, w.writeStringBytes("héllo"))
	require.Nil(t, w.flush())

	r := newByteReader(buf)
	b, err := r.readBool()
	require.Nil(t, err)
	require.True(t, b)

	by, err := r.readByte()
	require.Nil(t, err)
	require.Equal(t, byte(0xAB), by)

	c, err := r.readChar()
	require.Nil(t, err)
	require.Equal(t, uint16(0x4E2D), c)

	sh, err := r.readShort()
	require.Nil(t, err)
	require.Equal(t, int16(-1), sh)

	i, err := r.readInt()
	require.Nil(t, err)
	require.Equal(t, int32(-70000), i)

	l, err := r.readLong()
	require.Nil(t, err)
	require.Equal(t, int64(1<<40), l)

	f, err := r.readFloat()
	require.Nil(t, err)
	require.Equal(t, float32(3.5), f)

	d, err := r.readDouble()
	require.Nil(t, err)
	require.Equal(t, -2.25, d)

	s, err := r.readStringBytes()
	require.Nil(t, err)
	require.Equal(t, "héllo", s)
}

func TestByteReaderFramingErrorOnShortStream(t *testing.T) {
	buf := NewMemoryBufferFromBytes([]byte{0x00})
	r := newByteReader(buf)
	_, err := r.readInt()
	require.Error(t, err)
	var framing *FramingError
	require.ErrorAs(t, err, &framing)
}

func TestByteWriterFlagRoundTrip(t *testing.T) {
	buf := NewMemoryBuffer()
	w := newByteWriter(buf)
	require.Nil(t, w.writeFlag(FlagObject))
	require.Nil(t, w.flush())

	r := newByteReader(buf)
	flag, err := r.readFlag()
	require.Nil(t, err)
	require.Equal(t, FlagObject, flag)
}
