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

func TestNoOpaqueCodecErrors(t *testing.T) {
	var c noOpaqueCodec
	_, err := c.EncodeOpaque(func() {})
	require.Error(t, err)

	_, err = c.DecodeOpaque([]byte{1, 2, 3})
	require.Error(t, err)
}

type recordingOpaqueCodec struct {
	encoded []byte
}

func (c *recordingOpaqueCodec) EncodeOpaque(v interface{}) ([]byte, error) {
	c.encoded = []byte("fn")
	return c.encoded, nil
}

func (c *recordingOpaqueCodec) DecodeOpaque(data []byte) (interface{}, error) {
	return string(data), nil
}

func TestOpaqueCodecRoundTripThroughSerializer(t *testing.T) {
	codec := &recordingOpaqueCodec{}
	builder := NewBuilder(WithOpaqueCodec(codec))
	schema, err := builder.Build()
	require.Nil(t, err)

	buf := NewMemoryBuffer()
	ser := schema.NewSerializer(buf)
	require.Nil(t, ser.Write(func() {}))
	require.Nil(t, ser.Flush())

	de := schema.NewDeserializer(buf)
	v, err := de.Read()
	require.Nil(t, err)
	require.Equal(t, "fn", v)
}
