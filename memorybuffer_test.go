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

func TestMemoryBufferWriteReadBytes(t *testing.T) {
	buf := NewMemoryBuffer()
	n, err := buf.Write([]byte("abc"))
	require.Nil(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 3, buf.Len())

	out := make([]byte, 3)
	n, err = buf.Read(out)
	require.Nil(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("abc"), out)
}

func TestMemoryBufferFromBytes(t *testing.T) {
	buf := NewMemoryBufferFromBytes([]byte{1, 2, 3})
	require.Equal(t, []byte{1, 2, 3}, buf.Bytes())
}

func TestMemoryBufferCloseMarksClosed(t *testing.T) {
	buf := NewMemoryBuffer()
	require.False(t, buf.Closed())
	require.Nil(t, buf.Close())
	require.True(t, buf.Closed())
}
