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

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func emptySchema(t *testing.T) *Schema {
	schema, err := NewBuilder().Build()
	require.Nil(t, err)
	return schema
}

func roundTrip(t *testing.T, schema *Schema, v interface{}) interface{} {
	buf := NewMemoryBuffer()
	ser := schema.NewSerializer(buf)
	require.Nil(t, ser.Write(v))
	require.Nil(t, ser.Flush())

	de := schema.NewDeserializer(buf)
	got, err := de.Read()
	require.Nil(t, err, spew.Sdump(v))
	return got
}

func TestBuiltinPrimitivesRoundTrip(t *testing.T) {
	schema := emptySchema(t)
	values := []interface{}{
		true, byte(9), Char(0x4E2D), int16(-5), int32(-70000), int64(1 << 40),
		float32(1.5), float64(-2.5), "hello",
	}
	for _, v := range values {
		require.Equal(t, v, roundTrip(t, schema, v))
	}
}

func TestBuiltinArraysRoundTrip(t *testing.T) {
	schema := emptySchema(t)
	require.Equal(t, []bool{true, false}, roundTrip(t, schema, []bool{true, false}))
	require.Equal(t, []byte{1, 2, 3}, roundTrip(t, schema, []byte{1, 2, 3}))
	require.Equal(t, []int32{1, -2, 3}, roundTrip(t, schema, []int32{1, -2, 3}))
}

func TestBuiltinPairTripleMapEntryUnitRoundTrip(t *testing.T) {
	schema := emptySchema(t)
	require.Equal(t, Pair{First: int32(1), Second: "x"}, roundTrip(t, schema, Pair{First: int32(1), Second: "x"}))
	require.Equal(t, Triple{First: int32(1), Second: "x", Third: true},
		roundTrip(t, schema, Triple{First: int32(1), Second: "x", Third: true}))
	require.Equal(t, MapEntry{Key: "k", Value: int32(7)}, roundTrip(t, schema, MapEntry{Key: "k", Value: int32(7)}))
	require.Equal(t, Unit{}, roundTrip(t, schema, Unit{}))
}

func TestBuiltinListAndMapRoundTrip(t *testing.T) {
	schema := emptySchema(t)
	got := roundTrip(t, schema, []interface{}{int32(1), "two", true})
	require.Equal(t, []interface{}{int32(1), "two", true}, got)

	gotMap := roundTrip(t, schema, map[interface{}]interface{}{"a": int32(1)})
	require.Equal(t, map[interface{}]interface{}{"a": int32(1)}, gotMap)
}

type intIterable struct {
	values []int32
}

func (it intIterable) Iterate(yield func(interface{}) bool) {
	for _, v := range it.values {
		if !yield(v) {
			return
		}
	}
}

func TestBuiltinIterableRoundTrip(t *testing.T) {
	schema := emptySchema(t)
	got := roundTrip(t, schema, intIterable{values: []int32{1, 2, 3}})
	require.Equal(t, []interface{}{int32(1), int32(2), int32(3)}, got)
}

func TestBuiltinNullRoundTrip(t *testing.T) {
	schema := emptySchema(t)
	buf := NewMemoryBuffer()
	ser := schema.NewSerializer(buf)
	require.Nil(t, ser.Write(nil))
	require.Nil(t, ser.Flush())

	de := schema.NewDeserializer(buf)
	v, err := de.Read()
	require.Nil(t, err)
	require.Nil(t, v)
}
