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

// TypeFlag is a one-byte wire tag introducing every value on the wire.
// Ordinals are stable: they ARE the on-wire encoding, never renumber an
// existing constant.
type TypeFlag byte

const (
	// FlagNull marks an absent value. No payload follows.
	FlagNull TypeFlag = iota
	// FlagBoolean is one byte, 0 or 1.
	FlagBoolean
	// FlagByte is one unsigned byte.
	FlagByte
	// FlagChar is a two-byte UTF-16 code unit, big-endian.
	FlagChar
	// FlagShort is a two-byte signed integer, big-endian.
	FlagShort
	// FlagInt is a four-byte signed integer, big-endian.
	FlagInt
	// FlagLong is an eight-byte signed integer, big-endian.
	FlagLong
	// FlagFloat is IEEE-754 binary32, big-endian.
	FlagFloat
	// FlagDouble is IEEE-754 binary64, big-endian.
	FlagDouble

	// FlagBooleanArray is a length-prefixed array of one-byte booleans.
	FlagBooleanArray
	// FlagByteArray is a length-prefixed array of unsigned bytes.
	FlagByteArray
	// FlagCharArray is a length-prefixed array of two-byte code units.
	FlagCharArray
	// FlagShortArray is a length-prefixed array of two-byte integers.
	FlagShortArray
	// FlagIntArray is a length-prefixed array of four-byte integers.
	FlagIntArray
	// FlagLongArray is a length-prefixed array of eight-byte integers.
	FlagLongArray
	// FlagFloatArray is a length-prefixed array of binary32 floats.
	FlagFloatArray
	// FlagDoubleArray is a length-prefixed array of binary64 floats.
	FlagDoubleArray

	// FlagString is a 32-bit byte-length prefix followed by UTF-8 bytes.
	FlagString

	// FlagObjectArray is a length-prefixed, heterogeneously tagged array.
	FlagObjectArray
	// FlagList is a length-prefixed, heterogeneously tagged sequence.
	FlagList
	// FlagIterable is an unknown-length tagged sequence terminated by FlagEndObject.
	FlagIterable
	// FlagPair is exactly two tagged values.
	FlagPair
	// FlagTriple is exactly three tagged values.
	FlagTriple
	// FlagMapEntry is exactly one tagged key followed by one tagged value.
	FlagMapEntry
	// FlagMap is a length-prefixed sequence of tagged (key, value) pairs.
	FlagMap
	// FlagUnit is a zero-sized singleton value. No payload follows.
	FlagUnit

	// FlagFunction tags an opaque, unnameable value. Payload is handed to
	// an OpaqueCodec verbatim.
	FlagFunction

	// FlagObject opens a schema-resolved OBJECT block (see serializer.go).
	FlagObject
	// FlagEndObject closes an OBJECT block or an unknown-length FlagIterable.
	FlagEndObject
)

// String renders the flag's declared name, for diagnostics only; it is
// never part of the wire format.
func (f TypeFlag) String() string {
	switch f {
	case FlagNull:
		return "NULL"
	case FlagBoolean:
		return "BOOLEAN"
	case FlagByte:
		return "BYTE"
	case FlagChar:
		return "CHAR"
	case FlagShort:
		return "SHORT"
	case FlagInt:
		return "INT"
	case FlagLong:
		return "LONG"
	case FlagFloat:
		return "FLOAT"
	case FlagDouble:
		return "DOUBLE"
	case FlagBooleanArray:
		return "BOOLEAN_ARRAY"
	case FlagByteArray:
		return "BYTE_ARRAY"
	case FlagCharArray:
		return "CHAR_ARRAY"
	case FlagShortArray:
		return "SHORT_ARRAY"
	case FlagIntArray:
		return "INT_ARRAY"
	case FlagLongArray:
		return "LONG_ARRAY"
	case FlagFloatArray:
		return "FLOAT_ARRAY"
	case FlagDoubleArray:
		return "DOUBLE_ARRAY"
	case FlagString:
		return "STRING"
	case FlagObjectArray:
		return "OBJECT_ARRAY"
	case FlagList:
		return "LIST"
	case FlagIterable:
		return "ITERABLE"
	case FlagPair:
		return "PAIR"
	case FlagTriple:
		return "TRIPLE"
	case FlagMapEntry:
		return "MAP_ENTRY"
	case FlagMap:
		return "MAP"
	case FlagUnit:
		return "UNIT"
	case FlagFunction:
		return "FUNCTION"
	case FlagObject:
		return "OBJECT"
	case FlagEndObject:
		return "END_OBJECT"
	default:
		return "UNKNOWN"
	}
}
