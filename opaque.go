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

import "fmt"

// OpaqueCodec encodes and decodes values that cannot be named by the
// schema (function values and similar). It is the only hook the core uses
// for the FlagFunction tag; the core specifies only the tag and the
// length-prefixed byte framing around whatever this codec produces.
//
// A Serializer/Deserializer built without an OpaqueCodec fails with
// MissingOperationError the first time it encounters an opaque value,
// rather than silently dropping it.
type OpaqueCodec interface {
	EncodeOpaque(v interface{}) ([]byte, error)
	DecodeOpaque(data []byte) (interface{}, error)
}

// noOpaqueCodec is installed by default; every call fails loudly instead
// of pretending to support function values.
type noOpaqueCodec struct{}

func (noOpaqueCodec) EncodeOpaque(v interface{}) ([]byte, error) {
	return nil, &MissingOperationError{
		TypeName: fmt.Sprintf("%T", v),
		Reason:   "no OpaqueCodec configured for opaque/function values",
	}
}

func (noOpaqueCodec) DecodeOpaque(data []byte) (interface{}, error) {
	return nil, &MissingOperationError{
		TypeName: "<opaque>",
		Reason:   "no OpaqueCodec configured for opaque/function values",
	}
}
