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

// MalformedProtocolError is raised at schema-build time: duplicate
// read/write assignment, illegal fallback on a final type, non-fallback
// reader on an abstract type, redefining a built-in, or a subtype defining
// a write op under a static ancestor.
type MalformedProtocolError struct {
	TypeName string
	Reason   string
}

func (e *MalformedProtocolError) Error() string {
	return fmt.Sprintf("malformed protocol for %s: %s", e.TypeName, e.Reason)
}

// MissingOperationError is raised at serialize/deserialize time: no
// reader/writer resolves for a runtime value, or the value's type has no
// stable name.
type MissingOperationError struct {
	TypeName string
	Reason   string
}

func (e *MissingOperationError) Error() string {
	return fmt.Sprintf("no operation for %s: %s", e.TypeName, e.Reason)
}

// TypeMismatchError is raised at deserialize time when the tag read does
// not match the typed reader invoked.
type TypeMismatchError struct {
	Want TypeFlag
	Got  TypeFlag
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: wanted tag %s, got %s", e.Want, e.Got)
}

// FramingError is raised at deserialize time when an OBJECT block's
// framing is violated: a missing END_OBJECT, an unconsumed superCount, or
// the stream ending mid-value.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error: %s", e.Reason)
}

// IOError wraps a failure surfaced from the underlying ByteSink/ByteSource.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
