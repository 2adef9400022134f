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

import "reflect"

type readOp func(d *Deserializer) (interface{}, error)
type writeOp func(s *Serializer, v interface{}) error

// protocol is the internal, type-erased record configured through
// ProtocolBuilder[T]. A Builder holds one protocol per registered type;
// Builder.Build freezes
// them and derives the write-sequence/read-resolution indices from them
// (spec §3).
type protocol struct {
	typ  reflect.Type
	name string

	// supertypes lists this type's declared ancestor chain root-first
	// (farthest ancestor at index 0, nearest ancestor last). It is the
	// "declaration order" spec §3 refers to for both the write sequence
	// and supertype-packet emission order.
	supertypes []reflect.Type

	write writeOp
	read  readOp

	hasWrite    bool
	hasRead     bool
	hasFallback bool
	hasStatic   bool
}

// ProtocolBuilder configures the read/write operations for one type
// inside a Builder. Its setters are write-only by construction: there is
// deliberately no getter, which is how spec §4.3's "reading the read/
// write property fails with MalformedProtocol" invariant is satisfied in
// a language without property syntax (see spec.md §9, "write-only
// configuration slots").
type ProtocolBuilder[T any] struct {
	b *Builder
	p *protocol
}

// Write assigns T's write operation. Calling Write twice, or calling it
// after Static, fails the schema at Build time.
func (pb *ProtocolBuilder[T]) Write(fn func(s *Serializer, v T) error) *ProtocolBuilder[T] {
	if pb.p.hasWrite {
		pb.b.fail(&MalformedProtocolError{TypeName: pb.p.name, Reason: "write assigned more than once"})
		return pb
	}
	pb.p.write = func(s *Serializer, v interface{}) error { return fn(s, v.(T)) }
	pb.p.hasWrite = true
	return pb
}

// Read assigns T's read operation. Read may not be used on an abstract
// (interface-kind) T; use Fallback instead. Calling Read twice, or mixing
// it with Fallback, fails the schema at Build time.
func (pb *ProtocolBuilder[T]) Read(fn func(d *Deserializer) (T, error)) *ProtocolBuilder[T] {
	if pb.p.hasRead {
		pb.b.fail(&MalformedProtocolError{TypeName: pb.p.name, Reason: "read assigned more than once"})
		return pb
	}
	if pb.p.typ.Kind() == reflect.Interface {
		pb.b.fail(&MalformedProtocolError{TypeName: pb.p.name, Reason: "non-fallback reader assigned to an abstract type"})
		return pb
	}
	pb.p.read = func(d *Deserializer) (interface{}, error) { return fn(d) }
	pb.p.hasRead = true
	return pb
}

// Fallback assigns a reader on a non-final (interface-kind) T that may
// also materialize values for subtypes lacking their own reader. Applying
// Fallback to a final (non-interface) T fails the schema at Build time.
func (pb *ProtocolBuilder[T]) Fallback(fn func(d *Deserializer) (T, error)) *ProtocolBuilder[T] {
	if pb.p.hasRead {
		pb.b.fail(&MalformedProtocolError{TypeName: pb.p.name, Reason: "read assigned more than once"})
		return pb
	}
	if pb.p.typ.Kind() != reflect.Interface {
		pb.b.fail(&MalformedProtocolError{TypeName: pb.p.name, Reason: "fallback applied to a final type"})
		return pb
	}
	pb.p.read = func(d *Deserializer) (interface{}, error) { return fn(d) }
	pb.p.hasRead = true
	pb.p.hasFallback = true
	return pb
}

// Static assigns a write operation that emits only its own bytes: no
// supertype packets are produced for this type, and no subtype already in
// (or later added to) the schema may define its own write op.
func (pb *ProtocolBuilder[T]) Static(fn func(s *Serializer, v T) error) *ProtocolBuilder[T] {
	if pb.p.hasWrite {
		pb.b.fail(&MalformedProtocolError{TypeName: pb.p.name, Reason: "write assigned more than once"})
		return pb
	}
	pb.p.write = func(s *Serializer, v interface{}) error { return fn(s, v.(T)) }
	pb.p.hasWrite = true
	pb.p.hasStatic = true
	return pb
}
