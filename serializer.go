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
	"reflect"
	"unsafe"
)

// Serializer emits the tagged wire stream described in spec §6 for a
// single Schema and ByteSink. It is not safe to share across goroutines:
// it holds position in a stream (spec §5).
type Serializer struct {
	schema *Schema
	w      *byteWriter
	opaque OpaqueCodec
}

// NewSerializer returns a Serializer writing to sink under schema.
func (s *Schema) NewSerializer(sink ByteSink) *Serializer {
	opaque := s.opaque
	if opaque == nil {
		opaque = noOpaqueCodec{}
	}
	return &Serializer{schema: s, w: newByteWriter(sink), opaque: opaque}
}

// Write is the engine's top-level write dispatch (spec §4.4): null check,
// opaque/function check, then schema/built-in resolution.
func (s *Serializer) Write(v interface{}) error {
	return s.writeValue(v)
}

// Flush flushes buffered bytes to the underlying ByteSink without closing it.
func (s *Serializer) Flush() error {
	return s.w.flush()
}

// Close flushes and closes the underlying ByteSink.
func (s *Serializer) Close() error {
	return s.w.close()
}

// Tag-specific primitive writers, exposed for use inside a Protocol's own
// write operation (spec §4.6). Each writes its TypeFlag before the
// payload, the same as every other tagged value on the wire; a custom
// writer's bytes are self-describing like everything else, not a raw
// untagged blob.
func (s *Serializer) WriteBool(v bool) error {
	if err := s.w.writeFlag(FlagBoolean); err != nil {
		return err
	}
	return s.w.writeBool(v)
}

func (s *Serializer) WriteByte(v byte) error {
	if err := s.w.writeFlag(FlagByte); err != nil {
		return err
	}
	return s.w.writeByte(v)
}

func (s *Serializer) WriteChar(v Char) error {
	if err := s.w.writeFlag(FlagChar); err != nil {
		return err
	}
	return s.w.writeChar(uint16(v))
}

func (s *Serializer) WriteShort(v int16) error {
	if err := s.w.writeFlag(FlagShort); err != nil {
		return err
	}
	return s.w.writeShort(v)
}

func (s *Serializer) WriteInt(v int32) error {
	if err := s.w.writeFlag(FlagInt); err != nil {
		return err
	}
	return s.w.writeInt(v)
}

func (s *Serializer) WriteLong(v int64) error {
	if err := s.w.writeFlag(FlagLong); err != nil {
		return err
	}
	return s.w.writeLong(v)
}

func (s *Serializer) WriteFloat(v float32) error {
	if err := s.w.writeFlag(FlagFloat); err != nil {
		return err
	}
	return s.w.writeFloat(v)
}

func (s *Serializer) WriteDouble(v float64) error {
	if err := s.w.writeFlag(FlagDouble); err != nil {
		return err
	}
	return s.w.writeDouble(v)
}

func (s *Serializer) WriteString(v string) error {
	if err := s.w.writeFlag(FlagString); err != nil {
		return err
	}
	return s.w.writeStringBytes(v)
}

// WriteNonNull writes v through the non-null dispatch (spec §4.2's non-null
// table): container members are never tagged NULL. It fails with
// MissingOperationError rather than emitting NULL if v, or any member
// written through this path, is nil.
func (s *Serializer) WriteNonNull(v interface{}) error {
	return s.writeValueNonNull(v)
}

func isNilValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func (s *Serializer) writeValue(v interface{}) error {
	return s.dispatch(v, false)
}

func (s *Serializer) writeValueNonNull(v interface{}) error {
	if isNilValue(v) {
		return &MissingOperationError{TypeName: "<nil>", Reason: "non-null member encountered a nil value"}
	}
	return s.dispatch(v, true)
}

// dispatch implements spec §4.4 steps 1-4.
func (s *Serializer) dispatch(v interface{}, assumeNonNull bool) error {
	if !assumeNonNull && isNilValue(v) {
		return s.w.writeFlag(FlagNull)
	}
	r := reflect.TypeOf(v)
	if r == nil {
		return s.w.writeFlag(FlagNull)
	}
	if r.Kind() == reflect.Func {
		return s.writeOpaque(v)
	}

	if p, ok := s.schema.protocolFor(r); ok {
		if p.hasStatic {
			return s.writeObjectBlock(p.name, []*protocol{p}, false, 0, v)
		}
		builtinFlag, hasBuiltin := builtinAncestor(r)
		return s.writeObjectBlock(p.name, s.schema.writeSeq[r], hasBuiltin, builtinFlag, v)
	}

	if flag, ok := builtinAncestor(r); ok {
		if err := s.w.writeFlag(flag); err != nil {
			return err
		}
		return s.writeBuiltin(flag, reflect.ValueOf(v), assumeNonNull)
	}

	if anc := s.schema.findAncestorProtocol(r); anc != nil {
		return s.writeObjectBlock(anc.name, s.schema.writeSeq[anc.typ], false, 0, v)
	}

	name, ok := nameOf(r)
	if !ok {
		return &MissingOperationError{TypeName: r.String(), Reason: "anonymous/locally-scoped type has no stable identity"}
	}
	return &MissingOperationError{TypeName: name, Reason: "no writer resolvable for this value"}
}

// valueForAncestor extracts the value an ancestor's write op should see.
// An interface-kind ancestor is satisfied structurally (spec's "with
// interfaces" polymorphism): v itself is checked against it. A struct-kind
// ancestor is satisfied only through Go's anonymous-embedding promotion
// (spec's single-inheritance chain, realized as literal struct embedding):
// the ancestor's own value is recovered from v's promoted field of that
// type, found however many embedding levels deep it sits.
func valueForAncestor(anc *protocol, v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	if anc.typ.Kind() == reflect.Interface {
		if !rv.Type().Implements(anc.typ) {
			return nil, &MissingOperationError{TypeName: anc.name, Reason: "value does not implement declared ancestor interface"}
		}
		return v, nil
	}
	if rv.Type() == anc.typ {
		return v, nil
	}
	// Copy v into addressable storage so an embedded field of an unexported
	// type can be read by address; Value.Interface refuses such fields.
	pv := reflect.New(rv.Type()).Elem()
	pv.Set(rv)
	fv := pv.FieldByName(anc.typ.Name())
	if !fv.IsValid() || fv.Type() != anc.typ {
		return nil, &MissingOperationError{TypeName: anc.name, Reason: "value does not embed declared ancestor type"}
	}
	return reflect.NewAt(anc.typ, unsafe.Pointer(fv.UnsafeAddr())).Elem().Interface(), nil
}

func (s *Serializer) writeOpaque(v interface{}) error {
	data, err := s.opaque.EncodeOpaque(v)
	if err != nil {
		return err
	}
	if err := s.w.writeFlag(FlagFunction); err != nil {
		return err
	}
	if err := s.w.writeInt(int32(len(data))); err != nil {
		return err
	}
	return s.w.writeRaw(data)
}

// writeObjectBlock composes one OBJECT block (spec §4.5): seq[0] is the
// "own" writer (invoked last, just before END_OBJECT); seq[1:] are
// ancestor writers emitted first, in declaration order, each as a nested
// OBJECT block with its own superCount of 0. If builtinAsSuper, a single
// tagged built-in record is emitted as the final supertype packet, using
// the non-null handler (members of a built-in container are already
// typed, spec §4.5).
func (s *Serializer) writeObjectBlock(name string, seq []*protocol, builtinAsSuper bool, builtinFlag TypeFlag, v interface{}) error {
	if len(seq) == 0 {
		return &MissingOperationError{TypeName: name, Reason: "no writer resolvable for this value"}
	}
	superCount := len(seq) - 1
	if builtinAsSuper {
		superCount++
	}
	if superCount > 255 {
		return &FramingError{Reason: "superCount exceeds one byte (255 ancestor writers)"}
	}
	if err := s.w.writeFlag(FlagObject); err != nil {
		return err
	}
	if err := s.w.writeStringBytes(name); err != nil {
		return err
	}
	if err := s.w.writeByte(byte(superCount)); err != nil {
		return err
	}
	for _, anc := range seq[1:] {
		if err := s.w.writeFlag(FlagObject); err != nil {
			return err
		}
		if err := s.w.writeStringBytes(anc.name); err != nil {
			return err
		}
		if err := s.w.writeByte(0); err != nil {
			return err
		}
		ancValue, err := valueForAncestor(anc, v)
		if err != nil {
			return err
		}
		if err := anc.write(s, ancValue); err != nil {
			return err
		}
		if err := s.w.writeFlag(FlagEndObject); err != nil {
			return err
		}
	}
	if builtinAsSuper {
		if err := s.w.writeFlag(builtinFlag); err != nil {
			return err
		}
		if err := s.writeBuiltin(builtinFlag, reflect.ValueOf(v), true); err != nil {
			return err
		}
	}
	own := seq[0]
	if err := own.write(s, v); err != nil {
		return err
	}
	return s.w.writeFlag(FlagEndObject)
}
