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
	"fmt"
	"reflect"
)

// frame holds the supertype packets buffered while reading one OBJECT
// block, addressable by name from inside the resolved reader (spec §4.6,
// Supertype/Superclass accessors).
type frame struct {
	name            string
	supertypes      map[string]interface{}
	nearest         string
	builtinSuper    interface{}
	hasBuiltinSuper bool
}

// Deserializer reads the tagged wire stream described in spec §6 for a
// single Schema and ByteSource. Like Serializer, it is not safe to share
// across goroutines.
type Deserializer struct {
	schema *Schema
	r      *byteReader
	opaque OpaqueCodec

	curFrame *frame
}

// NewDeserializer returns a Deserializer reading from source under schema.
func (s *Schema) NewDeserializer(source ByteSource) *Deserializer {
	opaque := s.opaque
	if opaque == nil {
		opaque = noOpaqueCodec{}
	}
	return &Deserializer{schema: s, r: newByteReader(source), opaque: opaque}
}

// Read is the engine's top-level read dispatch (spec §4.6).
func (d *Deserializer) Read() (interface{}, error) {
	return d.readValue()
}

// Close closes the underlying ByteSource.
func (d *Deserializer) Close() error {
	return d.r.close()
}

// expectFlag consumes the next TypeFlag and checks it against want, per
// spec §4.6's tag-specific readers: "each consume[s] exactly one tag and
// its payload; a mismatched tag is TypeMismatch."
func (d *Deserializer) expectFlag(want TypeFlag) error {
	got, err := d.r.readFlag()
	if err != nil {
		return err
	}
	if got != want {
		return &TypeMismatchError{Want: want, Got: got}
	}
	return nil
}

// Tag-specific primitive readers, exposed for use inside a Protocol's own
// read operation, mirroring Serializer's primitive writers. Each consumes
// the TypeFlag its Serializer counterpart wrote before decoding the
// payload.
func (d *Deserializer) ReadBool() (bool, error) {
	if err := d.expectFlag(FlagBoolean); err != nil {
		return false, err
	}
	return d.r.readBool()
}

func (d *Deserializer) ReadByte() (byte, error) {
	if err := d.expectFlag(FlagByte); err != nil {
		return 0, err
	}
	return d.r.readByte()
}

func (d *Deserializer) ReadChar() (Char, error) {
	if err := d.expectFlag(FlagChar); err != nil {
		return 0, err
	}
	v, err := d.r.readChar()
	return Char(v), err
}

func (d *Deserializer) ReadShort() (int16, error) {
	if err := d.expectFlag(FlagShort); err != nil {
		return 0, err
	}
	return d.r.readShort()
}

func (d *Deserializer) ReadInt() (int32, error) {
	if err := d.expectFlag(FlagInt); err != nil {
		return 0, err
	}
	return d.r.readInt()
}

func (d *Deserializer) ReadLong() (int64, error) {
	if err := d.expectFlag(FlagLong); err != nil {
		return 0, err
	}
	return d.r.readLong()
}

func (d *Deserializer) ReadFloat() (float32, error) {
	if err := d.expectFlag(FlagFloat); err != nil {
		return 0, err
	}
	return d.r.readFloat()
}

func (d *Deserializer) ReadDouble() (float64, error) {
	if err := d.expectFlag(FlagDouble); err != nil {
		return 0, err
	}
	return d.r.readDouble()
}

func (d *Deserializer) ReadString() (string, error) {
	if err := d.expectFlag(FlagString); err != nil {
		return "", err
	}
	return d.r.readStringBytes()
}

// ReadNonNull reads a value through the non-null dispatch: a NULL tag, at
// the top level or for any member read through this path, fails with
// MissingOperationError instead of yielding nil.
func (d *Deserializer) ReadNonNull() (interface{}, error) {
	return d.readValueNonNull()
}

func (d *Deserializer) readValue() (interface{}, error) {
	flag, err := d.r.readFlag()
	if err != nil {
		return nil, err
	}
	return d.readTaggedMember(flag, false)
}

func (d *Deserializer) readValueNonNull() (interface{}, error) {
	flag, err := d.r.readFlag()
	if err != nil {
		return nil, err
	}
	if flag == FlagNull {
		return nil, &MissingOperationError{TypeName: "<nil>", Reason: "non-null member encountered a NULL tag"}
	}
	return d.readTaggedMember(flag, true)
}

// readTaggedMember dispatches on an already-consumed flag (spec §4.6 step
// 2): used both by readValue/readValueNonNull and by the ITERABLE reader in
// builtin.go, which must peek the next flag to detect its END_OBJECT
// sentinel before it knows whether to dispatch as a built-in member.
func (d *Deserializer) readTaggedMember(flag TypeFlag, nonNull bool) (interface{}, error) {
	switch flag {
	case FlagNull:
		return nil, nil
	case FlagFunction:
		return d.readOpaque()
	case FlagObject:
		return d.readObjectBlock()
	default:
		return d.readBuiltin(flag, nonNull)
	}
}

func (d *Deserializer) readOpaque() (interface{}, error) {
	n, err := d.r.readInt()
	if err != nil {
		return nil, err
	}
	data, err := d.r.readRaw(int(n))
	if err != nil {
		return nil, err
	}
	return d.opaque.DecodeOpaque(data)
}

// readObjectBlock implements spec §4.6 step 2's OBJECT branch: it reads the
// block's name and superCount, buffers every supertype packet into a fresh
// frame (built-in-as-super packets keyed separately, since they carry no
// name of their own), resolves the reader for the declared name via the
// schema's read-resolution index, invokes it with the frame active, and
// asserts the closing END_OBJECT.
func (d *Deserializer) readObjectBlock() (interface{}, error) {
	name, err := d.r.readStringBytes()
	if err != nil {
		return nil, err
	}
	superCountByte, err := d.r.readByte()
	if err != nil {
		return nil, err
	}
	superCount := int(superCountByte)

	fr := &frame{name: name, supertypes: map[string]interface{}{}}
	prev := d.curFrame
	d.curFrame = fr
	defer func() { d.curFrame = prev }()

	for i := 0; i < superCount; i++ {
		flag, err := d.r.readFlag()
		if err != nil {
			return nil, err
		}
		if flag == FlagObject {
			ancName, err := d.r.readStringBytes()
			if err != nil {
				return nil, err
			}
			if _, err := d.r.readByte(); err != nil { // nested superCount, always 0
				return nil, err
			}
			ancProto, ok := d.schema.protocolByName(ancName)
			if !ok || !ancProto.hasRead {
				return nil, &MissingOperationError{TypeName: ancName, Reason: "supertype packet has no registered reader to parse its payload"}
			}
			val, err := ancProto.read(d)
			if err != nil {
				return nil, err
			}
			end, err := d.r.readFlag()
			if err != nil {
				return nil, err
			}
			if end != FlagEndObject {
				return nil, &FramingError{Reason: fmt.Sprintf("supertype packet %s missing END_OBJECT", ancName)}
			}
			fr.supertypes[ancName] = val
			fr.nearest = ancName
		} else {
			val, err := d.readBuiltin(flag, true)
			if err != nil {
				return nil, err
			}
			fr.builtinSuper = val
			fr.hasBuiltinSuper = true
		}
	}

	ownProto, ok := d.schema.protocolByName(name)
	if !ok {
		return nil, &MissingOperationError{TypeName: name, Reason: "no protocol registered under this name"}
	}
	resolved := ownProto
	if !resolved.hasRead {
		resolved = d.schema.readRes[ownProto.typ]
	}
	if resolved == nil || !resolved.hasRead {
		return nil, &MissingOperationError{TypeName: name, Reason: "no reader resolvable for this type"}
	}
	own, err := resolved.read(d)
	if err != nil {
		return nil, err
	}
	end, err := d.r.readFlag()
	if err != nil {
		return nil, err
	}
	if end != FlagEndObject {
		return nil, &FramingError{Reason: fmt.Sprintf("object block %s missing END_OBJECT", name)}
	}
	return own, nil
}

// Supertype fetches the supertype packet of type S buffered for the
// object block currently being read (spec §4.6's named-ancestor access,
// used from inside a Read/Fallback closure to recover an ancestor's
// already-materialized value).
func Supertype[S any](d *Deserializer) (S, error) {
	var zero S
	t := reflect.TypeOf((*S)(nil)).Elem()
	name, ok := nameOf(t)
	if !ok {
		return zero, &MissingOperationError{TypeName: t.String(), Reason: "anonymous/locally-scoped type has no stable identity"}
	}
	if d.curFrame == nil {
		return zero, &FramingError{Reason: "Supertype called outside an object frame"}
	}
	v, ok := d.curFrame.supertypes[name]
	if !ok {
		return zero, &MissingOperationError{TypeName: name, Reason: "no supertype packet with this name in the current frame"}
	}
	sv, ok := v.(S)
	if !ok {
		return zero, fmt.Errorf("kanary: supertype %s does not satisfy requested type %s", name, t.String())
	}
	return sv, nil
}

// Superclass returns the nearest supertype packet buffered for the object
// block currently being read, without requiring its exact type up front.
func (d *Deserializer) Superclass() (interface{}, error) {
	if d.curFrame == nil {
		return nil, &FramingError{Reason: "Superclass called outside an object frame"}
	}
	if d.curFrame.nearest != "" {
		return d.curFrame.supertypes[d.curFrame.nearest], nil
	}
	if d.curFrame.hasBuiltinSuper {
		return d.curFrame.builtinSuper, nil
	}
	return nil, &MissingOperationError{TypeName: d.curFrame.name, Reason: "no supertype packet in the current frame"}
}
