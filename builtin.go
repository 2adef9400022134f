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

// Char is the engine's two-byte UTF-16 code unit type (spec §4.1's CHAR).
// Go's own rune is four bytes, so values of CHAR type round-trip through
// this distinct type instead.
type Char uint16

// Pair is the built-in PAIR shape: exactly two tagged values.
type Pair struct {
	First, Second interface{}
}

// Triple is the built-in TRIPLE shape: exactly three tagged values.
type Triple struct {
	First, Second, Third interface{}
}

// MapEntry is the built-in MAP_ENTRY shape: one tagged key, one tagged value.
type MapEntry struct {
	Key, Value interface{}
}

// Unit is the built-in UNIT shape: a zero-sized singleton. Any Unit value
// writes as a single FlagUnit byte with no payload.
type Unit struct{}

// Iterable lets a value opt into the built-in ITERABLE shape (unknown
// length, terminated by FlagEndObject) instead of LIST. Per spec §9 open
// question (b), a value that is both a Go slice and an Iterable resolves
// to LIST: slice-kind matching is checked first in the handler table.
type Iterable interface {
	// Iterate calls yield once per element in order. It stops early if
	// yield returns false.
	Iterate(yield func(interface{}) bool)
}

var (
	charType     = reflect.TypeOf(Char(0))
	pairType     = reflect.TypeOf(Pair{})
	tripleType   = reflect.TypeOf(Triple{})
	mapEntryType = reflect.TypeOf(MapEntry{})
	unitType     = reflect.TypeOf(Unit{})

	iterableType = reflect.TypeOf((*Iterable)(nil)).Elem()

	boolSliceType    = reflect.TypeOf([]bool(nil))
	byteSliceType    = reflect.TypeOf([]byte(nil))
	charSliceType    = reflect.TypeOf([]Char(nil))
	shortSliceType   = reflect.TypeOf([]int16(nil))
	intSliceType     = reflect.TypeOf([]int32(nil))
	longSliceType    = reflect.TypeOf([]int64(nil))
	floatSliceType   = reflect.TypeOf([]float32(nil))
	doubleSliceType  = reflect.TypeOf([]float64(nil))
	stringType       = reflect.TypeOf("")
	interfaceType    = reflect.TypeOf((*interface{})(nil)).Elem()
)

// builtinAncestor reports the TypeFlag of the most-specific built-in shape
// matching t, per spec §4.2's "most-specific built-in ancestor" rule. The
// caller-visible resolution order below is fixed: exact primitive types,
// then exact primitive-array types, then Pair/Triple/MapEntry/Unit, then
// slice-kind (LIST), then array-kind (OBJECT_ARRAY), then map-kind (MAP),
// then Iterable (ITERABLE). Every kind is checked ahead of Iterable, so a
// slice type that is also an Iterable resolves to LIST (open question b).
func builtinAncestor(t reflect.Type) (TypeFlag, bool) {
	switch t {
	case reflect.TypeOf(false):
		return FlagBoolean, true
	case reflect.TypeOf(byte(0)):
		return FlagByte, true
	case charType:
		return FlagChar, true
	case reflect.TypeOf(int16(0)):
		return FlagShort, true
	case reflect.TypeOf(int32(0)):
		return FlagInt, true
	case reflect.TypeOf(int64(0)):
		return FlagLong, true
	case reflect.TypeOf(float32(0)):
		return FlagFloat, true
	case reflect.TypeOf(float64(0)):
		return FlagDouble, true
	case stringType:
		return FlagString, true
	case boolSliceType:
		return FlagBooleanArray, true
	case byteSliceType:
		return FlagByteArray, true
	case charSliceType:
		return FlagCharArray, true
	case shortSliceType:
		return FlagShortArray, true
	case intSliceType:
		return FlagIntArray, true
	case longSliceType:
		return FlagLongArray, true
	case floatSliceType:
		return FlagFloatArray, true
	case doubleSliceType:
		return FlagDoubleArray, true
	case pairType:
		return FlagPair, true
	case tripleType:
		return FlagTriple, true
	case mapEntryType:
		return FlagMapEntry, true
	case unitType:
		return FlagUnit, true
	}
	switch t.Kind() {
	case reflect.Slice:
		return FlagList, true
	case reflect.Array:
		return FlagObjectArray, true
	case reflect.Map:
		return FlagMap, true
	}
	if t.Implements(iterableType) {
		return FlagIterable, true
	}
	return 0, false
}

// isExactBuiltinType reports whether t is one of the literal types the
// built-in tables cover directly (as opposed to a type merely resolved to
// a built-in ancestor by kind, e.g. a user-named slice type). Defining a
// schema protocol for one of these is rejected (spec §4.3: "a protocol for
// a type that already has a built-in handler is rejected").
func isExactBuiltinType(t reflect.Type) bool {
	switch t {
	case reflect.TypeOf(false), reflect.TypeOf(byte(0)), charType,
		reflect.TypeOf(int16(0)), reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0)),
		reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)), stringType,
		boolSliceType, byteSliceType, charSliceType, shortSliceType, intSliceType,
		longSliceType, floatSliceType, doubleSliceType,
		pairType, tripleType, mapEntryType, unitType:
		return true
	}
	return false
}

// writeBuiltin emits a value whose most-specific built-in ancestor is
// flag, either via the nullable table (default; member writers recurse
// through s.writeValue so nested nils are tagged NULL) or, when
// nonNull is true, via the non-null path, where member writers go through
// s.writeValueNonNull and a nil member fails with MissingOperationError
// instead of being tagged NULL (spec §4.2).
func (s *Serializer) writeBuiltin(flag TypeFlag, v reflect.Value, nonNull bool) error {
	w := s.w
	switch flag {
	case FlagBoolean:
		return w.writeBool(v.Bool())
	case FlagByte:
		return w.writeByte(v.Interface().(byte))
	case FlagChar:
		return w.writeChar(uint16(v.Interface().(Char)))
	case FlagShort:
		return w.writeShort(int16(v.Int()))
	case FlagInt:
		return w.writeInt(int32(v.Int()))
	case FlagLong:
		return w.writeLong(v.Int())
	case FlagFloat:
		return w.writeFloat(float32(v.Float()))
	case FlagDouble:
		return w.writeDouble(v.Float())
	case FlagString:
		return w.writeStringBytes(v.String())
	case FlagBooleanArray:
		arr := v.Interface().([]bool)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		for _, b := range arr {
			if err := w.writeBool(b); err != nil {
				return err
			}
		}
		return nil
	case FlagByteArray:
		arr := v.Interface().([]byte)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		return w.writeRaw(arr)
	case FlagCharArray:
		arr := v.Interface().([]Char)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		for _, c := range arr {
			if err := w.writeChar(uint16(c)); err != nil {
				return err
			}
		}
		return nil
	case FlagShortArray:
		arr := v.Interface().([]int16)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		for _, x := range arr {
			if err := w.writeShort(x); err != nil {
				return err
			}
		}
		return nil
	case FlagIntArray:
		arr := v.Interface().([]int32)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		for _, x := range arr {
			if err := w.writeInt(x); err != nil {
				return err
			}
		}
		return nil
	case FlagLongArray:
		arr := v.Interface().([]int64)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		for _, x := range arr {
			if err := w.writeLong(x); err != nil {
				return err
			}
		}
		return nil
	case FlagFloatArray:
		arr := v.Interface().([]float32)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		for _, x := range arr {
			if err := w.writeFloat(x); err != nil {
				return err
			}
		}
		return nil
	case FlagDoubleArray:
		arr := v.Interface().([]float64)
		if err := w.writeInt(int32(len(arr))); err != nil {
			return err
		}
		for _, x := range arr {
			if err := w.writeDouble(x); err != nil {
				return err
			}
		}
		return nil
	case FlagUnit:
		return nil
	case FlagPair:
		p := v.Interface().(Pair)
		if err := s.writeMember(p.First, nonNull); err != nil {
			return err
		}
		return s.writeMember(p.Second, nonNull)
	case FlagTriple:
		t := v.Interface().(Triple)
		if err := s.writeMember(t.First, nonNull); err != nil {
			return err
		}
		if err := s.writeMember(t.Second, nonNull); err != nil {
			return err
		}
		return s.writeMember(t.Third, nonNull)
	case FlagMapEntry:
		e := v.Interface().(MapEntry)
		if err := s.writeMember(e.Key, nonNull); err != nil {
			return err
		}
		return s.writeMember(e.Value, nonNull)
	case FlagList:
		return s.writeSliceLike(v, nonNull)
	case FlagObjectArray:
		return s.writeArrayLike(v, nonNull)
	case FlagMap:
		return s.writeMapLike(v, nonNull)
	case FlagIterable:
		return s.writeIterable(v.Interface().(Iterable), nonNull)
	default:
		return fmt.Errorf("kanary: unhandled built-in flag %s", flag)
	}
}

// writeMember dispatches one container element through the nullable or
// non-null fast-path write table, per spec §4.2.
func (s *Serializer) writeMember(v interface{}, nonNull bool) error {
	if nonNull {
		return s.writeValueNonNull(v)
	}
	return s.writeValue(v)
}

func (s *Serializer) writeSliceLike(v reflect.Value, nonNull bool) error {
	n := v.Len()
	if err := s.w.writeInt(int32(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := s.writeMember(v.Index(i).Interface(), nonNull); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) writeArrayLike(v reflect.Value, nonNull bool) error {
	return s.writeSliceLike(v, nonNull)
}

func (s *Serializer) writeMapLike(v reflect.Value, nonNull bool) error {
	keys := v.MapKeys()
	if err := s.w.writeInt(int32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.writeMember(k.Interface(), nonNull); err != nil {
			return err
		}
		if err := s.writeMember(v.MapIndex(k).Interface(), nonNull); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) writeIterable(it Iterable, nonNull bool) error {
	var firstErr error
	it.Iterate(func(elem interface{}) bool {
		if err := s.writeMember(elem, nonNull); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	if firstErr != nil {
		return firstErr
	}
	return s.w.writeFlag(FlagEndObject)
}

// readBuiltin is the dual of writeBuiltin (spec §4.2, §4.6 step 2).
func (d *Deserializer) readBuiltin(flag TypeFlag, nonNull bool) (interface{}, error) {
	r := d.r
	switch flag {
	case FlagBoolean:
		return r.readBool()
	case FlagByte:
		return r.readByte()
	case FlagChar:
		v, err := r.readChar()
		return Char(v), err
	case FlagShort:
		return r.readShort()
	case FlagInt:
		return r.readInt()
	case FlagLong:
		return r.readLong()
	case FlagFloat:
		return r.readFloat()
	case FlagDouble:
		return r.readDouble()
	case FlagString:
		return r.readStringBytes()
	case FlagBooleanArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]bool, n)
		for i := range out {
			if out[i], err = r.readBool(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case FlagByteArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		return r.readRaw(int(n))
	case FlagCharArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]Char, n)
		for i := range out {
			v, err := r.readChar()
			if err != nil {
				return nil, err
			}
			out[i] = Char(v)
		}
		return out, nil
	case FlagShortArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]int16, n)
		for i := range out {
			if out[i], err = r.readShort(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case FlagIntArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			if out[i], err = r.readInt(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case FlagLongArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			if out[i], err = r.readLong(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case FlagFloatArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]float32, n)
		for i := range out {
			if out[i], err = r.readFloat(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case FlagDoubleArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i := range out {
			if out[i], err = r.readDouble(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case FlagUnit:
		return Unit{}, nil
	case FlagPair:
		first, err := d.readMember(nonNull)
		if err != nil {
			return nil, err
		}
		second, err := d.readMember(nonNull)
		if err != nil {
			return nil, err
		}
		return Pair{First: first, Second: second}, nil
	case FlagTriple:
		first, err := d.readMember(nonNull)
		if err != nil {
			return nil, err
		}
		second, err := d.readMember(nonNull)
		if err != nil {
			return nil, err
		}
		third, err := d.readMember(nonNull)
		if err != nil {
			return nil, err
		}
		return Triple{First: first, Second: second, Third: third}, nil
	case FlagMapEntry:
		key, err := d.readMember(nonNull)
		if err != nil {
			return nil, err
		}
		value, err := d.readMember(nonNull)
		if err != nil {
			return nil, err
		}
		return MapEntry{Key: key, Value: value}, nil
	case FlagList, FlagObjectArray:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, n)
		for i := range out {
			if out[i], err = d.readMember(nonNull); err != nil {
				return nil, err
			}
		}
		return out, nil
	case FlagMap:
		n, err := r.readInt()
		if err != nil {
			return nil, err
		}
		out := make(map[interface{}]interface{}, n)
		for i := int32(0); i < n; i++ {
			k, err := d.readMember(nonNull)
			if err != nil {
				return nil, err
			}
			v, err := d.readMember(nonNull)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case FlagIterable:
		var out []interface{}
		for {
			flag, err := r.readFlag()
			if err != nil {
				return nil, err
			}
			if flag == FlagEndObject {
				break
			}
			v, err := d.readTaggedMember(flag, nonNull)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("kanary: unhandled built-in flag %s", flag)
	}
}

func (d *Deserializer) readMember(nonNull bool) (interface{}, error) {
	if nonNull {
		return d.readValueNonNull()
	}
	return d.readValue()
}
