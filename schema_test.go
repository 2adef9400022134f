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
	"testing"

	"github.com/stretchr/testify/require"
)

type schemaParent struct{ Name string }
type schemaSub struct {
	schemaParent
	Age int32
}
type schemaSubSub struct {
	schemaSub
	Nick string
}

func buildParentSubSubSchema(t *testing.T) *Schema {
	b := NewBuilder()
	Define[schemaParent](b).Write(func(s *Serializer, v schemaParent) error {
		return s.WriteString(v.Name)
	}).Read(func(d *Deserializer) (schemaParent, error) {
		name, err := d.ReadString()
		return schemaParent{Name: name}, err
	})

	parentType := reflect.TypeOf(schemaParent{})
	Define[schemaSub](b, parentType).Write(func(s *Serializer, v schemaSub) error {
		return s.WriteInt(v.Age)
	}).Read(func(d *Deserializer) (schemaSub, error) {
		age, err := d.ReadInt()
		if err != nil {
			return schemaSub{}, err
		}
		parent, err := Supertype[schemaParent](d)
		return schemaSub{schemaParent: parent, Age: age}, err
	})

	subType := reflect.TypeOf(schemaSub{})
	Define[schemaSubSub](b, parentType, subType).Write(func(s *Serializer, v schemaSubSub) error {
		return s.WriteString(v.Nick)
	}).Read(func(d *Deserializer) (schemaSubSub, error) {
		nick, err := d.ReadString()
		if err != nil {
			return schemaSubSub{}, err
		}
		sub, err := Supertype[schemaSub](d)
		return schemaSubSub{schemaSub: sub, Nick: nick}, err
	})

	schema, err := b.Build()
	require.Nil(t, err)
	return schema
}

func TestWriteSequenceIncludesDeclaredAncestorsInOrder(t *testing.T) {
	schema := buildParentSubSubSchema(t)
	seq := schema.writeSeq[reflect.TypeOf(schemaSubSub{})]
	require.Len(t, seq, 3)
	require.Contains(t, seq[0].name, "schemaSubSub")
	require.Contains(t, seq[1].name, "schemaParent")
	require.Contains(t, seq[2].name, "schemaSub")
}

func TestReadResolutionPrefersOwnReader(t *testing.T) {
	schema := buildParentSubSubSchema(t)
	res := schema.readRes[reflect.TypeOf(schemaSub{})]
	require.Contains(t, res.name, "schemaSub")
}

func TestBuildSucceedsForSingleProtocol(t *testing.T) {
	b := NewBuilder()
	Define[schemaParent](b).Write(func(s *Serializer, v schemaParent) error { return nil })
	_, err := b.Build()
	require.Nil(t, err)
}

func TestNameOfRejectsAnonymousStruct(t *testing.T) {
	anon := reflect.TypeOf(struct{ X int }{})
	_, ok := nameOf(anon)
	require.False(t, ok)
}
