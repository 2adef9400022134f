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

type protoLeaf struct {
	X int32
}

type protoAbstract interface {
	isProtoAbstract()
}

func TestProtocolBuilderWriteTwiceFails(t *testing.T) {
	b := NewBuilder()
	pb := Define[protoLeaf](b)
	pb.Write(func(s *Serializer, v protoLeaf) error { return s.WriteInt(v.X) })
	pb.Write(func(s *Serializer, v protoLeaf) error { return s.WriteInt(v.X) })
	_, err := b.Build()
	require.Error(t, err)
}

func TestProtocolBuilderReadOnAbstractTypeFails(t *testing.T) {
	b := NewBuilder()
	pb := Define[protoAbstract](b)
	pb.Read(func(d *Deserializer) (protoAbstract, error) { return nil, nil })
	_, err := b.Build()
	require.Error(t, err)
}

func TestProtocolBuilderFallbackOnFinalTypeFails(t *testing.T) {
	b := NewBuilder()
	pb := Define[protoLeaf](b)
	pb.Fallback(func(d *Deserializer) (protoLeaf, error) { return protoLeaf{}, nil })
	_, err := b.Build()
	require.Error(t, err)
}

func TestProtocolBuilderStaticExcludesSubtypeWrite(t *testing.T) {
	b := NewBuilder()
	Define[protoLeaf](b).Static(func(s *Serializer, v protoLeaf) error { return s.WriteInt(v.X) })

	type sub struct{ protoLeaf }
	leafType := reflect.TypeOf(protoLeaf{})
	Define[sub](b, leafType).Write(func(s *Serializer, v sub) error { return s.WriteInt(v.X) })

	_, err := b.Build()
	require.Error(t, err)
}

func TestDefineRejectsBuiltinType(t *testing.T) {
	b := NewBuilder()
	Define[int32](b)
	_, err := b.Build()
	require.Error(t, err)
}

func TestDefineRejectsDuplicateRegistration(t *testing.T) {
	b := NewBuilder()
	Define[protoLeaf](b)
	Define[protoLeaf](b)
	_, err := b.Build()
	require.Error(t, err)
}
