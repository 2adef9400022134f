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
	"sort"

	"github.com/spaolacci/murmur3"
)

// ProtocolDescriptor is the structural description of one registered
// protocol: its name, declared ancestry, and read/write shape. It carries
// no behavior, since a Read/Write closure cannot be reconstructed from
// bytes alone (spec §4.7).
type ProtocolDescriptor struct {
	Name        string
	Supertypes  []string
	HasWrite    bool
	HasRead     bool
	HasFallback bool
	HasStatic   bool
}

// SchemaDescriptor is a Schema's structural fingerprint (spec §4.7): every
// protocol's descriptor in canonical, name-sorted order, plus a murmur3
// hash over that structure for a fast compatibility check between a
// writer's schema and a reader's schema.
type SchemaDescriptor struct {
	Fingerprint uint64
	Protocols   []ProtocolDescriptor
}

// Describe builds s's structural descriptor. Protocols are sorted by name
// so that two schemas with identical registered protocols always produce
// the same fingerprint regardless of Define order.
func (s *Schema) Describe() *SchemaDescriptor {
	descs := make([]ProtocolDescriptor, 0, len(s.protocols))
	for _, p := range s.protocols {
		supers := make([]string, len(p.supertypes))
		for i, t := range p.supertypes {
			name, _ := nameOf(t)
			supers[i] = name
		}
		descs = append(descs, ProtocolDescriptor{
			Name:        p.name,
			Supertypes:  supers,
			HasWrite:    p.hasWrite,
			HasRead:     p.hasRead,
			HasFallback: p.hasFallback,
			HasStatic:   p.hasStatic,
		})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })

	h := murmur3.New64()
	for _, d := range descs {
		h.Write([]byte(d.Name))
		for _, anc := range d.Supertypes {
			h.Write([]byte(anc))
		}
		h.Write([]byte{flagByte(d)})
	}
	return &SchemaDescriptor{Fingerprint: h.Sum64(), Protocols: descs}
}

func flagByte(d ProtocolDescriptor) byte {
	var flags byte
	if d.HasWrite {
		flags |= 1
	}
	if d.HasRead {
		flags |= 2
	}
	if d.HasFallback {
		flags |= 4
	}
	if d.HasStatic {
		flags |= 8
	}
	return flags
}

// Encode writes d to sink: an 8-byte murmur3 fingerprint, a 4-byte
// protocol count, then each protocol's name, supertype names, and packed
// flag byte, in the canonical order Describe produced.
func (d *SchemaDescriptor) Encode(sink ByteSink) error {
	w := newByteWriter(sink)
	if err := w.writeLong(int64(d.Fingerprint)); err != nil {
		return err
	}
	if err := w.writeInt(int32(len(d.Protocols))); err != nil {
		return err
	}
	for _, p := range d.Protocols {
		if err := w.writeStringBytes(p.Name); err != nil {
			return err
		}
		if err := w.writeInt(int32(len(p.Supertypes))); err != nil {
			return err
		}
		for _, anc := range p.Supertypes {
			if err := w.writeStringBytes(anc); err != nil {
				return err
			}
		}
		if err := w.writeByte(flagByte(p)); err != nil {
			return err
		}
	}
	return w.flush()
}

// DecodeSchemaDescriptor reads back a fingerprint written by Encode. The
// result describes a remote schema's shape only; Go cannot synthesize
// read/write closures from bytes, so reconstructing a usable Schema still
// requires a local Builder built with Define. Use Compatible to compare
// a decoded descriptor against a locally built Schema.
func DecodeSchemaDescriptor(source ByteSource) (*SchemaDescriptor, error) {
	r := newByteReader(source)
	fp, err := r.readLong()
	if err != nil {
		return nil, err
	}
	n, err := r.readInt()
	if err != nil {
		return nil, err
	}
	protos := make([]ProtocolDescriptor, n)
	for i := range protos {
		name, err := r.readStringBytes()
		if err != nil {
			return nil, err
		}
		sn, err := r.readInt()
		if err != nil {
			return nil, err
		}
		supers := make([]string, sn)
		for j := range supers {
			if supers[j], err = r.readStringBytes(); err != nil {
				return nil, err
			}
		}
		flags, err := r.readByte()
		if err != nil {
			return nil, err
		}
		protos[i] = ProtocolDescriptor{
			Name:        name,
			Supertypes:  supers,
			HasWrite:    flags&1 != 0,
			HasRead:     flags&2 != 0,
			HasFallback: flags&4 != 0,
			HasStatic:   flags&8 != 0,
		}
	}
	return &SchemaDescriptor{Fingerprint: uint64(fp), Protocols: protos}, nil
}

// Compatible reports whether remote describes the same protocols as s:
// same names, same declared ancestry, same read/write shape. Fingerprints
// are compared first as a fast path: a mismatch is rejected at once; on a
// match it goes on to a full structural comparison so a hash collision
// never produces a false positive.
func (s *Schema) Compatible(remote *SchemaDescriptor) bool {
	local := s.Describe()
	if local.Fingerprint != remote.Fingerprint {
		return false
	}
	if len(local.Protocols) != len(remote.Protocols) {
		return false
	}
	for i := range local.Protocols {
		a, b := local.Protocols[i], remote.Protocols[i]
		if a.Name != b.Name || a.HasWrite != b.HasWrite || a.HasRead != b.HasRead ||
			a.HasFallback != b.HasFallback || a.HasStatic != b.HasStatic ||
			len(a.Supertypes) != len(b.Supertypes) {
			return false
		}
		for j := range a.Supertypes {
			if a.Supertypes[j] != b.Supertypes[j] {
				return false
			}
		}
	}
	return true
}
