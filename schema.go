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
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Builder accumulates Protocol definitions before being frozen into a
// Schema by Build. A Builder built with WithThreadSafe(true) may be
// mutated concurrently from multiple goroutines during definition (spec
// §6's threadSafe option); the default Builder assumes single-goroutine
// use, matching spec §5's "Schema construction is safe only when
// opted-in."
type Builder struct {
	opts schemaOptions

	mu         sync.Mutex
	protocols  map[reflect.Type]*protocol
	order      []reflect.Type
	errs       []error
}

// NewBuilder returns an empty Builder configured by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{protocols: map[reflect.Type]*protocol{}}
	for _, o := range opts {
		o(&b.opts)
	}
	return b
}

func (b *Builder) lock() {
	if b.opts.threadSafe {
		b.mu.Lock()
	}
}

func (b *Builder) unlock() {
	if b.opts.threadSafe {
		b.mu.Unlock()
	}
}

func (b *Builder) fail(err error) {
	b.lock()
	defer b.unlock()
	b.errs = append(b.errs, err)
}

// Define adds a protocol slot for T, whose supertypes list declares T's
// full ancestor chain root-first (farthest ancestor at index 0). Define
// panics if T's reflect.Type is nil (a programmer error: T must be a
// concrete or interface type, never a nil literal), mirroring the
// teacher's registerType panic on a nil reflect.Type.
func Define[T any](b *Builder, supertypes ...reflect.Type) *ProtocolBuilder[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t == nil {
		panic("kanary: Define called with a nil type")
	}

	b.lock()
	defer b.unlock()

	name, ok := nameOf(t)
	if !ok {
		b.errs = append(b.errs, &MalformedProtocolError{
			TypeName: t.String(),
			Reason:   "anonymous/locally-scoped types are rejected at protocol definition",
		})
	}
	if isExactBuiltinType(t) {
		b.errs = append(b.errs, &MalformedProtocolError{
			TypeName: name,
			Reason:   "type already has a built-in handler",
		})
	}
	if _, exists := b.protocols[t]; exists {
		b.errs = append(b.errs, &MalformedProtocolError{
			TypeName: name,
			Reason:   "protocol already defined for this type",
		})
	}

	p := &protocol{typ: t, name: name, supertypes: supertypes}
	b.protocols[t] = p
	b.order = append(b.order, t)
	return &ProtocolBuilder[T]{b: b, p: p}
}

// nameOf returns a type's stable, process-unique identity string, or
// false if t cannot be named (an anonymous struct literal, or a type with
// no package path and no name).
func nameOf(t reflect.Type) (string, bool) {
	if t.Kind() == reflect.Struct && t.Name() == "" {
		return "", false
	}
	if t.Name() == "" {
		return "", false
	}
	if t.PkgPath() == "" {
		// Predeclared types (int, int32, string, ...) have a name but no
		// package path; their bare name is already stable and unique.
		return t.Name(), true
	}
	return t.PkgPath() + "." + t.Name(), true
}

func containsType(types []reflect.Type, t reflect.Type) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// Schema is an immutable registry mapping runtime type to Protocol, plus
// the derived write-sequence and read-resolution indices (spec §3). A
// built Schema is safe to share across goroutines.
type Schema struct {
	protocols map[reflect.Type]*protocol
	byName    map[string]*protocol
	order     []reflect.Type
	writeSeq  map[reflect.Type][]*protocol
	readRes   map[reflect.Type]*protocol
	opaque    OpaqueCodec
}

// Build validates every accumulated definition and freezes the Builder
// into a Schema. If any MalformedProtocolErrors were collected during
// definition, they are returned together via errors.Join and the
// finalization checks are not run; otherwise every error found during
// finalization is returned together via errors.Join. Build returns a nil
// Schema if any error is present.
func (b *Builder) Build() (*Schema, error) {
	b.lock()
	defer b.unlock()

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	byName := map[string]*protocol{}
	var errs []error
	for _, t := range b.order {
		p := b.protocols[t]
		if other, exists := byName[p.name]; exists && other != p {
			errs = append(errs, &MalformedProtocolError{TypeName: p.name, Reason: "duplicate type name in schema"})
			continue
		}
		byName[p.name] = p
	}

	// Static exclusivity: no subtype of a static-write type may itself
	// define a write op (spec §3, §4.3; rechecked here regardless of
	// insertion order).
	for _, t := range b.order {
		p := b.protocols[t]
		if !p.hasStatic {
			continue
		}
		for _, u := range b.order {
			q := b.protocols[u]
			if q == p || !q.hasWrite {
				continue
			}
			if containsType(q.supertypes, t) {
				errs = append(errs, &MalformedProtocolError{
					TypeName: q.name,
					Reason:   fmt.Sprintf("subtype of static writer %s may not define a write op", p.name),
				})
			}
		}
	}

	writeSeq := map[reflect.Type][]*protocol{}
	readRes := map[reflect.Type]*protocol{}
	for _, t := range b.order {
		p := b.protocols[t]
		seq := computeWriteSequence(p, b.protocols)
		if len(seq) > 255 {
			errs = append(errs, &MalformedProtocolError{
				TypeName: p.name,
				Reason:   "write sequence exceeds 255 ancestor writers (superCount is one byte)",
			})
			continue
		}
		writeSeq[t] = seq
		readRes[t] = computeReadResolution(p, b.protocols)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Schema{
		protocols: b.protocols,
		byName:    byName,
		order:     b.order,
		writeSeq:  writeSeq,
		readRes:   readRes,
		opaque:    b.opts.opaque,
	}, nil
}

// computeWriteSequence returns T's own writer (if any) followed by every
// ancestor writer in declaration order, stopping as soon as an included
// entry has hasStatic (spec §3's "Write sequence for T").
func computeWriteSequence(p *protocol, protocols map[reflect.Type]*protocol) []*protocol {
	var seq []*protocol
	if p.hasWrite {
		seq = append(seq, p)
		if p.hasStatic {
			return seq
		}
	}
	for _, ancT := range p.supertypes {
		anc, ok := protocols[ancT]
		if !ok || !anc.hasWrite {
			continue
		}
		seq = append(seq, anc)
		if anc.hasStatic {
			break
		}
	}
	return seq
}

// computeReadResolution returns T's own reader if it has one, else the
// nearest ancestor (searched nearest-first) whose reader has hasFallback,
// else nil (spec §3's "Read resolution for T").
func computeReadResolution(p *protocol, protocols map[reflect.Type]*protocol) *protocol {
	if p.hasRead {
		return p
	}
	for i := len(p.supertypes) - 1; i >= 0; i-- {
		anc, ok := protocols[p.supertypes[i]]
		if ok && anc.hasRead && anc.hasFallback {
			return anc
		}
	}
	return nil
}

// protocolFor returns the protocol registered for exactly t, if any.
func (s *Schema) protocolFor(t reflect.Type) (*protocol, bool) {
	p, ok := s.protocols[t]
	return p, ok
}

// protocolByName looks up a protocol by its schema-stable type name, used
// by the Deserializer to resolve an OBJECT block's declared name (spec
// §4.6 step c).
func (s *Schema) protocolByName(name string) (*protocol, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// findAncestorProtocol discovers the "ancestor" of an otherwise
// unregistered concrete type r: the first interface-kind protocol, in
// declaration order, that r implements and that has its own write op.
// This is how Go's structural interface satisfaction stands in for the
// spec's notion of a subtype that was never itself registered (e.g. a
// concrete type implementing an abstract supertype purely by having the
// right methods, spec §4.4's ancestor search).
func (s *Schema) findAncestorProtocol(r reflect.Type) *protocol {
	for _, t := range s.order {
		if t.Kind() != reflect.Interface {
			continue
		}
		if !r.Implements(t) {
			continue
		}
		p := s.protocols[t]
		if p.hasWrite {
			return p
		}
	}
	return nil
}
