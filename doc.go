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

// Package kanary implements a compact, self-describing binary serialization
// engine. Programs declare a Schema of per-type read/write Protocols, then
// hand values to a Serializer and bytes to a Deserializer. The wire format
// is tagged (every value is preceded by a one-byte TypeFlag) so a
// Deserializer can reconstruct a heterogeneous, polymorphic object graph
// without an externally shared type registry beyond the Schema itself.
//
// The engine does not interpret or generate a schema-declaration DSL, does
// not own stream transport (callers supply a ByteSink/ByteSource), and does
// not serialize arbitrary function values beyond tagging them and handing
// their bytes to a caller-supplied OpaqueCodec.
package kanary
