// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package taint implements the tainted-dataflow analysis engine: a forward monotone
// fixpoint over the control-flow graph of each analyzed method, propagating a taint
// lattice through assignments, calls and merges, and reporting a finding whenever a
// tainted value reaches a catalog sink without passing through a sanitizer.
//
// One engine serves every vulnerability class: each taint tracking problem of the
// configuration contributes a catalog (sources, sinks, sanitizers and a sink kind) and the
// engine runs once per problem per method body. Calls into methods of the same analysis
// unit are handled by bounded interprocedural summarization; everything outside the unit is
// classified by the catalog or treated as a conservative taint-preserving pass-through.
//
// The analysis is deliberately over-approximating: merges at control-flow joins keep taint,
// loops widen naturally under fixpoint iteration, and unknown operations propagate the
// taint of their operands. False positives are the accepted cost of not missing flows.
package taint
