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

// Package ir defines the control-flow graph abstraction consumed by the dataflow analyses:
// programs, methods, basic blocks and typed operations, plus the type-relationship oracle
// used for catalog pattern matching.
//
// The engine consumes this representation, it does not build it from source text. A front
// end (compiler integration, bytecode lifter, or the yaml program loader in this package)
// is responsible for producing well-formed graphs. Validate checks the structural
// assumptions the analyses rely on; an inconsistent graph fails that single method's
// analysis and nothing else.
//
// The package also provides the generic forward worklist driver (RunForwardIterative) shared
// by the fixpoint analyses.
package ir
