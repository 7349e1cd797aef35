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

package ir

import (
	"fmt"
)

// Position locates an operation in the analyzed source. Positions are carried through the
// analysis unchanged and are only used for reporting and finding de-duplication.
type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) String() string {
	if p.File == "" {
		return "-"
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// IsValid returns true when the position carries location information.
func (p Position) IsValid() bool {
	return p.File != ""
}

// A Value is an operand of an operation: either a named local location or a constant.
type Value interface {
	Name() string
	value()
}

// Local is a named storage location inside a method: a local variable or a parameter.
// Locals are tracked by the abstract analysis state; two operations referring to the same
// *Local refer to the same location.
type Local struct {
	ID   string
	Type string
}

// Name returns the identifier of the local.
func (l *Local) Name() string { return l.ID }

func (l *Local) value() {}

func (l *Local) String() string { return l.ID }

// Const is a literal operand. Constants never carry taint.
type Const struct {
	Value string
}

// Name returns the literal, quoted.
func (c *Const) Name() string { return fmt.Sprintf("%q", c.Value) }

func (c *Const) value() {}

func (c *Const) String() string { return c.Name() }

// Block is a basic block: an ordered sequence of operations with control-flow edges to and
// from other blocks. Blocks[0] of a method is its entry block.
type Block struct {
	Index int
	Ops   []Operation
	Succs []*Block
	Preds []*Block
}

func (b *Block) String() string {
	return fmt.Sprintf("block %d", b.Index)
}

// Method is an analyzed method body: a named, typed control-flow graph.
type Method struct {
	Sig    Signature
	Recv   *Local
	Params []*Local
	Blocks []*Block
	At     Position
}

// Entry returns the entry block of the method, or nil for an empty (external) method.
func (m *Method) Entry() *Block {
	if len(m.Blocks) == 0 {
		return nil
	}
	return m.Blocks[0]
}

func (m *Method) String() string {
	return m.Sig.String()
}

// Program is the analysis unit: the set of method bodies the front end resolved, plus the
// type-relationship oracle. Methods is keyed by Signature.Key of each method.
type Program struct {
	Methods map[string]*Method
	Oracle  TypeOracle
}

// MethodFor returns the analyzed method a call with the given callee signature resolves to,
// or nil when the callee is outside the analysis unit. Resolution is by exact qualified
// signature; virtual calls that cannot be resolved this way are treated conservatively by
// the engine.
func (p *Program) MethodFor(callee Signature) *Method {
	if p == nil || p.Methods == nil {
		return nil
	}
	return p.Methods[callee.Key()]
}

// CallEdges returns the adjacency list of the program call graph restricted to methods
// within the analysis unit. Keys are method signature keys.
func (p *Program) CallEdges() map[string][]string {
	edges := make(map[string][]string, len(p.Methods))
	for key, m := range p.Methods {
		var callees []string
		seen := map[string]bool{}
		for _, b := range m.Blocks {
			for _, op := range b.Ops {
				call, ok := op.(*Call)
				if !ok {
					continue
				}
				calleeKey := call.Callee.Key()
				if _, inUnit := p.Methods[calleeKey]; inUnit && !seen[calleeKey] {
					seen[calleeKey] = true
					callees = append(callees, calleeKey)
				}
			}
		}
		edges[key] = callees
	}
	return edges
}
