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

// OpKind discriminates the typed operations of a basic block.
type OpKind int

const (
	OpAssign OpKind = iota
	OpCall
	OpNew
	OpFieldLoad
	OpFieldStore
	OpIndex
	OpBinary
	OpBranch
	OpReturn
	OpUnknown
)

func (k OpKind) String() string {
	switch k {
	case OpAssign:
		return "assign"
	case OpCall:
		return "call"
	case OpNew:
		return "new"
	case OpFieldLoad:
		return "field-load"
	case OpFieldStore:
		return "field-store"
	case OpIndex:
		return "index"
	case OpBinary:
		return "binary"
	case OpBranch:
		return "branch"
	case OpReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Operation is one typed operation of a basic block. Uses returns the operand values the
// operation reads, Def the location it writes (nil when it writes none). Analyses that do
// not special-case a kind can fall back to a conservative Uses/Def treatment, which keeps
// them total over graphs containing operation kinds they do not recognize.
type Operation interface {
	Kind() OpKind
	Pos() Position
	Uses() []Value
	Def() *Local
}

// Assign copies a value into a local: Dst = Src.
type Assign struct {
	At  Position
	Dst *Local
	Src Value
}

func (o *Assign) Kind() OpKind  { return OpAssign }
func (o *Assign) Pos() Position { return o.At }
func (o *Assign) Uses() []Value { return []Value{o.Src} }
func (o *Assign) Def() *Local   { return o.Dst }

// Call invokes the member identified by Callee: Dst = Recv.Callee(Args...). Recv is nil for
// package-level functions, Dst is nil when the result is discarded.
type Call struct {
	At     Position
	Dst    *Local
	Callee Signature
	Recv   Value
	Args   []Value
}

func (o *Call) Kind() OpKind  { return OpCall }
func (o *Call) Pos() Position { return o.At }

func (o *Call) Uses() []Value {
	var uses []Value
	if o.Recv != nil {
		uses = append(uses, o.Recv)
	}
	uses = append(uses, o.Args...)
	return uses
}

func (o *Call) Def() *Local { return o.Dst }

// New constructs a value of the named type from the given constituents:
// Dst = new TypeName(Args...).
type New struct {
	At       Position
	Dst      *Local
	TypeName string
	Args     []Value
}

func (o *New) Kind() OpKind  { return OpNew }
func (o *New) Pos() Position { return o.At }
func (o *New) Uses() []Value { return o.Args }
func (o *New) Def() *Local   { return o.Dst }

// FieldLoad reads a field: Dst = Recv.Field.
type FieldLoad struct {
	At       Position
	Dst      *Local
	Recv     Value
	Field    string
	TypeName string
}

func (o *FieldLoad) Kind() OpKind  { return OpFieldLoad }
func (o *FieldLoad) Pos() Position { return o.At }
func (o *FieldLoad) Uses() []Value { return []Value{o.Recv} }
func (o *FieldLoad) Def() *Local   { return o.Dst }

// Sig returns the qualified signature of the accessed field, used for catalog matching of
// field sources.
func (o *FieldLoad) Sig(pkg string) Signature {
	return Signature{Package: pkg, Type: o.TypeName, Field: o.Field}
}

// FieldStore writes a field: Recv.Field = Src.
type FieldStore struct {
	At       Position
	Recv     *Local
	Field    string
	TypeName string
	Src      Value
}

func (o *FieldStore) Kind() OpKind  { return OpFieldStore }
func (o *FieldStore) Pos() Position { return o.At }
func (o *FieldStore) Uses() []Value { return []Value{o.Recv, o.Src} }
func (o *FieldStore) Def() *Local   { return nil }

// Index reads an element: Dst = Base[Idx].
type Index struct {
	At   Position
	Dst  *Local
	Base Value
	Idx  Value
}

func (o *Index) Kind() OpKind  { return OpIndex }
func (o *Index) Pos() Position { return o.At }

func (o *Index) Uses() []Value {
	if o.Idx == nil {
		return []Value{o.Base}
	}
	return []Value{o.Base, o.Idx}
}

func (o *Index) Def() *Local { return o.Dst }

// Binary combines two operands: Dst = X op Y. The operator itself is irrelevant to taint.
type Binary struct {
	At  Position
	Op  string
	Dst *Local
	X   Value
	Y   Value
}

func (o *Binary) Kind() OpKind  { return OpBinary }
func (o *Binary) Pos() Position { return o.At }
func (o *Binary) Uses() []Value { return []Value{o.X, o.Y} }
func (o *Binary) Def() *Local   { return o.Dst }

// Branch evaluates a condition; which successor executes next is carried by the block edges.
// The analyses here are not path-sensitive: the same state flows to all successors.
type Branch struct {
	At   Position
	Cond Value
}

func (o *Branch) Kind() OpKind  { return OpBranch }
func (o *Branch) Pos() Position { return o.At }
func (o *Branch) Uses() []Value { return []Value{o.Cond} }
func (o *Branch) Def() *Local   { return nil }

// Return terminates the method with the given results.
type Return struct {
	At      Position
	Results []Value
}

func (o *Return) Kind() OpKind  { return OpReturn }
func (o *Return) Pos() Position { return o.At }
func (o *Return) Uses() []Value { return o.Results }
func (o *Return) Def() *Local   { return nil }

// Unknown stands for an operation kind the front end could not classify. Dst and Operands
// still describe its dataflow shape, so analyses can treat it as a conservative
// pass-through instead of failing.
type Unknown struct {
	At       Position
	Dst      *Local
	Operands []Value
	Note     string
}

func (o *Unknown) Kind() OpKind  { return OpUnknown }
func (o *Unknown) Pos() Position { return o.At }
func (o *Unknown) Uses() []Value { return o.Operands }
func (o *Unknown) Def() *Local   { return o.Dst }
