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
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// This file implements a yaml front end for the analyses: a program model serialized by an
// external front end is deserialized into the ir representation. The engine does not care
// which front end produced the graph; this loader exists so that the command line tool and
// the tests can feed programs to the engine without a compiler integration.

// constPrefix marks a value token as a literal constant instead of a local name.
const constPrefix = "const:"

type programSpec struct {
	Types   []typeSpec   `yaml:"types"`
	Methods []methodSpec `yaml:"methods"`
}

type typeSpec struct {
	Name       string   `yaml:"name"`
	Base       string   `yaml:"base"`
	Interfaces []string `yaml:"interfaces"`
}

type methodSpec struct {
	Package  string      `yaml:"package"`
	Receiver string      `yaml:"receiver"`
	Method   string      `yaml:"method"`
	Pos      string      `yaml:"pos"`
	Recv     *paramSpec  `yaml:"recv"`
	Params   []paramSpec `yaml:"params"`
	Blocks   []blockSpec `yaml:"blocks"`
}

type paramSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type blockSpec struct {
	Ops   []opSpec `yaml:"ops"`
	Succs []int    `yaml:"succs"`
}

type opSpec struct {
	Op       string   `yaml:"op"`
	Dst      string   `yaml:"dst"`
	Src      string   `yaml:"src"`
	Callee   *sigSpec `yaml:"callee"`
	Recv     string   `yaml:"recv"`
	Args     []string `yaml:"args"`
	Type     string   `yaml:"type"`
	Field    string   `yaml:"field"`
	Base     string   `yaml:"base"`
	Idx      string   `yaml:"idx"`
	X        string   `yaml:"x"`
	Y        string   `yaml:"y"`
	Operator string   `yaml:"operator"`
	Cond     string   `yaml:"cond"`
	Results  []string `yaml:"results"`
	Operands []string `yaml:"operands"`
	Note     string   `yaml:"note"`
	Pos      string   `yaml:"pos"`
}

type sigSpec struct {
	Package  string `yaml:"package"`
	Receiver string `yaml:"receiver"`
	Method   string `yaml:"method"`
	Field    string `yaml:"field"`
	Type     string `yaml:"type"`
}

// LoadProgram reads one or more yaml program-model files and assembles them into a single
// Program. Later files may not redefine a method declared in an earlier file.
func LoadProgram(filenames ...string) (*Program, error) {
	prog := &Program{Methods: map[string]*Method{}}
	table := NewTypeTable()
	prog.Oracle = table
	for _, filename := range filenames {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("could not read program file: %w", err)
		}
		if err := parseInto(prog, table, b); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	return prog, nil
}

// ParseProgram deserializes a single yaml program model.
func ParseProgram(b []byte) (*Program, error) {
	prog := &Program{Methods: map[string]*Method{}}
	table := NewTypeTable()
	prog.Oracle = table
	if err := parseInto(prog, table, b); err != nil {
		return nil, err
	}
	return prog, nil
}

func parseInto(prog *Program, table *TypeTable, b []byte) error {
	var spec programSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return fmt.Errorf("could not unmarshal program model: %w", err)
	}
	for _, t := range spec.Types {
		table.Declare(t.Name, t.Base, t.Interfaces)
	}
	for _, ms := range spec.Methods {
		m, err := buildMethod(ms)
		if err != nil {
			return err
		}
		key := m.Sig.Key()
		if _, dup := prog.Methods[key]; dup {
			return fmt.Errorf("method %s defined twice", key)
		}
		prog.Methods[key] = m
	}
	return nil
}

// methodBuilder tracks the locals of the method being deserialized so that every mention of
// a name yields the same *Local.
type methodBuilder struct {
	locals map[string]*Local
}

func (mb *methodBuilder) local(name string, typ string) *Local {
	if l, ok := mb.locals[name]; ok {
		if l.Type == "" {
			l.Type = typ
		}
		return l
	}
	l := &Local{ID: name, Type: typ}
	mb.locals[name] = l
	return l
}

// value resolves a value token: "const:..." is a literal, anything else names a local.
func (mb *methodBuilder) value(token string) Value {
	if strings.HasPrefix(token, constPrefix) {
		return &Const{Value: strings.TrimPrefix(token, constPrefix)}
	}
	return mb.local(token, "")
}

func (mb *methodBuilder) values(tokens []string) []Value {
	var vals []Value
	for _, t := range tokens {
		vals = append(vals, mb.value(t))
	}
	return vals
}

func (mb *methodBuilder) optValue(token string) Value {
	if token == "" {
		return nil
	}
	return mb.value(token)
}

func (mb *methodBuilder) optLocal(token string) *Local {
	if token == "" {
		return nil
	}
	return mb.local(token, "")
}

func buildMethod(ms methodSpec) (*Method, error) {
	if ms.Method == "" {
		return nil, fmt.Errorf("method entry with no name in package %q", ms.Package)
	}
	mb := &methodBuilder{locals: map[string]*Local{}}
	m := &Method{
		Sig: Signature{Package: ms.Package, Receiver: ms.Receiver, Method: ms.Method},
		At:  parsePos(ms.Pos),
	}
	if ms.Recv != nil {
		m.Recv = mb.local(ms.Recv.Name, ms.Recv.Type)
	}
	for _, p := range ms.Params {
		m.Params = append(m.Params, mb.local(p.Name, p.Type))
	}

	for i, bs := range ms.Blocks {
		block := &Block{Index: i}
		for j, ops := range bs.Ops {
			op, err := buildOp(mb, ops, defaultPos(m.Sig, i, j))
			if err != nil {
				return nil, fmt.Errorf("method %s, block %d, op %d: %w", m.Sig, i, j, err)
			}
			block.Ops = append(block.Ops, op)
		}
		m.Blocks = append(m.Blocks, block)
	}
	// Succs indexes can only be resolved once all blocks exist.
	for i, bs := range ms.Blocks {
		for _, s := range bs.Succs {
			if s < 0 || s >= len(m.Blocks) {
				return nil, fmt.Errorf("method %s, block %d: successor %d out of range", m.Sig, i, s)
			}
			succ := m.Blocks[s]
			m.Blocks[i].Succs = append(m.Blocks[i].Succs, succ)
			succ.Preds = append(succ.Preds, m.Blocks[i])
		}
	}
	return m, nil
}

func buildOp(mb *methodBuilder, spec opSpec, fallback Position) (Operation, error) {
	pos := parsePos(spec.Pos)
	if !pos.IsValid() {
		pos = fallback
	}
	switch spec.Op {
	case "assign":
		if spec.Dst == "" || spec.Src == "" {
			return nil, fmt.Errorf("assign requires dst and src")
		}
		return &Assign{At: pos, Dst: mb.local(spec.Dst, ""), Src: mb.value(spec.Src)}, nil
	case "call":
		if spec.Callee == nil {
			return nil, fmt.Errorf("call requires a callee")
		}
		return &Call{
			At:  pos,
			Dst: mb.optLocal(spec.Dst),
			Callee: Signature{
				Package:  spec.Callee.Package,
				Receiver: spec.Callee.Receiver,
				Method:   spec.Callee.Method,
				Field:    spec.Callee.Field,
				Type:     spec.Callee.Type,
			},
			Recv: mb.optValue(spec.Recv),
			Args: mb.values(spec.Args),
		}, nil
	case "new":
		if spec.Dst == "" {
			return nil, fmt.Errorf("new requires dst")
		}
		return &New{At: pos, Dst: mb.local(spec.Dst, spec.Type), TypeName: spec.Type, Args: mb.values(spec.Args)}, nil
	case "field-load":
		if spec.Dst == "" || spec.Recv == "" {
			return nil, fmt.Errorf("field-load requires dst and recv")
		}
		return &FieldLoad{At: pos, Dst: mb.local(spec.Dst, ""), Recv: mb.value(spec.Recv),
			Field: spec.Field, TypeName: spec.Type}, nil
	case "field-store":
		if spec.Recv == "" || spec.Src == "" {
			return nil, fmt.Errorf("field-store requires recv and src")
		}
		return &FieldStore{At: pos, Recv: mb.local(spec.Recv, ""), Field: spec.Field,
			TypeName: spec.Type, Src: mb.value(spec.Src)}, nil
	case "index":
		if spec.Dst == "" || spec.Base == "" {
			return nil, fmt.Errorf("index requires dst and base")
		}
		return &Index{At: pos, Dst: mb.local(spec.Dst, ""), Base: mb.value(spec.Base),
			Idx: mb.optValue(spec.Idx)}, nil
	case "binary":
		if spec.Dst == "" || spec.X == "" || spec.Y == "" {
			return nil, fmt.Errorf("binary requires dst, x and y")
		}
		return &Binary{At: pos, Op: spec.Operator, Dst: mb.local(spec.Dst, ""),
			X: mb.value(spec.X), Y: mb.value(spec.Y)}, nil
	case "branch":
		if spec.Cond == "" {
			return nil, fmt.Errorf("branch requires cond")
		}
		return &Branch{At: pos, Cond: mb.value(spec.Cond)}, nil
	case "return":
		return &Return{At: pos, Results: mb.values(spec.Results)}, nil
	default:
		// Anything else flows through the analyses as a conservative pass-through.
		return &Unknown{At: pos, Dst: mb.optLocal(spec.Dst), Operands: mb.values(spec.Operands),
			Note: spec.Op}, nil
	}
}

// parsePos parses "file:line" or "file:line:col". An empty or unparseable string yields an
// invalid position and the caller falls back to a synthesized one.
func parsePos(s string) Position {
	if s == "" {
		return Position{}
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return Position{File: s}
	}
	line, err := strconv.Atoi(parts[1])
	if err != nil {
		return Position{File: s}
	}
	pos := Position{File: parts[0], Line: line}
	if len(parts) > 2 {
		if col, err := strconv.Atoi(parts[2]); err == nil {
			pos.Col = col
		}
	}
	return pos
}

// defaultPos synthesizes a stable position for an operation that has none, so that finding
// de-duplication still has a unique key per call site.
func defaultPos(sig Signature, blockIdx int, opIdx int) Position {
	return Position{File: sig.Key(), Line: blockIdx + 1, Col: opIdx + 1}
}
