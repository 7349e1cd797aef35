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

// TypeOracle is the type-relationship query capability supplied by the front end. The
// analyses never own a type model; they only ask whether one named type derives from
// another when matching catalog entries against inherited members.
type TypeOracle interface {
	// BaseType returns the declared base type of the named type, if it has one.
	BaseType(typeName string) (string, bool)

	// Interfaces returns the interfaces the named type implements directly.
	Interfaces(typeName string) []string
}

// DerivesFrom reports whether typeName is base, derives from base, or implements it,
// walking the base-type chain and the interface sets of every type on it. The traversal is
// finite even on cyclic declarations: each type is visited once.
func DerivesFrom(oracle TypeOracle, typeName string, base string) bool {
	if typeName == base {
		return true
	}
	if oracle == nil {
		return false
	}
	visited := map[string]bool{}
	queue := []string{typeName}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == base {
			return true
		}
		if parent, ok := oracle.BaseType(cur); ok {
			queue = append(queue, parent)
		}
		queue = append(queue, oracle.Interfaces(cur)...)
	}
	return false
}

// Supertypes returns all supertypes of typeName (base classes and interfaces, transitively),
// in breadth-first order, excluding typeName itself. The result is a fresh slice on every
// call; there is no shared cursor between callers.
func Supertypes(oracle TypeOracle, typeName string) []string {
	if oracle == nil {
		return nil
	}
	var supers []string
	visited := map[string]bool{typeName: true}
	queue := []string{typeName}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		var nexts []string
		if parent, ok := oracle.BaseType(cur); ok {
			nexts = append(nexts, parent)
		}
		nexts = append(nexts, oracle.Interfaces(cur)...)
		for _, n := range nexts {
			if !visited[n] {
				visited[n] = true
				supers = append(supers, n)
				queue = append(queue, n)
			}
		}
	}
	return supers
}

// TypeTable is a TypeOracle backed by in-memory declarations, used by the yaml program
// loader and by tests.
type TypeTable struct {
	bases      map[string]string
	interfaces map[string][]string
}

// NewTypeTable returns an empty TypeTable.
func NewTypeTable() *TypeTable {
	return &TypeTable{
		bases:      map[string]string{},
		interfaces: map[string][]string{},
	}
}

// Declare records the base type and interfaces of the named type.
func (t *TypeTable) Declare(typeName string, base string, interfaces []string) {
	if base != "" {
		t.bases[typeName] = base
	}
	if len(interfaces) > 0 {
		t.interfaces[typeName] = interfaces
	}
}

// BaseType implements TypeOracle.
func (t *TypeTable) BaseType(typeName string) (string, bool) {
	base, ok := t.bases[typeName]
	return base, ok
}

// Interfaces implements TypeOracle.
func (t *TypeTable) Interfaces(typeName string) []string {
	return t.interfaces[typeName]
}
