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

package taint

import (
	"fmt"
	"strings"

	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/analysis/ir"
)

// Catalog classifies program members against one taint tracking problem. It wraps the
// problem's source, sink and sanitizer identifiers with type-hierarchy widening: a member
// declared on a subtype of a catalog entry's receiver or type matches the entry too, so
// inherited and overridden dangerous members are caught without enumerating each subtype.
type Catalog struct {
	Spec   *config.TaintSpec
	oracle ir.TypeOracle
}

// NewCatalog returns the catalog for one taint tracking problem. The spec must come from a
// built config, so its identifier patterns are already compiled; a spec without a sink kind
// is rejected.
func NewCatalog(spec *config.TaintSpec, oracle ir.TypeOracle) (*Catalog, error) {
	if spec == nil || spec.SinkKind == "" {
		return nil, fmt.Errorf("catalog requires a taint spec with a sink-kind")
	}
	return &Catalog{Spec: spec, oracle: oracle}, nil
}

// cidOf converts a program signature into the identifier form the catalog matches on.
func cidOf(sig ir.Signature) config.CodeIdentifier {
	return config.CodeIdentifier{
		Package:  sig.Package,
		Method:   sig.Method,
		Receiver: sig.Receiver,
		Field:    sig.Field,
		Type:     sig.Type,
	}
}

// typeCid converts a type string from the program model ("*net/http.Request",
// "UserRequest") into an identifier. A leading '*' is ignored and the last '.' splits
// package from type name.
func typeCid(typeName string) config.CodeIdentifier {
	name := strings.TrimPrefix(typeName, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return config.CodeIdentifier{Package: name[:i], Type: name[i+1:]}
	}
	return config.CodeIdentifier{Type: name}
}

// widenings returns the identifier itself followed by its hierarchy widenings: the same
// identifier with the receiver (or type) replaced by each supertype, in breadth-first
// order. The concrete identifier always comes first so exact entries win.
func (c *Catalog) widenings(cid config.CodeIdentifier) []config.CodeIdentifier {
	res := []config.CodeIdentifier{cid}
	if cid.Receiver != "" {
		for _, super := range ir.Supertypes(c.oracle, cid.Receiver) {
			w := cid
			w.Receiver = super
			res = append(res, w)
		}
	}
	if cid.Type != "" {
		for _, super := range ir.Supertypes(c.oracle, cid.Type) {
			w := cid
			w.Type = super
			res = append(res, w)
		}
	}
	return res
}

// IsSource reports whether the member is a source of tainted data.
func (c *Catalog) IsSource(sig ir.Signature) bool {
	for _, cid := range c.widenings(cidOf(sig)) {
		if c.Spec.IsSource(cid) {
			return true
		}
	}
	return false
}

// IsSanitizer reports whether the member removes taint from the data passing through it.
func (c *Catalog) IsSanitizer(sig ir.Signature) bool {
	for _, cid := range c.widenings(cidOf(sig)) {
		if c.Spec.IsSanitizer(cid) {
			return true
		}
	}
	return false
}

// SinkPositions reports whether the member is a sink and, if so, which of its argument
// positions must not receive tainted data. A nil slice with ok true means every position.
func (c *Catalog) SinkPositions(sig ir.Signature) ([]int, bool) {
	for _, cid := range c.widenings(cidOf(sig)) {
		if positions, ok := c.Spec.SinkPositions(cid); ok {
			return positions, true
		}
	}
	return nil, false
}

// IsSourceType reports whether values of the named type are sources by themselves, e.g. a
// request type whose every instance carries attacker-controlled data. Parameters of such
// types are tainted at method entry.
func (c *Catalog) IsSourceType(typeName string) bool {
	if typeName == "" {
		return false
	}
	for _, cid := range c.widenings(typeCid(typeName)) {
		if c.Spec.IsSource(cid) {
			return true
		}
	}
	return false
}
