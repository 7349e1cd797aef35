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
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/awslabs/taintflow/analysis/ir"
)

// Kind is the ordering level of a taint value in the join semilattice.
// Unknown is the bottom element, below both Untainted and Tainted; Tainted
// absorbs Untainted on merge.
type Kind int

const (
	// Unknown marks a location the analysis has not visited yet. It is the
	// identity of Merge and never the result of a transfer function.
	Unknown Kind = iota
	// Untainted marks a value proven clean on every path seen so far.
	Untainted
	// Tainted marks a value that may carry attacker-controlled data on at
	// least one path.
	Tainted
)

func (k Kind) String() string {
	switch k {
	case Untainted:
		return "untainted"
	case Tainted:
		return "tainted"
	default:
		return "unknown"
	}
}

// paramMarkerPrefix prefixes the synthetic origins the summarizer plants on
// formal parameters. Origins carrying it are dependency markers, not real
// sources, and are stripped from reported findings.
const paramMarkerPrefix = "$param:"

// recvMarker is the synthetic origin planted on the receiver during
// summarization.
const recvMarker = "$recv"

// Origin records one source occurrence that contributed taint to a value:
// which catalog member matched and where in the program it matched.
type Origin struct {
	Source string
	Pos    ir.Position
}

func (o Origin) String() string {
	return o.Source + " at " + o.Pos.String()
}

// isMarker reports whether the origin is a symbolic parameter or receiver
// marker planted by the summarizer.
func (o Origin) isMarker() bool {
	return o.Source == recvMarker || strings.HasPrefix(o.Source, paramMarkerPrefix)
}

// paramMarkerIndex returns the parameter index encoded in a parameter marker origin.
func paramMarkerIndex(o Origin) (int, bool) {
	if !strings.HasPrefix(o.Source, paramMarkerPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(o.Source, paramMarkerPrefix))
	if err != nil {
		return 0, false
	}
	return i, true
}

// paramMarker builds the symbolic origin for the i-th parameter.
func paramMarker(i int) Origin {
	return Origin{Source: paramMarkerPrefix + strconv.Itoa(i)}
}

// TaintValue is an element of the taint lattice. The zero value is Unknown,
// the bottom of the lattice. Values are immutable; Merge returns a fresh one.
type TaintValue struct {
	kind    Kind
	origins map[Origin]bool
}

// UntaintedValue returns the lattice element for a proven-clean value.
func UntaintedValue() TaintValue {
	return TaintValue{kind: Untainted}
}

// NewTainted returns a tainted lattice element carrying the given origins.
func NewTainted(origins ...Origin) TaintValue {
	set := make(map[Origin]bool, len(origins))
	for _, o := range origins {
		set[o] = true
	}
	return TaintValue{kind: Tainted, origins: set}
}

// Kind returns the ordering level of the value.
func (v TaintValue) Kind() Kind { return v.kind }

// IsTainted reports whether the value may carry attacker-controlled data.
func (v TaintValue) IsTainted() bool { return v.kind == Tainted }

// Origins returns the source occurrences that contributed taint, in a stable
// order. It is empty for non-tainted values.
func (v TaintValue) Origins() []Origin {
	res := make([]Origin, 0, len(v.origins))
	for o := range v.origins {
		res = append(res, o)
	}
	slices.SortFunc(res, func(a, b Origin) bool {
		if a.Pos != b.Pos {
			return a.Pos.String() < b.Pos.String()
		}
		return a.Source < b.Source
	})
	return res
}

// Equal reports whether two lattice elements have the same kind and the same
// origin set.
func (v TaintValue) Equal(other TaintValue) bool {
	if v.kind != other.kind || len(v.origins) != len(other.origins) {
		return false
	}
	for o := range v.origins {
		if !other.origins[o] {
			return false
		}
	}
	return true
}

// Merge is the lattice join. It is commutative, associative and idempotent:
// Unknown is the identity, and Tainted absorbs everything else while taking
// the union of the origin sets.
func Merge(a, b TaintValue) TaintValue {
	if a.kind == Unknown {
		return b
	}
	if b.kind == Unknown {
		return a
	}
	if a.kind != Tainted && b.kind != Tainted {
		return UntaintedValue()
	}
	union := make(map[Origin]bool, len(a.origins)+len(b.origins))
	for o := range a.origins {
		union[o] = true
	}
	for o := range b.origins {
		union[o] = true
	}
	return TaintValue{kind: Tainted, origins: union}
}

// MergeAll folds Merge over any number of values. With no arguments it
// returns the bottom element.
func MergeAll(values ...TaintValue) TaintValue {
	var acc TaintValue
	for _, v := range values {
		acc = Merge(acc, v)
	}
	return acc
}
