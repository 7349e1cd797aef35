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
	"strings"

	"github.com/awslabs/taintflow/analysis/ir"
)

// Op implements ir.IterativeAnalysis: the transfer function of a single operation on the
// current working state. Every case is monotone in the state, which RunForwardIterative
// relies on for termination.
func (t *stateTracker) Op(op ir.Operation) {
	switch o := op.(type) {
	case *ir.Assign:
		t.cur.set(localKey(o.Dst), orUntainted(t.cur.taintOf(o.Src)))

	case *ir.Call:
		t.transferCall(o)

	case *ir.New:
		// The constructed value carries the merged taint of its constituents.
		var parts []TaintValue
		for _, arg := range o.Args {
			parts = append(parts, t.cur.taintOf(arg))
		}
		t.cur.set(localKey(o.Dst), orUntainted(MergeAll(parts...)))

	case *ir.FieldLoad:
		tv := Merge(t.cur.taintOf(o.Recv), t.cur.get(fieldKey(o.Recv, o.Field)))
		sig := fieldSig(o, t.method.Sig.Package)
		if t.catalog.IsSource(sig) {
			tv = Merge(tv, NewTainted(Origin{Source: sig.Key(), Pos: o.At}))
		}
		t.cur.set(localKey(o.Dst), orUntainted(tv))

	case *ir.FieldStore:
		// Weak update: the field location may be reached through other paths, and the
		// aggregate itself becomes tainted when one of its fields is.
		tv := t.cur.taintOf(o.Src)
		t.cur.weakSet(fieldKey(o.Recv, o.Field), tv)
		t.cur.weakSet(localKey(o.Recv), tv)

	case *ir.Index:
		// The index operand taints the loaded element too: a lookup keyed on tainted
		// data may select attacker-chosen content.
		tv := t.cur.taintOf(o.Base)
		if o.Idx != nil {
			tv = Merge(tv, t.cur.taintOf(o.Idx))
		}
		t.cur.set(localKey(o.Dst), orUntainted(tv))

	case *ir.Binary:
		t.cur.set(localKey(o.Dst), orUntainted(Merge(t.cur.taintOf(o.X), t.cur.taintOf(o.Y))))

	case *ir.Branch:
		// Not path-sensitive: the condition's taint does not split the state.

	case *ir.Return:
		for _, res := range o.Results {
			t.returnTaint = Merge(t.returnTaint, t.cur.taintOf(res))
		}

	default:
		// Unclassified operation kinds are conservative pass-throughs: the result carries
		// the merged taint of the operands.
		if dst := op.Def(); dst != nil {
			var parts []TaintValue
			for _, use := range op.Uses() {
				parts = append(parts, t.cur.taintOf(use))
			}
			t.cur.set(localKey(dst), orUntainted(MergeAll(parts...)))
		}
	}
}

// transferCall classifies the callee against the catalog. Sinks are checked eagerly, at
// the call site, so a finding is raised the moment tainted data reaches a flagged
// position. The call result is then computed from the callee's classification: sources
// taint it, sanitizers clean it, in-unit callees are summarized, and everything else is a
// conservative taint-preserving pass-through.
func (t *stateTracker) transferCall(o *ir.Call) {
	if positions, isSink := t.catalog.SinkPositions(o.Callee); isSink {
		t.checkSink(o, positions)
	}

	var result TaintValue
	switch {
	case t.catalog.IsSource(o.Callee):
		result = NewTainted(Origin{Source: o.Callee.Key(), Pos: o.At})

	case t.catalog.IsSanitizer(o.Callee):
		result = UntaintedValue()

	default:
		if callee := t.state.Program.MethodFor(o.Callee); callee != nil {
			result = t.applySummary(o, callee)
		} else {
			var parts []TaintValue
			for _, use := range o.Uses() {
				parts = append(parts, t.cur.taintOf(use))
			}
			result = MergeAll(parts...)
		}
	}

	if o.Dst != nil {
		t.cur.set(localKey(o.Dst), orUntainted(result))
	}
}

// checkSink inspects every flagged argument position for tainted data. Receivers are
// never sink positions; only arguments are checked.
func (t *stateTracker) checkSink(o *ir.Call, positions []int) {
	flagged := positions
	if flagged == nil {
		flagged = make([]int, len(o.Args))
		for i := range o.Args {
			flagged[i] = i
		}
	}
	for _, i := range flagged {
		if i < 0 || i >= len(o.Args) {
			continue
		}
		tv := t.cur.taintOf(o.Args[i])
		if !tv.IsTainted() {
			continue
		}
		t.sinkReached(SinkFlow{
			Sink:   o.Callee,
			Pos:    o.At,
			Method: t.method.Sig.Key(),
			ArgPos: i,
		}, tv)
	}
}

// sinkReached handles tainted data arriving at a sink position. Real source origins become
// a finding immediately; symbolic parameter markers are recorded in the tracker's sink
// flows so the summarizer can surface them at call sites.
func (t *stateTracker) sinkReached(flow SinkFlow, tv TaintValue) {
	if t.collect != nil {
		if real := realOrigins(tv); len(real) > 0 {
			t.collect(Finding{
				SinkKind: t.catalog.Spec.SinkKind,
				Sink:     flow.Sink,
				SinkPos:  flow.Pos,
				Method:   flow.Method,
				ArgPos:   flow.ArgPos,
				Sources:  real,
			})
		}
	}
	for _, o := range tv.Origins() {
		if i, isParam := paramMarkerIndex(o); isParam {
			t.recordParamSink(i, flow)
		} else if o.Source == recvMarker {
			t.recordRecvSink(flow)
		}
	}
}

// applySummary computes the result taint of a call into an analyzed method from the
// callee's summary: the merged taint of the receiver and arguments the return value
// depends on, plus the taint of any sources inside the callee that reach its return.
func (t *stateTracker) applySummary(o *ir.Call, callee *ir.Method) TaintValue {
	sum := t.state.summaryFor(t.ctx, t.catalog, callee, t.depth+1)
	var result TaintValue
	if sum.RecvDep && o.Recv != nil {
		result = Merge(result, t.cur.taintOf(o.Recv))
	}
	for i, dep := range sum.ParamDeps {
		if dep && i < len(o.Args) {
			result = Merge(result, t.cur.taintOf(o.Args[i]))
		}
	}
	if len(sum.Origins) > 0 {
		result = Merge(result, NewTainted(sum.Origins...))
	}

	// Flows the callee (or its own callees) carries from a parameter to a sink become
	// findings here whenever the corresponding argument is tainted.
	if o.Recv != nil && len(sum.RecvSinks) > 0 {
		if tv := t.cur.taintOf(o.Recv); tv.IsTainted() {
			for _, flow := range sum.RecvSinks {
				t.sinkReached(flow, tv)
			}
		}
	}
	for i, flows := range sum.ParamSinks {
		if i >= len(o.Args) {
			continue
		}
		if tv := t.cur.taintOf(o.Args[i]); tv.IsTainted() {
			for _, flow := range flows {
				t.sinkReached(flow, tv)
			}
		}
	}
	return result
}

// orUntainted lifts the bottom element to Untainted: transfer functions never store
// Unknown, it only exists as the merge identity.
func orUntainted(tv TaintValue) TaintValue {
	if tv.Kind() == Unknown {
		return UntaintedValue()
	}
	return tv
}

// realOrigins filters the symbolic parameter markers the summarizer plants out of an
// origin set, keeping only real source occurrences.
func realOrigins(tv TaintValue) []Origin {
	var res []Origin
	for _, o := range tv.Origins() {
		if !o.isMarker() {
			res = append(res, o)
		}
	}
	return res
}

// fieldSig qualifies a field access for catalog matching. A type name already carrying a
// package ("net/http.Request") keeps it; unqualified type names belong to the package of
// the method performing the access.
func fieldSig(o *ir.FieldLoad, methodPkg string) ir.Signature {
	if i := strings.LastIndex(o.TypeName, "."); i >= 0 {
		return ir.Signature{Package: o.TypeName[:i], Type: o.TypeName[i+1:], Field: o.Field}
	}
	return o.Sig(methodPkg)
}
