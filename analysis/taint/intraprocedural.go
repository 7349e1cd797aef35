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
	"context"
	"fmt"

	"github.com/awslabs/taintflow/analysis/ir"
)

// stateTracker implements ir.IterativeAnalysis for one method and one catalog. It keeps the
// exit state of every visited block, rebuilds the working state from the predecessors on
// each visit, and applies the transfer functions in transfer.go.
type stateTracker struct {
	ctx     context.Context
	state   *AnalyzerState
	catalog *Catalog
	method  *ir.Method

	// entry is the abstract state at the method entry (parameter and receiver taint).
	entry *blockState
	// out holds the latest exit state of each visited block.
	out map[*ir.Block]*blockState

	cur      *blockState
	curBlock *ir.Block

	// collect receives the findings raised at sink calls. It is nil while computing a
	// callee summary: the callee's own analysis reports its sinks.
	collect func(Finding)

	// depth is the current summarization depth; 0 for a directly analyzed method.
	depth int

	// returnTaint accumulates the merged taint of every value returned by the method.
	returnTaint TaintValue

	// paramSinks and recvSinks record the sink flows reached by symbolic parameter and
	// receiver markers, deduplicated. They stay empty outside summarization.
	paramSinks map[int]map[SinkFlow]bool
	recvSinks  map[SinkFlow]bool
}

func (t *stateTracker) recordParamSink(i int, flow SinkFlow) {
	if t.paramSinks == nil {
		t.paramSinks = map[int]map[SinkFlow]bool{}
	}
	if t.paramSinks[i] == nil {
		t.paramSinks[i] = map[SinkFlow]bool{}
	}
	t.paramSinks[i][flow] = true
}

func (t *stateTracker) recordRecvSink(flow SinkFlow) {
	if t.recvSinks == nil {
		t.recvSinks = map[SinkFlow]bool{}
	}
	t.recvSinks[flow] = true
}

// newStateTracker builds a tracker with its entry state: parameters and receivers whose
// type the catalog classifies as a source are tainted before the first block runs. With
// the untrusted-params option every parameter of a directly analyzed method is tainted on
// entry; callees under summarization keep their symbolic markers instead.
func newStateTracker(ctx context.Context, s *AnalyzerState, catalog *Catalog, m *ir.Method,
	collect func(Finding), depth int) *stateTracker {
	untrusted := s.Config.UntrustedParams && collect != nil
	entry := newBlockState()
	if m.Recv != nil && catalog.IsSourceType(m.Recv.Type) {
		entry.set(localKey(m.Recv), NewTainted(Origin{Source: m.Recv.Type, Pos: m.At}))
	}
	for _, p := range m.Params {
		switch {
		case catalog.IsSourceType(p.Type):
			entry.set(localKey(p), NewTainted(Origin{Source: p.Type, Pos: m.At}))
		case untrusted:
			entry.set(localKey(p), NewTainted(Origin{Source: "param:" + p.ID, Pos: m.At}))
		}
	}
	return &stateTracker{
		ctx:     ctx,
		state:   s,
		catalog: catalog,
		method:  m,
		entry:   entry,
		out:     map[*ir.Block]*blockState{},
		collect: collect,
		depth:   depth,
	}
}

// NewBlock implements ir.IterativeAnalysis: the working state is the join of the exit
// states of the predecessors, plus the entry state for the entry block.
func (t *stateTracker) NewBlock(block *ir.Block) {
	t.curBlock = block
	t.cur = newBlockState()
	if block == t.method.Entry() {
		t.cur.mergeFrom(t.entry)
	}
	for _, pred := range block.Preds {
		if predOut := t.out[pred]; predOut != nil {
			t.cur.mergeFrom(predOut)
		}
	}
}

// ChangedOnEndBlock implements ir.IterativeAnalysis. The transfer functions are monotone
// and the lattice has finite height over the method's finite location set, so comparing
// against the previous exit state makes the fixpoint iteration terminate.
func (t *stateTracker) ChangedOnEndBlock() bool {
	prev := t.out[t.curBlock]
	if prev != nil && prev.equal(t.cur) {
		return false
	}
	t.out[t.curBlock] = t.cur
	return true
}

// run runs the tracker to fixpoint. The method is validated first; a malformed graph fails
// this method's analysis without touching any other method.
func (t *stateTracker) run() error {
	if err := ir.Validate(t.method); err != nil {
		return fmt.Errorf("cannot analyze %s: %w", t.method.Sig.Key(), err)
	}
	if err := ir.RunForwardIterative(t.ctx, t, t.method); err != nil {
		return fmt.Errorf("analysis of %s interrupted: %w", t.method.Sig.Key(), err)
	}
	return nil
}
