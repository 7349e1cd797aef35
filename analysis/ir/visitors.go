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
	"context"

	"github.com/awslabs/taintflow/internal/funcutil"
)

// IterativeAnalysis is a forward dataflow analysis driven by RunForwardIterative. NewBlock
// is called when a block visit starts, and is where the analysis merges the exit states of
// the block's predecessors. Op is the transfer function applied to each operation in block
// order. ChangedOnEndBlock must report whether the block's exit information changed during
// the visit; the analysis must keep track of blocks it has already visited and be monotone,
// otherwise the iteration does not terminate.
type IterativeAnalysis interface {
	NewBlock(block *Block)
	Op(op Operation)
	ChangedOnEndBlock() bool
}

// RunForwardIterative visits the blocks of the method with the given analysis until a
// fixpoint is reached: starting from the entry block, the successors of a block are queued
// whenever the information for the block has changed after visiting its operations. Back
// edges are ordinary edges, so loops are iterated until their state stabilizes.
//
// Cancellation is honored at block boundaries only, never in the middle of a transfer
// function, so a cancelled run never leaves a half-merged state behind.
func RunForwardIterative(ctx context.Context, analysis IterativeAnalysis, method *Method) error {
	entry := method.Entry()
	if entry == nil {
		return nil
	}
	worklist := []*Block{entry}
	for len(worklist) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		block := worklist[0]
		worklist = worklist[1:]

		analysis.NewBlock(block)
		for _, op := range block.Ops {
			analysis.Op(op)
		}
		if analysis.ChangedOnEndBlock() {
			for _, next := range block.Succs {
				if !funcutil.Contains(worklist, next) {
					worklist = append(worklist, next)
				}
			}
		}
	}
	return nil
}

// HasPathTo returns true if there is a control-flow path from b1 to b2. Use mem to amortize
// cost across queries. If mem is nil, the search runs without memoization and no map is
// allocated.
func HasPathTo(b1 *Block, b2 *Block, mem map[*Block]map[*Block]bool) bool {
	if mem != nil {
		if _, ok := mem[b1]; !ok {
			mem[b1] = map[*Block]bool{}
		}
		if val, ok := mem[b1][b2]; ok {
			return val
		}
	}
	vis := map[*Block]bool{}
	que := []*Block{b1}
	for len(que) > 0 {
		cur := que[0]
		que = que[1:]
		if cur == b2 {
			if mem != nil {
				mem[b1][b2] = true
			}
			return true
		}
		vis[cur] = true
		for _, nb := range cur.Succs {
			if !vis[nb] {
				que = append(que, nb)
			}
		}
	}
	if mem != nil {
		mem[b1][b2] = false
	}
	return false
}
