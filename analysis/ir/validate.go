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

	"github.com/awslabs/taintflow/internal/funcutil"
)

// Validate checks the structural assumptions the fixpoint analyses make about a method's
// control-flow graph. A violation is fatal for this method's analysis only: the caller
// skips the method and analyzes the rest of the program.
func Validate(m *Method) error {
	if len(m.Blocks) == 0 {
		return fmt.Errorf("method %s has no blocks", m.Sig)
	}
	index := map[*Block]bool{}
	for _, b := range m.Blocks {
		index[b] = true
	}
	for _, b := range m.Blocks {
		for _, s := range b.Succs {
			if !index[s] {
				return fmt.Errorf("method %s: %s has a successor outside the method", m.Sig, b)
			}
			if !funcutil.Contains(s.Preds, b) {
				return fmt.Errorf("method %s: edge %s -> %s missing from predecessors", m.Sig, b, s)
			}
		}
	}
	// Every block reachable from the entry must either branch onward or end in a return.
	for _, b := range m.Blocks {
		if len(b.Succs) > 0 || !HasPathTo(m.Entry(), b, nil) {
			continue
		}
		if len(b.Ops) == 0 {
			return fmt.Errorf("method %s: reachable %s is empty and has no successor", m.Sig, b)
		}
		if _, isReturn := b.Ops[len(b.Ops)-1].(*Return); !isReturn {
			return fmt.Errorf("method %s: reachable %s has no terminator", m.Sig, b)
		}
	}
	return nil
}
