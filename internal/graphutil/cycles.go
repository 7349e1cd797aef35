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

package graphutil

import (
	"github.com/yourbasic/graph"
)

// RecursiveNodes returns the names of all nodes that participate in some cycle of the graph:
// every node in a strongly connected component of size at least two, and every node with a
// self-loop. For a call graph, these are exactly the (mutually) recursive functions.
func (g *DiGraph) RecursiveNodes() map[string]bool {
	recursive := map[string]bool{}
	for _, component := range graph.StrongComponents(g) {
		if len(component) >= 2 {
			for _, v := range component {
				recursive[g.names[v]] = true
			}
		}
	}
	// A single-node component is a cycle only when the node calls itself.
	for id, out := range g.Edges {
		if out[id] {
			recursive[g.names[id]] = true
		}
	}
	return recursive
}
