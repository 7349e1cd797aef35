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

// Package graphutil provides a directed graph over string-identified nodes used to represent
// the call graph of an analyzed program, together with the cycle queries needed by the
// interprocedural summarization.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// DiGraph is a directed graph over string-identified nodes. It implements the methods to
// satisfy the yourbasic graph.Iterator interface and gonum's graph.Graph, so that existing
// graph libraries can be run on it directly.
type DiGraph struct {
	// the order of the graph
	order int

	// names maps node ids to node names. Node ids are indices in names.
	names []string

	// ids maps node names back to their id
	ids map[string]int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge from x to y
	Edges map[int64]map[int64]bool
}

// NewDiGraph builds a DiGraph from an adjacency list keyed by node name. Every key and every
// successor becomes a node. Node ids are assigned in sorted name order so that graph
// construction is deterministic.
func NewDiGraph(adjacency map[string][]string) *DiGraph {
	nameSet := map[string]bool{}
	for from, tos := range adjacency {
		nameSet[from] = true
		for _, to := range tos {
			nameSet[to] = true
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]int64, len(names))
	for i, name := range names {
		ids[name] = int64(i)
	}

	edges := make(map[int64]map[int64]bool, len(names))
	for i := range names {
		edges[int64(i)] = map[int64]bool{}
	}
	for from, tos := range adjacency {
		for _, to := range tos {
			edges[ids[from]][ids[to]] = true
		}
	}

	return &DiGraph{
		order: len(names),
		names: names,
		ids:   ids,
		Edges: edges,
	}
}

// Name returns the name of the node with the given id, or "" if no such node exists.
func (g *DiGraph) Name(id int64) string {
	if id < 0 || id >= int64(len(g.names)) {
		return ""
	}
	return g.names[id]
}

// ID returns the id of the named node and whether the node exists.
func (g *DiGraph) ID(name string) (int64, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Order implements the order of the graph.Iterator interface for the DiGraph
func (g *DiGraph) Order() int {
	return g.order
}

// Visit implements the graph.Iterator interface for the DiGraph
func (g *DiGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for w := range g.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** gonum Graph interface implementation **********************

// Node implements the Graph interface
func (g *DiGraph) Node(id int64) graph.Node {
	if id < 0 || id >= int64(len(g.names)) {
		return nil
	}
	return VNode{id: id, name: g.names[id]}
}

// Nodes returns the set of nodes in the graph
func (g *DiGraph) Nodes() graph.Nodes {
	ids := make([]int64, g.order)
	for i := range ids {
		ids[i] = int64(i)
	}
	return &NodeSet{graph: g, ids: ids}
}

// From returns the set of nodes reachable by one edge from the id
func (g *DiGraph) From(id int64) graph.Nodes {
	var ids []int64
	for out := range g.Edges[id] {
		ids = append(ids, out)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &NodeSet{graph: g, ids: ids}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node
// identifiers, in either direction.
func (g *DiGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.Edges[xid][yid] || g.Edges[yid][xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g *DiGraph) Edge(uid, vid int64) graph.Edge {
	if g.Edges[uid][vid] {
		return VEdge{from: g.Node(uid).(VNode), to: g.Node(vid).(VNode)}
	}
	return nil
}

// *************** Nodes implementation **********************

// VNode is a named graph vertex implementing the graph.Node interface.
type VNode struct {
	id   int64
	name string
}

// ID returns the id of the node
func (n VNode) ID() int64 {
	return n.id
}

func (n VNode) String() string {
	return n.name
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	graph *DiGraph

	// ids is the set of node ids in the iterator
	ids []int64

	// cur is the index of the current node, starting one before the first node
	cur int

	started bool
}

// Next moves the iterator to the next node and returns true if such a node exists.
func (ns *NodeSet) Next() bool {
	if !ns.started {
		ns.started = true
		return len(ns.ids) > 0
	}
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of remaining nodes in the set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the iterator to its initial state
func (ns *NodeSet) Reset() {
	ns.cur = 0
	ns.started = false
}

// Node returns the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.graph.Node(ns.ids[ns.cur])
}

// *************** Edge implementation **********************

// VEdge implements the graph.Edge interface
type VEdge struct {
	from VNode
	to   VNode
}

// From returns the origin of the edge
func (e VEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e VEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e VEdge) ReversedEdge() graph.Edge {
	return VEdge{from: e.to, to: e.from}
}
