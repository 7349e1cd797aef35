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
	"sync"

	"golang.org/x/exp/slices"

	"github.com/awslabs/taintflow/analysis/ir"
	"github.com/awslabs/taintflow/internal/funcutil"
)

// SinkFlow records that tainted data flowing in through a parameter or receiver reaches
// a sink somewhere inside the summarized method or its callees.
type SinkFlow struct {
	Sink   ir.Signature
	Pos    ir.Position
	Method string
	ArgPos int
}

// Summary abstracts how taint flows through one method, from the perspective of its
// callers. It is computed against a specific catalog and cached per (method, problem).
type Summary struct {
	// ParamDeps[i] is true when the method's return taint depends on its i-th parameter.
	ParamDeps []bool
	// RecvDep is true when the return taint depends on the receiver.
	RecvDep bool
	// Origins lists the sources inside the method (or its callees) whose taint reaches
	// the return value regardless of the arguments.
	Origins []Origin
	// ParamSinks maps a parameter index to the sinks its taint reaches inside the method
	// or its callees. RecvSinks is the same for the receiver.
	ParamSinks map[int][]SinkFlow
	RecvSinks  []SinkFlow

	// Conservative is true when the summary was not computed but assumed: the method is
	// recursive, too deep, or malformed, and every dependency is taken as present.
	Conservative bool
}

// conservativeSummary is the fallback when a method cannot be summarized precisely: the
// return is assumed to depend on the receiver and every parameter. No sink flows are
// assumed; flows inside the method are found by its own direct analysis.
func conservativeSummary(m *ir.Method) *Summary {
	deps := make([]bool, len(m.Params))
	for i := range deps {
		deps[i] = true
	}
	return &Summary{
		ParamDeps:    deps,
		RecvDep:      m.Recv != nil,
		Conservative: true,
	}
}

// summaryCache is the concurrency-safe summary store shared by all method analyses of a
// session. When the cache is full, further summaries are recomputed on demand instead of
// stored; correctness does not depend on a hit.
type summaryCache struct {
	mu        sync.RWMutex
	summaries map[string]*Summary
	max       int
}

func newSummaryCache(max int) *summaryCache {
	return &summaryCache{summaries: map[string]*Summary{}, max: max}
}

func (c *summaryCache) get(key string) funcutil.Optional[*Summary] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if sum, ok := c.summaries[key]; ok {
		return funcutil.Some(sum)
	}
	return funcutil.None[*Summary]()
}

func (c *summaryCache) put(key string, sum *Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.max > 0 && len(c.summaries) >= c.max {
		return
	}
	c.summaries[key] = sum
}

// summaryFor returns the summary of m against the catalog, computing and caching it on
// first use. Methods on a call-graph cycle and calls beyond the configured depth budget
// get the conservative fallback, which keeps summarization terminating.
func (s *AnalyzerState) summaryFor(ctx context.Context, catalog *Catalog, m *ir.Method, depth int) *Summary {
	key := m.Sig.Key() + "@" + catalog.Spec.SinkKind
	if cached := s.summaries.get(key); cached.IsSome() {
		return cached.Value()
	}

	if s.recursive[m.Sig.Key()] {
		s.Logger.Debugf("%s is recursive, using conservative summary", m.Sig.Key())
		sum := conservativeSummary(m)
		s.summaries.put(key, sum)
		return sum
	}
	if s.Config.ExceedsMaxDepth(depth) {
		s.Logger.Warnf("max call depth exceeded at %s, precision degraded", m.Sig.Key())
		// Not cached: the same method may still be summarized precisely when reached
		// through a shorter call chain.
		return conservativeSummary(m)
	}

	sum := s.computeSummary(ctx, catalog, m, depth)
	s.summaries.put(key, sum)
	return sum
}

// computeSummary runs the method to fixpoint with symbolic taint on its receiver and
// parameters, then reads the dependencies off the return taint's markers.
func (s *AnalyzerState) computeSummary(ctx context.Context, catalog *Catalog, m *ir.Method, depth int) *Summary {
	tracker := newStateTracker(ctx, s, catalog, m, nil, depth)
	if m.Recv != nil {
		seed := NewTainted(Origin{Source: recvMarker, Pos: m.At})
		tracker.entry.set(localKey(m.Recv), Merge(tracker.entry.get(localKey(m.Recv)), seed))
	}
	for i, p := range m.Params {
		marker := paramMarker(i)
		marker.Pos = m.At
		seed := NewTainted(marker)
		tracker.entry.set(localKey(p), Merge(tracker.entry.get(localKey(p)), seed))
	}

	if err := tracker.run(); err != nil {
		s.Logger.Warnf("could not summarize %s: %s", m.Sig.Key(), err)
		return conservativeSummary(m)
	}

	sum := &Summary{ParamDeps: make([]bool, len(m.Params))}
	for _, o := range tracker.returnTaint.Origins() {
		if i, isParam := paramMarkerIndex(o); isParam {
			if i < len(sum.ParamDeps) {
				sum.ParamDeps[i] = true
			}
		} else if o.Source == recvMarker {
			sum.RecvDep = true
		} else {
			sum.Origins = append(sum.Origins, o)
		}
	}
	for i, flows := range tracker.paramSinks {
		if sum.ParamSinks == nil {
			sum.ParamSinks = map[int][]SinkFlow{}
		}
		sum.ParamSinks[i] = sortedFlows(flows)
	}
	if len(tracker.recvSinks) > 0 {
		sum.RecvSinks = sortedFlows(tracker.recvSinks)
	}
	return sum
}

func sortedFlows(set map[SinkFlow]bool) []SinkFlow {
	flows := make([]SinkFlow, 0, len(set))
	for f := range set {
		flows = append(flows, f)
	}
	slices.SortFunc(flows, func(a, b SinkFlow) bool {
		if a.Pos != b.Pos {
			return a.Pos.String() < b.Pos.String()
		}
		return a.ArgPos < b.ArgPos
	})
	return flows
}
