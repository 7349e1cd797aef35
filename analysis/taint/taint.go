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
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/analysis/ir"
	"github.com/awslabs/taintflow/internal/funcutil"
	"github.com/awslabs/taintflow/internal/graphutil"
)

// AnalyzerState is the state shared by all the method analyses of one session: the
// configuration, the program under analysis, the summary cache and the set of methods on
// call-graph cycles. It is safe for concurrent use once constructed.
type AnalyzerState struct {
	Config  *config.Config
	Logger  *config.LogGroup
	Program *ir.Program

	summaries *summaryCache
	recursive map[string]bool
	collector *findingCollector

	errMu  sync.Mutex
	errors []error
}

// NewAnalyzerState builds the session state: the program call graph is condensed into its
// strongly connected components once, so recursion checks during summarization are map
// lookups.
func NewAnalyzerState(cfg *config.Config, logger *config.LogGroup, program *ir.Program) *AnalyzerState {
	callGraph := graphutil.NewDiGraph(program.CallEdges())
	return &AnalyzerState{
		Config:    cfg,
		Logger:    logger,
		Program:   program,
		summaries: newSummaryCache(cfg.MaxSummaries),
		recursive: callGraph.RecursiveNodes(),
		collector: newFindingCollector(cfg, logger),
	}
}

// OnFinding registers a handler called synchronously for every new finding with the given
// sink kind. Handlers must be registered before Analyze runs.
func (s *AnalyzerState) OnFinding(sinkKind string, h FindingHandler) {
	s.collector.onFinding(sinkKind, h)
}

// addError records a non-fatal per-method error. Analysis of the other methods continues.
func (s *AnalyzerState) addError(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.errors = append(s.errors, err)
}

// AnalysisResult is the outcome of a session: the deduplicated findings across all taint
// tracking problems, plus the per-method errors that degraded coverage without aborting
// the session.
type AnalysisResult struct {
	TaintFlows []Finding
	Errors     []error
}

// Analyze runs every taint tracking problem of the configuration over every method of the
// program matching the package filter. Methods are analyzed in parallel; cancelling the
// context stops the session between blocks. A malformed method fails only its own
// analysis and is reported in the result's Errors.
func Analyze(ctx context.Context, state *AnalyzerState) (AnalysisResult, error) {
	numRoutines := runtime.NumCPU() - 1
	if numRoutines <= 0 {
		numRoutines = 1
	}

	for i := range state.Config.TaintTrackingProblems {
		spec := &state.Config.TaintTrackingProblems[i]
		catalog, err := NewCatalog(spec, state.Program.Oracle)
		if err != nil {
			return AnalysisResult{}, fmt.Errorf("invalid taint tracking problem %d: %w", i, err)
		}
		state.Logger.Infof("starting %s analysis (%s)", spec.SinkKind, spec.Description)
		if err := analyzeProblem(ctx, state, catalog, numRoutines); err != nil {
			return AnalysisResult{}, err
		}
	}

	result := AnalysisResult{TaintFlows: state.collector.findings()}
	state.errMu.Lock()
	result.Errors = append(result.Errors, state.errors...)
	state.errMu.Unlock()
	return result, nil
}

// analyzeProblem runs one catalog over all the methods of the program, in parallel.
func analyzeProblem(ctx context.Context, state *AnalyzerState, catalog *Catalog, numRoutines int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numRoutines)

	for _, key := range funcutil.SortedKeys(state.Program.Methods) {
		m := state.Program.Methods[key]
		if !state.Config.MatchPkgFilter(m.Sig.Package) {
			state.Logger.Tracef("skipping %s (pkg-filter)", key)
			continue
		}
		method := m
		g.Go(func() error {
			tracker := newStateTracker(gctx, state, catalog, method, state.collector.addFunc(), 0)
			if err := tracker.run(); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				state.Logger.Errorf("%s", err)
				state.addError(err)
			}
			return nil
		})
	}
	return g.Wait()
}

// addFunc adapts the collector to the tracker's collection callback.
func (c *findingCollector) addFunc() func(Finding) {
	return func(f Finding) { c.add(f) }
}
