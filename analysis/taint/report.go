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
	"os"
	"path"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/analysis/ir"
	"github.com/awslabs/taintflow/internal/formatutil"
)

// Finding is one reported source-to-sink flow: tainted data reached a flagged argument
// position of a sink without passing through a sanitizer.
type Finding struct {
	// SinkKind is the vulnerability class of the matched sink entry, e.g. "sql-injection".
	SinkKind string
	// Sink is the signature of the sink member and SinkPos the call site that received
	// the tainted data.
	Sink    ir.Signature
	SinkPos ir.Position
	// Method is the analyzed method containing the sink call.
	Method string
	// ArgPos is the flagged argument position the tainted data arrived at.
	ArgPos int
	// Sources lists the source occurrences whose taint reached the sink.
	Sources []Origin
}

// Key is the de-duplication key of the finding. Two findings with the same sink kind at
// the same position are the same alarm, whatever paths led to it.
func (f Finding) Key() string {
	return f.SinkKind + "|" + f.SinkPos.String()
}

func (f Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] tainted data reaches %s (arg %d) at %s in %s",
		f.SinkKind, f.Sink.Key(), f.ArgPos, f.SinkPos.String(), f.Method)
	for _, src := range f.Sources {
		fmt.Fprintf(&b, "\n\tsource: %s", src.String())
	}
	return b.String()
}

// FindingHandler is a callback invoked synchronously for each new finding of a sink kind.
type FindingHandler func(Finding)

// findingCollector gathers the findings of a session: it de-duplicates them, enforces the
// alarm budget, logs each new finding and dispatches it to the handlers registered for its
// sink kind. It is safe for the concurrent method analyses to add findings.
type findingCollector struct {
	mu       sync.Mutex
	cfg      *config.Config
	logger   *config.LogGroup
	handlers map[string][]FindingHandler
	seen     map[string]bool
	all      []Finding
	capped   bool
}

func newFindingCollector(cfg *config.Config, logger *config.LogGroup) *findingCollector {
	return &findingCollector{
		cfg:      cfg,
		logger:   logger,
		handlers: map[string][]FindingHandler{},
		seen:     map[string]bool{},
	}
}

// onFinding registers a handler for one sink kind. Registration must happen before the
// analysis runs.
func (c *findingCollector) onFinding(sinkKind string, h FindingHandler) {
	c.handlers[sinkKind] = append(c.handlers[sinkKind], h)
}

// add records a finding unless it duplicates a previous one or the alarm budget is
// exhausted. It reports whether the finding was kept.
func (c *findingCollector) add(f Finding) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := f.Key()
	if c.seen[key] {
		return false
	}
	if c.cfg.MaxAlarms > 0 && len(c.all) >= c.cfg.MaxAlarms {
		if !c.capped {
			c.capped = true
			c.logger.Warnf("max-alarms budget reached, further findings are dropped")
		}
		return false
	}
	c.seen[key] = true
	c.all = append(c.all, f)

	c.logger.Infof("%s", formatutil.Red(f.String()))
	if c.cfg.ReportPaths {
		if err := writeFlowReport(c.cfg, f); err != nil {
			c.logger.Errorf("could not write report: %s", err)
		}
	}
	for _, h := range c.handlers[f.SinkKind] {
		h(f)
	}
	return true
}

// findings returns the collected findings in a stable order.
func (c *findingCollector) findings() []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make([]Finding, len(c.all))
	copy(res, c.all)
	slices.SortFunc(res, func(a, b Finding) bool {
		if a.SinkKind != b.SinkKind {
			return a.SinkKind < b.SinkKind
		}
		return a.SinkPos.String() < b.SinkPos.String()
	})
	return res
}

// writeFlowReport writes the full source list of one finding to a fresh flow-*.out file
// in the configured reports directory.
func writeFlowReport(cfg *config.Config, f Finding) error {
	dir := cfg.ReportsDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create reports directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "flow-*.out")
	if err != nil {
		return fmt.Errorf("could not create report file in %s: %w", dir, err)
	}
	defer tmp.Close()
	if _, err := tmp.WriteString(f.String() + "\n"); err != nil {
		return fmt.Errorf("could not write report %s: %w", path.Base(tmp.Name()), err)
	}
	return nil
}
