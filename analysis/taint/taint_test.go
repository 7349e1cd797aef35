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
	"io"
	"testing"

	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/analysis/ir"
)

// testConfig returns a built config with one problem: os.Getenv and net/http.Request
// values are sources, database/sql.(DB).Query's first argument is the sink, and
// html.EscapeString is the sanitizer.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	cfg.TaintTrackingProblems = []config.TaintSpec{{
		SinkKind: "test-sink",
		Sources: []config.CodeIdentifier{
			{Package: "os", Method: "Getenv"},
			{Package: "net/http", Type: "Request"},
			{Package: "net/http", Type: "Request", Field: "Form"},
		},
		Sinks: []config.CodeIdentifier{
			{Package: "database/sql", Receiver: "DB", Method: "Query", ArgPositions: []int{0}},
		},
		Sanitizers: []config.CodeIdentifier{
			{Package: "html", Method: "EscapeString"},
		},
	}}
	if err := cfg.Build(); err != nil {
		t.Fatalf("could not build config: %s", err)
	}
	return cfg
}

func quietLogger(cfg *config.Config) *config.LogGroup {
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	return logger
}

func loadProgram(t *testing.T, programYaml string) *ir.Program {
	t.Helper()
	prog, err := ir.ParseProgram([]byte(programYaml))
	if err != nil {
		t.Fatalf("could not parse program: %s", err)
	}
	return prog
}

func runTaint(t *testing.T, cfg *config.Config, programYaml string) (AnalysisResult, *AnalyzerState) {
	t.Helper()
	prog := loadProgram(t, programYaml)
	state := NewAnalyzerState(cfg, quietLogger(cfg), prog)
	result, err := Analyze(context.Background(), state)
	if err != nil {
		t.Fatalf("Analyze: %s", err)
	}
	return result, state
}

func TestSourceToSink(t *testing.T) {
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:QUERY"], pos: "main.go:10:5"}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0], pos: "main.go:11:5"}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1", len(result.TaintFlows))
	}
	f := result.TaintFlows[0]
	if f.SinkKind != "test-sink" || f.ArgPos != 0 {
		t.Errorf("finding = %+v, want test-sink at arg 0", f)
	}
	if f.SinkPos.String() != "main.go:11:5" {
		t.Errorf("sink position = %s, want main.go:11:5", f.SinkPos)
	}
	if len(f.Sources) != 1 || f.Sources[0].Source != "os.Getenv" {
		t.Errorf("sources = %v, want the os.Getenv occurrence", f.Sources)
	}
}

func TestSanitizerBlocksFlow(t *testing.T) {
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:QUERY"]}
          - {op: call, dst: t1, callee: {package: html, method: EscapeString}, args: [t0]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t1]}
          - {op: return}
`)
	if len(result.TaintFlows) != 0 {
		t.Fatalf("got %d findings, want none after sanitization", len(result.TaintFlows))
	}
}

func TestBranchInsensitiveMerge(t *testing.T) {
	// x is tainted on one branch and constant on the other; the merged state at the join
	// must keep the taint.
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:QUERY"]}
          - {op: branch, cond: "const:cond"}
        succs: [1, 2]
      - ops:
          - {op: assign, dst: x, src: t0}
        succs: [3]
      - ops:
          - {op: assign, dst: x, src: "const:safe"}
        succs: [3]
      - ops:
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [x]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 from the tainted branch", len(result.TaintFlows))
	}
}

func TestLoopTaintPersistsAndTerminates(t *testing.T) {
	// x becomes tainted inside the loop body; the back edge must propagate it to the
	// header and the iteration must still reach a fixpoint.
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: assign, dst: x, src: "const:safe"}
        succs: [1]
      - ops:
          - {op: branch, cond: "const:cond"}
        succs: [2, 3]
      - ops:
          - {op: call, dst: x, callee: {package: os, method: Getenv}, args: ["const:QUERY"]}
        succs: [1]
      - ops:
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [x]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 despite the loop", len(result.TaintFlows))
	}
}

func TestUnclassifiedCallPassesTaintThrough(t *testing.T) {
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:QUERY"]}
          - {op: call, dst: t1, callee: {package: strings, method: ToUpper}, args: [t0]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t1]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 through the unclassified call", len(result.TaintFlows))
	}
}

func TestFindingDeduplication(t *testing.T) {
	// The same sink position is reached through two methods; (kind, position) dedup must
	// collapse them to one alarm.
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: first
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:A"]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0], pos: "shared.go:5:1"}
          - {op: return}
  - package: main
    method: second
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:B"]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0], pos: "shared.go:5:1"}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 after deduplication", len(result.TaintFlows))
	}
}

func TestSourceTypedParameter(t *testing.T) {
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: serve
    params:
      - {name: r, type: net/http.Request}
    blocks:
      - ops:
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [r]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 from the source-typed parameter", len(result.TaintFlows))
	}
}

func TestUntrustedParamsOption(t *testing.T) {
	// With untrusted-params set, a plain string parameter is tainted on entry and reaches
	// the sink. Without it, no finding.
	program := `
methods:
  - package: main
    method: serve
    params:
      - {name: q}
    blocks:
      - ops:
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [q], pos: "main.go:5:2"}
          - {op: return}
`
	cfg := testConfig(t)
	result, _ := runTaint(t, cfg, program)
	if len(result.TaintFlows) != 0 {
		t.Fatalf("got %d findings with the option off, want none", len(result.TaintFlows))
	}

	cfg = testConfig(t)
	cfg.UntrustedParams = true
	result, _ = runTaint(t, cfg, program)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings with the option on, want 1", len(result.TaintFlows))
	}
	f := result.TaintFlows[0]
	if len(f.Sources) != 1 || f.Sources[0].Source != "param:q" {
		t.Errorf("sources = %v, want the q parameter origin", f.Sources)
	}
}

func TestFieldSource(t *testing.T) {
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: serve
    params:
      - {name: r, type: other.Wrapper}
    blocks:
      - ops:
          - {op: field-load, dst: f, recv: r, field: Form, type: net/http.Request}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [f]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 from the field source", len(result.TaintFlows))
	}
}

func TestIndexOperandTaintsElement(t *testing.T) {
	// Indexing a clean table with a tainted key taints the loaded element.
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: key, callee: {package: os, method: Getenv}, args: ["const:NAME"]}
          - {op: index, dst: v, base: table, idx: key}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [v]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 from the tainted index", len(result.TaintFlows))
	}
}

func TestFieldStorePropagatesToAggregate(t *testing.T) {
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:A"]}
          - {op: new, dst: q, type: main.Query}
          - {op: field-store, recv: q, field: text, src: t0}
          - {op: field-load, dst: t1, recv: q, field: text}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t1]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 through the field store/load", len(result.TaintFlows))
	}
}
