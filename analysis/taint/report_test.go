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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindingHandlerDispatch(t *testing.T) {
	cfg := testConfig(t)
	prog := loadProgram(t, `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:A"]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0]}
          - {op: return}
`)
	state := NewAnalyzerState(cfg, quietLogger(cfg), prog)

	var handled []Finding
	state.OnFinding("test-sink", func(f Finding) { handled = append(handled, f) })
	state.OnFinding("other-kind", func(f Finding) { t.Errorf("handler for %s invoked with %+v", f.SinkKind, f) })

	result, err := Analyze(context.Background(), state)
	if err != nil {
		t.Fatalf("Analyze: %s", err)
	}
	if len(result.TaintFlows) != 1 || len(handled) != 1 {
		t.Fatalf("got %d findings and %d handler calls, want 1 and 1", len(result.TaintFlows), len(handled))
	}
	if handled[0].Key() != result.TaintFlows[0].Key() {
		t.Errorf("handler received a different finding than the result")
	}
}

func TestMaxAlarmsBudget(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxAlarms = 1
	result, _ := runTaint(t, cfg, `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:A"]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0], pos: "a.go:1:1"}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0], pos: "a.go:2:1"}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want the budget of 1", len(result.TaintFlows))
	}
}

func TestMalformedMethodDoesNotAbortSession(t *testing.T) {
	// broken has a reachable block that neither returns nor branches; its analysis fails
	// but the findings of the well-formed method are still produced.
	result, _ := runTaint(t, testConfig(t), `
methods:
  - package: main
    method: broken
    blocks:
      - ops:
          - {op: assign, dst: x, src: "const:a"}
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:A"]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0]}
          - {op: return}
`)
	if len(result.TaintFlows) != 1 {
		t.Fatalf("got %d findings, want 1 from the well-formed method", len(result.TaintFlows))
	}
	if len(result.Errors) == 0 {
		t.Fatalf("malformed method produced no error")
	}
	if !strings.Contains(result.Errors[0].Error(), "main.broken") {
		t.Errorf("error %q does not name the malformed method", result.Errors[0])
	}
}

func TestPkgFilterSkipsMethods(t *testing.T) {
	cfg := testConfig(t)
	cfg.PkgFilter = "^main$"
	if err := cfg.Build(); err != nil {
		t.Fatalf("could not rebuild config: %s", err)
	}
	result, _ := runTaint(t, cfg, `
methods:
  - package: vendorpkg
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:A"]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0]}
          - {op: return}
`)
	if len(result.TaintFlows) != 0 {
		t.Fatalf("got %d findings from a filtered-out package, want none", len(result.TaintFlows))
	}
}

func TestFlowReportFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportPaths = true
	cfg.ReportsDir = t.TempDir()
	runTaint(t, cfg, `
methods:
  - package: main
    method: handler
    blocks:
      - ops:
          - {op: call, dst: t0, callee: {package: os, method: Getenv}, args: ["const:A"]}
          - {op: call, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [t0]}
          - {op: return}
`)
	matches, err := filepath.Glob(filepath.Join(cfg.ReportsDir, "flow-*.out"))
	if err != nil {
		t.Fatalf("glob: %s", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d report files, want 1", len(matches))
	}
	content, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("could not read report: %s", err)
	}
	if !strings.Contains(string(content), "test-sink") {
		t.Errorf("report %q does not mention the sink kind", content)
	}
}
