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

package analysis

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/analysis/ir"
)

func TestLoadConfigDefaultsToBuiltinRules(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
	if len(cfg.TaintTrackingProblems) == 0 {
		t.Fatalf("built-in rules missing from the default config")
	}
}

func TestRunTaintEndToEnd(t *testing.T) {
	// A complete session against the built-in rules: a handler reads a form value and
	// builds a SQL query out of it.
	dir := t.TempDir()
	programPath := filepath.Join(dir, "program.yaml")
	programModel := `
methods:
  - package: example/server
    method: search
    params:
      - {name: w}
      - {name: r, type: net/http.Request}
    blocks:
      - ops:
          - {op: call, dst: term, callee: {package: net/http, receiver: Request, method: FormValue}, recv: r, args: ["const:q"], pos: "search.go:14:9"}
          - {op: binary, dst: query, operator: "+", x: "const:SELECT * FROM t WHERE name = ", y: term}
          - {op: call, dst: rows, callee: {package: database/sql, receiver: DB, method: Query}, recv: db, args: [query], pos: "search.go:16:20"}
          - {op: return}
`
	if err := os.WriteFile(programPath, []byte(programModel), 0600); err != nil {
		t.Fatalf("could not write program model: %s", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
	cfg.LogLevel = int(config.ErrLevel)
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)

	program, err := LoadProgram([]string{programPath})
	if err != nil {
		t.Fatalf("LoadProgram: %s", err)
	}
	result, err := RunTaint(context.Background(), cfg, logger, program)
	if err != nil {
		t.Fatalf("RunTaint: %s", err)
	}

	var kinds []string
	for _, f := range result.TaintFlows {
		kinds = append(kinds, f.SinkKind)
	}
	found := false
	for _, k := range kinds {
		if k == "sql-injection" {
			found = true
		}
	}
	if !found {
		t.Fatalf("findings %v do not include sql-injection", kinds)
	}
}

func TestRunTaintQueryContextSink(t *testing.T) {
	// Context variants of the database/sql sinks take the query at argument 1; a
	// tainted query there must fire even though argument 0 is the clean context.
	dir := t.TempDir()
	programPath := filepath.Join(dir, "program.yaml")
	programModel := `
methods:
  - package: example/server
    method: lookup
    params:
      - {name: ctx}
    blocks:
      - ops:
          - {op: call, dst: q, callee: {package: os, method: Getenv}, args: ["const:QUERY"], pos: "lookup.go:9:8"}
          - {op: call, dst: rows, callee: {package: database/sql, receiver: DB, method: QueryContext}, recv: db, args: [ctx, q], pos: "lookup.go:11:20"}
          - {op: return}
`
	if err := os.WriteFile(programPath, []byte(programModel), 0600); err != nil {
		t.Fatalf("could not write program model: %s", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
	cfg.LogLevel = int(config.ErrLevel)
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)

	program, err := LoadProgram([]string{programPath})
	if err != nil {
		t.Fatalf("LoadProgram: %s", err)
	}
	result, err := RunTaint(context.Background(), cfg, logger, program)
	if err != nil {
		t.Fatalf("RunTaint: %s", err)
	}

	var sqlFindings int
	for _, f := range result.TaintFlows {
		if f.SinkKind == "sql-injection" {
			sqlFindings++
		}
	}
	if sqlFindings != 1 {
		t.Fatalf("got %d sql-injection findings, want 1", sqlFindings)
	}
}

func TestLoadProgramMissingFile(t *testing.T) {
	if _, err := LoadProgram([]string{"no-such-program.yaml"}); err == nil {
		t.Fatalf("missing program file loaded, want error")
	}
}

func TestLoadProgramMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.yaml")
	second := filepath.Join(dir, "b.yaml")
	os.WriteFile(first, []byte(`
methods:
  - package: p
    method: f
    blocks:
      - ops: [{op: return}]
`), 0600)
	os.WriteFile(second, []byte(`
methods:
  - package: p
    method: g
    blocks:
      - ops: [{op: return}]
`), 0600)
	prog, err := LoadProgram([]string{first, second})
	if err != nil {
		t.Fatalf("LoadProgram: %s", err)
	}
	if prog.MethodFor(ir.Signature{Package: "p", Method: "f"}) == nil ||
		prog.MethodFor(ir.Signature{Package: "p", Method: "g"}) == nil {
		t.Errorf("methods from both files not loaded")
	}
}
