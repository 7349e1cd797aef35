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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/analysis/ir"
)

// buildSpec assembles and compiles one problem in memory, failing the test on a malformed
// identifier.
func buildSpec(t *testing.T, spec config.TaintSpec) *config.TaintSpec {
	t.Helper()
	cfg := config.NewDefault()
	cfg.TaintTrackingProblems = []config.TaintSpec{spec}
	if err := cfg.Build(); err != nil {
		t.Fatalf("could not build config: %s", err)
	}
	return &cfg.TaintTrackingProblems[0]
}

func TestCatalogExactAndPatternMatch(t *testing.T) {
	spec := buildSpec(t, config.TaintSpec{
		SinkKind: "sql-injection",
		Sinks: []config.CodeIdentifier{
			{Package: "database/sql", Receiver: "DB", Method: "Query(Context)?", ArgPositions: []int{0}},
		},
		Sources: []config.CodeIdentifier{
			{Package: "os", Method: "Getenv"},
		},
	})
	cat, err := NewCatalog(spec, nil)
	if err != nil {
		t.Fatalf("NewCatalog: %s", err)
	}

	if !cat.IsSource(ir.Signature{Package: "os", Method: "Getenv"}) {
		t.Errorf("exact source entry did not match")
	}
	if cat.IsSource(ir.Signature{Package: "os", Method: "Getwd"}) {
		t.Errorf("unrelated member matched a source entry")
	}

	for _, method := range []string{"Query", "QueryContext"} {
		sig := ir.Signature{Package: "database/sql", Receiver: "DB", Method: method}
		positions, ok := cat.SinkPositions(sig)
		if !ok {
			t.Errorf("pattern sink entry did not match %s", method)
			continue
		}
		if diff := cmp.Diff([]int{0}, positions); diff != "" {
			t.Errorf("sink positions for %s (-want +got):\n%s", method, diff)
		}
	}

	// The anchored pattern must not widen to longer member names.
	if _, ok := cat.SinkPositions(ir.Signature{Package: "database/sql", Receiver: "DB", Method: "QueryRowContext"}); ok {
		t.Errorf("pattern matched QueryRowContext, want whole-name matching only")
	}
}

func TestCatalogHierarchyWidening(t *testing.T) {
	oracle := ir.NewTypeTable()
	oracle.Declare("AuditedDB", "BaseDB", nil)
	oracle.Declare("BaseDB", "", []string{"Querier"})

	spec := buildSpec(t, config.TaintSpec{
		SinkKind: "sql-injection",
		Sinks: []config.CodeIdentifier{
			{Receiver: "Querier", Method: "Query", ArgPositions: []int{0}},
		},
	})
	cat, err := NewCatalog(spec, oracle)
	if err != nil {
		t.Fatalf("NewCatalog: %s", err)
	}

	// A call through a subtype of the flagged receiver is still a sink.
	if _, ok := cat.SinkPositions(ir.Signature{Receiver: "AuditedDB", Method: "Query"}); !ok {
		t.Errorf("sink entry on interface did not match subtype receiver")
	}
	if _, ok := cat.SinkPositions(ir.Signature{Receiver: "Unrelated", Method: "Query"}); ok {
		t.Errorf("sink entry matched a receiver outside the hierarchy")
	}
}

func TestCatalogSourceTypes(t *testing.T) {
	oracle := ir.NewTypeTable()
	oracle.Declare("LoginRequest", "Request", nil)

	spec := buildSpec(t, config.TaintSpec{
		SinkKind: "x",
		Sources: []config.CodeIdentifier{
			{Package: "net/http", Type: "Request"},
			{Type: "Request"},
		},
	})
	cat, err := NewCatalog(spec, oracle)
	if err != nil {
		t.Fatalf("NewCatalog: %s", err)
	}

	for _, typeName := range []string{"*net/http.Request", "net/http.Request", "Request", "LoginRequest"} {
		if !cat.IsSourceType(typeName) {
			t.Errorf("IsSourceType(%q) = false, want true", typeName)
		}
	}
	if cat.IsSourceType("Response") {
		t.Errorf("IsSourceType(Response) = true, want false")
	}
	if cat.IsSourceType("") {
		t.Errorf("empty type matched a source entry")
	}
}

func TestCatalogRequiresSinkKind(t *testing.T) {
	if _, err := NewCatalog(&config.TaintSpec{}, nil); err == nil {
		t.Errorf("catalog built from a spec without sink-kind, want error")
	}
}
