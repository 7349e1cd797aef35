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

	"github.com/awslabs/taintflow/analysis/ir"
)

func srcOrigin(file string, line int) Origin {
	return Origin{Source: "os.Getenv", Pos: ir.Position{File: file, Line: line}}
}

func TestMergeIdentity(t *testing.T) {
	var bottom TaintValue
	tainted := NewTainted(srcOrigin("a.go", 1))
	for _, v := range []TaintValue{UntaintedValue(), tainted, bottom} {
		if got := Merge(bottom, v); !got.Equal(v) {
			t.Errorf("Merge(bottom, %v) = %v, want %v", v.Kind(), got.Kind(), v.Kind())
		}
		if got := Merge(v, bottom); !got.Equal(v) {
			t.Errorf("Merge(%v, bottom) = %v, want %v", v.Kind(), got.Kind(), v.Kind())
		}
	}
}

func TestMergeAbsorption(t *testing.T) {
	tainted := NewTainted(srcOrigin("a.go", 1))
	got := Merge(tainted, UntaintedValue())
	if !got.IsTainted() {
		t.Fatalf("tainted merged with untainted must stay tainted")
	}
	if diff := cmp.Diff(tainted.Origins(), got.Origins()); diff != "" {
		t.Errorf("origins changed by merge with untainted (-want +got):\n%s", diff)
	}
}

func TestMergeCommutativeAndAssociative(t *testing.T) {
	a := NewTainted(srcOrigin("a.go", 1))
	b := NewTainted(srcOrigin("b.go", 2))
	c := UntaintedValue()

	if !Merge(a, b).Equal(Merge(b, a)) {
		t.Errorf("merge is not commutative")
	}
	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	if !left.Equal(right) {
		t.Errorf("merge is not associative")
	}
	if diff := cmp.Diff([]Origin{srcOrigin("a.go", 1), srcOrigin("b.go", 2)}, left.Origins()); diff != "" {
		t.Errorf("merged origins mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := NewTainted(srcOrigin("a.go", 1), srcOrigin("b.go", 2))
	if !Merge(a, a).Equal(a) {
		t.Errorf("merge is not idempotent")
	}
	if !Merge(UntaintedValue(), UntaintedValue()).Equal(UntaintedValue()) {
		t.Errorf("untainted join untainted must be untainted")
	}
}

func TestMergeAllEmpty(t *testing.T) {
	if got := MergeAll(); got.Kind() != Unknown {
		t.Errorf("MergeAll() = %v, want Unknown", got.Kind())
	}
}

func TestOriginsStableOrder(t *testing.T) {
	v := NewTainted(srcOrigin("b.go", 2), srcOrigin("a.go", 9), srcOrigin("a.go", 1))
	want := []Origin{srcOrigin("a.go", 1), srcOrigin("a.go", 9), srcOrigin("b.go", 2)}
	if diff := cmp.Diff(want, v.Origins()); diff != "" {
		t.Errorf("origins order (-want +got):\n%s", diff)
	}
}

func TestParamMarkerRoundTrip(t *testing.T) {
	m := paramMarker(3)
	if !m.isMarker() {
		t.Fatalf("parameter marker not recognized as marker")
	}
	i, ok := paramMarkerIndex(m)
	if !ok || i != 3 {
		t.Errorf("paramMarkerIndex = (%d, %v), want (3, true)", i, ok)
	}
	if _, ok := paramMarkerIndex(srcOrigin("a.go", 1)); ok {
		t.Errorf("real origin mistaken for a parameter marker")
	}
}
