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

package funcutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	if diff := cmp.Diff([]string{"a", "b", "c"}, SortedKeys(m)); diff != "" {
		t.Errorf("SortedKeys (-want +got):\n%s", diff)
	}
}

func TestContains(t *testing.T) {
	a := []int{1, 2, 3}
	if !Contains(a, 2) {
		t.Errorf("Contains(a, 2) = false")
	}
	if Contains(a, 4) {
		t.Errorf("Contains(a, 4) = true")
	}
}

func TestUnion(t *testing.T) {
	got := Union(map[string]bool{"a": true}, map[string]bool{"b": true})
	want := map[string]bool{"a": true, "b": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Union (-want +got):\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(x int) int { return x * x })
	if diff := cmp.Diff([]int{1, 4, 9}, got); diff != "" {
		t.Errorf("Map (-want +got):\n%s", diff)
	}
}

func TestExists(t *testing.T) {
	if !Exists([]string{"x", "y"}, func(s string) bool { return s == "y" }) {
		t.Errorf("Exists missed a matching element")
	}
	if Exists([]string{}, func(string) bool { return true }) {
		t.Errorf("Exists found an element in an empty slice")
	}
}
