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

import "github.com/awslabs/taintflow/analysis/ir"

// locKey identifies a tracked storage location in the abstract state: a local variable, or
// a field of a value held in a local.
type locKey string

func localKey(l *ir.Local) locKey { return locKey(l.ID) }

func fieldKey(recv ir.Value, field string) locKey {
	return locKey(recv.Name() + "." + field)
}

// blockState maps tracked locations to lattice values. A location absent from the map is
// Unknown: it has not been written on any path reaching this point. Absence is the merge
// identity, which is what makes block joins monotone.
type blockState struct {
	values map[locKey]TaintValue
}

func newBlockState() *blockState {
	return &blockState{values: map[locKey]TaintValue{}}
}

// taintOf reads the lattice value of an operand. Constants never carry taint, and a local
// read before any write is clean: every source of taint is explicit in the model.
func (s *blockState) taintOf(v ir.Value) TaintValue {
	switch val := v.(type) {
	case *ir.Const:
		return UntaintedValue()
	case *ir.Local:
		if tv, ok := s.values[localKey(val)]; ok {
			return tv
		}
		return UntaintedValue()
	default:
		return UntaintedValue()
	}
}

// get reads a location directly, returning the bottom element when untracked.
func (s *blockState) get(k locKey) TaintValue {
	return s.values[k]
}

func (s *blockState) set(k locKey, tv TaintValue) {
	s.values[k] = tv
}

// weakSet merges tv into the location instead of overwriting it, for writes whose target
// may alias other data (field and element stores).
func (s *blockState) weakSet(k locKey, tv TaintValue) {
	s.values[k] = Merge(s.values[k], tv)
}

// mergeFrom joins other into s. It reports whether s changed, which drives the fixpoint.
func (s *blockState) mergeFrom(other *blockState) bool {
	changed := false
	for k, tv := range other.values {
		merged := Merge(s.values[k], tv)
		if !merged.Equal(s.values[k]) {
			s.values[k] = merged
			changed = true
		}
	}
	return changed
}

func (s *blockState) equal(other *blockState) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for k, tv := range s.values {
		if !tv.Equal(other.values[k]) {
			return false
		}
	}
	return true
}
