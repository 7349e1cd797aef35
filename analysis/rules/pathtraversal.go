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

package rules

import "github.com/awslabs/taintflow/analysis/config"

// PathTraversal flags tainted data used as a filesystem path (CWE-22). Only the path
// argument of each member is a sink position.
func PathTraversal() config.TaintSpec {
	return config.TaintSpec{
		SinkKind:    "path-traversal",
		Description: "tainted data used as a filesystem path",
		Sources:     webSources(),
		Sinks: []config.CodeIdentifier{
			{Package: "os", Method: "Open(File)?", ArgPositions: []int{0}},
			{Package: "os", Method: "Create", ArgPositions: []int{0}},
			{Package: "os", Method: "ReadFile", ArgPositions: []int{0}},
			{Package: "os", Method: "WriteFile", ArgPositions: []int{0}},
			{Package: "os", Method: "Remove(All)?", ArgPositions: []int{0}},
			{Package: "os", Method: "Rename"},
			{Package: "io/ioutil", Method: "ReadFile", ArgPositions: []int{0}},
			{Package: "io/ioutil", Method: "WriteFile", ArgPositions: []int{0}},
		},
		Sanitizers: []config.CodeIdentifier{
			{Package: "path/filepath", Method: "Base"},
			{Package: "path/filepath", Method: "Clean"},
		},
	}
}
