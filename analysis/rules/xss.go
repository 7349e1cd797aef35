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

// CrossSiteScripting flags tainted data written to a response without HTML escaping
// (CWE-79).
func CrossSiteScripting() config.TaintSpec {
	return config.TaintSpec{
		SinkKind:    "cross-site-scripting",
		Description: "tainted data written to an HTTP response without escaping",
		Sources:     webSources(),
		Sinks: []config.CodeIdentifier{
			{Package: "net/http", Receiver: "ResponseWriter", Method: "Write"},
			{Package: "io", Method: "WriteString", ArgPositions: []int{1}},
			{Package: "fmt", Method: "Fprint(f|ln)?"},
		},
		Sanitizers: []config.CodeIdentifier{
			{Package: "html", Method: "EscapeString"},
			{Package: "html/template", Method: "HTMLEscapeString"},
			{Package: "html/template", Method: "JSEscapeString"},
			{Package: "net/url", Method: "QueryEscape"},
		},
	}
}
