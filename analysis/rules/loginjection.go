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

// LogInjection flags tainted data written to logs without neutralizing newlines (CWE-117).
// Quoting the value is the accepted sanitization.
func LogInjection() config.TaintSpec {
	return config.TaintSpec{
		SinkKind:    "log-injection",
		Description: "tainted data written to a log without neutralization",
		Sources:     webSources(),
		Sinks: []config.CodeIdentifier{
			{Package: "log", Method: "Print(f|ln)?"},
			{Package: "log", Method: "Fatal(f|ln)?"},
			{Package: "log", Method: "Panic(f|ln)?"},
			{Package: "log", Receiver: "Logger", Method: "Print(f|ln)?"},
		},
		Sanitizers: []config.CodeIdentifier{
			{Package: "strconv", Method: "Quote"},
			{Package: "strings", Method: "Replace(All)?"},
		},
	}
}
