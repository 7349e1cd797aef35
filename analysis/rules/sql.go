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

// SQLInjection flags tainted data reaching the query string of the database/sql query
// members (CWE-89). Only the query text is a sink position: tainted data in the bind
// parameters is the safe pattern, not the vulnerability. The Context variants take the
// query at argument 1, after the context.
func SQLInjection() config.TaintSpec {
	return config.TaintSpec{
		SinkKind:    "sql-injection",
		Description: "tainted data used to build a SQL query",
		Sources:     webSources(),
		Sinks: []config.CodeIdentifier{
			{Package: "database/sql", Receiver: "DB", Method: "Query(Row)?", ArgPositions: []int{0}},
			{Package: "database/sql", Receiver: "DB", Method: "Query(Row)?Context", ArgPositions: []int{1}},
			{Package: "database/sql", Receiver: "DB", Method: "Exec", ArgPositions: []int{0}},
			{Package: "database/sql", Receiver: "DB", Method: "ExecContext", ArgPositions: []int{1}},
			{Package: "database/sql", Receiver: "DB", Method: "Prepare", ArgPositions: []int{0}},
			{Package: "database/sql", Receiver: "DB", Method: "PrepareContext", ArgPositions: []int{1}},
			{Package: "database/sql", Receiver: "Tx", Method: "Query(Row)?", ArgPositions: []int{0}},
			{Package: "database/sql", Receiver: "Tx", Method: "Query(Row)?Context", ArgPositions: []int{1}},
			{Package: "database/sql", Receiver: "Tx", Method: "Exec", ArgPositions: []int{0}},
			{Package: "database/sql", Receiver: "Tx", Method: "ExecContext", ArgPositions: []int{1}},
		},
		Sanitizers: []config.CodeIdentifier{
			{Package: "strconv", Method: "Atoi"},
			{Package: "strconv", Method: "Parse(Int|Uint|Float|Bool)"},
		},
	}
}
