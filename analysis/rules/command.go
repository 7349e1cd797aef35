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

// CommandInjection flags tainted data reaching a subprocess launch (CWE-78). All argument
// positions are sinks: both the program name and its arguments are dangerous when
// attacker-controlled.
func CommandInjection() config.TaintSpec {
	return config.TaintSpec{
		SinkKind:    "command-injection",
		Description: "tainted data used to launch a subprocess",
		Sources:     webSources(),
		Sinks: []config.CodeIdentifier{
			{Package: "os/exec", Method: "Command(Context)?"},
			{Package: "syscall", Method: "Exec"},
			{Package: "syscall", Method: "ForkExec"},
			{Package: "syscall", Method: "StartProcess"},
		},
		Sanitizers: []config.CodeIdentifier{
			{Package: "strconv", Method: "Atoi"},
		},
	}
}
