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

// Package rules ships the built-in taint tracking problems, one per vulnerability class.
// Each rule is pure data: the source, sink and sanitizer identifiers of the class, in the
// same form a user-provided yaml catalog takes. Rules can be used as-is through
// DefaultConfig or merged into a custom configuration.
package rules

import (
	"github.com/awslabs/taintflow/analysis/config"
)

// All returns the built-in taint tracking problems.
func All() []config.TaintSpec {
	return []config.TaintSpec{
		SQLInjection(),
		CommandInjection(),
		LDAPInjection(),
		PathTraversal(),
		CrossSiteScripting(),
		LogInjection(),
	}
}

// DefaultConfig returns a built configuration carrying every built-in problem with default
// options. The returned config is ready to hand to an analysis.
func DefaultConfig() (*config.Config, error) {
	cfg := config.NewDefault()
	cfg.TaintTrackingProblems = All()
	if err := cfg.Build(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// webSources are the attacker-controlled inputs shared by the web-facing rules: the
// request object itself, its parameter and header accessors, and its raw body.
func webSources() []config.CodeIdentifier {
	return []config.CodeIdentifier{
		{Package: "net/http", Type: "Request"},
		{Package: "net/http", Receiver: "Request", Method: "FormValue"},
		{Package: "net/http", Receiver: "Request", Method: "PostFormValue"},
		{Package: "net/http", Receiver: "Request", Method: "Cookie"},
		{Package: "net/http", Type: "Request", Field: "Form"},
		{Package: "net/http", Type: "Request", Field: "PostForm"},
		{Package: "net/http", Type: "Request", Field: "Body"},
		{Package: "net/http", Type: "Request", Field: "URL"},
		{Package: "net/http", Receiver: "Header", Method: "Get"},
		{Package: "net/url", Receiver: "Values", Method: "Get"},
		{Package: "os", Method: "Getenv"},
		{Package: "os", Field: "Args"},
		{Package: "bufio", Receiver: "Reader", Method: "ReadString"},
		{Package: "bufio", Receiver: "Scanner", Method: "Text"},
	}
}
