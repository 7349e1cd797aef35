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

// Package analysis ties the pieces of a session together: configuration, program model
// and the taint engine. It is the entry point the command line tool and library users go
// through; the packages below it can also be used individually.
package analysis

import (
	"context"
	"fmt"

	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/analysis/ir"
	"github.com/awslabs/taintflow/analysis/rules"
	"github.com/awslabs/taintflow/analysis/taint"
)

// LoadConfig loads the session configuration from a yaml file, or returns the built-in
// rules with default options when the path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return rules.DefaultConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadProgram reads the program model the front end serialized into one or more yaml
// files.
func LoadProgram(files []string) (*ir.Program, error) {
	prog, err := ir.LoadProgram(files...)
	if err != nil {
		return nil, fmt.Errorf("could not load program: %w", err)
	}
	return prog, nil
}

// RunTaint runs every taint tracking problem of the configuration over the program and
// returns the findings. Handlers for specific sink kinds can be registered on the state
// between NewAnalyzerState and Analyze; this helper is for callers that need none.
func RunTaint(ctx context.Context, cfg *config.Config, logger *config.LogGroup, program *ir.Program) (taint.AnalysisResult, error) {
	state := taint.NewAnalyzerState(cfg, logger, program)
	return taint.Analyze(ctx, state)
}
