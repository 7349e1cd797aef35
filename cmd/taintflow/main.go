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

// taintflow runs the taint tracking problems of a configuration over one or more program
// model files and reports every source-to-sink flow it finds.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/awslabs/taintflow/analysis"
	"github.com/awslabs/taintflow/analysis/config"
	"github.com/awslabs/taintflow/internal/formatutil"
)

var (
	configPath = flag.String("config", "", "Config file path for taint analysis (built-in rules when omitted)")
	sinkKind   = flag.String("kind", "", "Only run the taint tracking problem with this sink kind (e.g. sql-injection)")
)

const usage = ` Perform taint analysis on a program model.
Usage:
    taintflow [options] <program file(s)>
Examples:
% taintflow -config config.yaml program.yaml
% taintflow -kind sql-injection program.yaml
Without -config, the built-in vulnerability rules are used.
`

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}
	nFlows, err := run(flag.Args(), *sinkKind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	if nFlows > 0 {
		os.Exit(1)
	}
}

func run(programFiles []string, kind string) (int, error) {
	cfg, err := analysis.LoadConfig(*configPath)
	if err != nil {
		return 0, err
	}
	if kind != "" {
		var kept []config.TaintSpec
		for _, spec := range cfg.TaintTrackingProblems {
			if spec.SinkKind == kind {
				kept = append(kept, spec)
			}
		}
		if len(kept) == 0 {
			return 0, fmt.Errorf("no taint tracking problem with sink kind %q", kind)
		}
		cfg.TaintTrackingProblems = kept
	}

	logger := config.NewLogGroup(cfg)
	logger.Infof("%s", formatutil.Faint("Reading program model"))

	program, err := analysis.LoadProgram(programFiles)
	if err != nil {
		return 0, err
	}
	logger.Infof("%d methods loaded", len(program.Methods))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := analysis.RunTaint(ctx, cfg, logger, program)
	if err != nil {
		return 0, fmt.Errorf("analysis failed: %w", err)
	}
	logger.Infof("Analysis took %3.4f s", time.Since(start).Seconds())

	for _, finding := range result.TaintFlows {
		logger.Infof("%s in %s:\n\tSink: %s (arg %d)\n\t\t[%s]",
			formatutil.Red("A source has reached a sink"),
			finding.Method,
			finding.Sink.Key(),
			finding.ArgPos,
			finding.SinkPos.String(),
		)
		for _, src := range finding.Sources {
			logger.Infof("\tSource: %s\n\t\t[%s]", src.Source, src.Pos.String())
		}
	}
	for _, analysisErr := range result.Errors {
		logger.Warnf("incomplete coverage: %s", analysisErr)
	}

	if len(result.TaintFlows) > 0 {
		logger.Errorf("%s", formatutil.Bold(fmt.Sprintf("%d tainted flow(s) found", len(result.TaintFlows))))
	} else {
		logger.Infof("%s", formatutil.Green("No tainted flows"))
	}
	return len(result.TaintFlows), nil
}
