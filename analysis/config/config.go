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

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxCallDepth is the default recursion-depth budget of the interprocedural
	// summarization. Chosen deliberately: deep enough for the wrapper chains seen in
	// practice, shallow enough to bound pathological call chains.
	DefaultMaxCallDepth = 5

	// DefaultMaxSummaries bounds the size of the interprocedural summary cache.
	DefaultMaxSummaries = 10000
)

// Config contains the list of taint tracking problems to solve and the analysis options.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// Private fields are not populated from a yaml file, but computed after initialization.
type Config struct {
	Options `yaml:",inline"`

	sourceFile string

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// TaintTrackingProblems lists the taint tracking specifications, one per vulnerability
	// class. All problems share the same engine; the specification only carries data.
	TaintTrackingProblems []TaintSpec `yaml:"taint-tracking-problems"`
}

// TaintSpec contains the code identifiers that define a specific taint tracking problem.
type TaintSpec struct {
	// SinkKind identifies the vulnerability class of the sinks, e.g. "ldap-injection". It is
	// attached to every finding of this problem and used to route findings to handlers.
	SinkKind string `yaml:"sink-kind"`

	// Description is a short human-readable description of the problem
	Description string `yaml:"description"`

	// Sources is the list of sources of tainted data
	Sources []CodeIdentifier `yaml:"sources"`

	// Sinks is the list of sinks that must not receive tainted data
	Sinks []CodeIdentifier `yaml:"sinks"`

	// Sanitizers is the list of sanitizers that remove taint from data
	Sanitizers []CodeIdentifier `yaml:"sanitizers"`
}

// Options holds the global analysis options.
type Options struct {
	// MaxDepth bounds the callee depth explored by the interprocedural summarization.
	// If MaxDepth is <= 0, DefaultMaxCallDepth is used.
	MaxDepth int `yaml:"max-depth"`

	// MaxAlarms sets a limit for the number of alarms reported. If MaxAlarms > 0, at most
	// MaxAlarms findings will be reported, otherwise it is ignored.
	MaxAlarms int `yaml:"max-alarms"`

	// MaxSummaries bounds the number of cached interprocedural summaries. If <= 0,
	// DefaultMaxSummaries is used.
	MaxSummaries int `yaml:"max-summaries"`

	// PkgFilter restricts the analysis to the methods whose package matches the filter
	PkgFilter string `yaml:"pkg-filter"`

	// UntrustedParams marks every parameter of an analyzed method as tainted on entry,
	// regardless of its type. Off by default: parameters are clean unless their type is a
	// source type.
	UntrustedParams bool `yaml:"untrusted-params"`

	// ReportPaths specifies whether the full source-to-sink trace of each finding should be
	// written to a file in ReportsDir.
	ReportPaths bool `yaml:"report-paths"`

	// ReportsDir is the directory where flow reports are written when ReportPaths is set
	ReportsDir string `yaml:"reports-dir"`

	// LogLevel controls the verbosity of the analysis
	LogLevel int `yaml:"log-level"`

	// SilenceWarn suppresses warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:            "",
		TaintTrackingProblems: nil,
		Options: Options{
			MaxDepth:     DefaultMaxCallDepth,
			MaxAlarms:    0,
			MaxSummaries: DefaultMaxSummaries,
			PkgFilter:    "",
			ReportPaths:  false,
			ReportsDir:   "",
			LogLevel:     int(InfoLevel),
			SilenceWarn:  false,
		},
	}
}

// Load reads a configuration from a yaml file. Loading fails if the file cannot be parsed or
// if any code identifier contains a pattern that does not compile: a malformed catalog entry
// is fatal at session startup, not during individual method analyses.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}
	cfg.sourceFile = filename
	if err := cfg.Build(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Build finalizes a config that was loaded from a file or assembled in memory: defaults are
// filled in and all identifier patterns are compiled. It must be called once before the
// config is handed to an analysis, and returns an error on the first malformed identifier.
func (c *Config) Build() error {
	if c.LogLevel == 0 {
		c.LogLevel = int(InfoLevel)
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxCallDepth
	}
	if c.MaxSummaries <= 0 {
		c.MaxSummaries = DefaultMaxSummaries
	}

	if c.PkgFilter != "" {
		r, err := regexp.Compile(c.PkgFilter)
		if err != nil {
			return fmt.Errorf("could not compile pkg-filter %q: %w", c.PkgFilter, err)
		}
		c.pkgFilterRegex = r
	}

	for i := range c.TaintTrackingProblems {
		spec := &c.TaintTrackingProblems[i]
		if spec.SinkKind == "" {
			return fmt.Errorf("taint tracking problem %d has no sink-kind", i)
		}
		for _, cids := range [][]CodeIdentifier{spec.Sources, spec.Sinks, spec.Sanitizers} {
			for j := range cids {
				if err := compileRegexes(&cids[j]); err != nil {
					return fmt.Errorf("problem %q: %w", spec.SinkKind, err)
				}
			}
		}
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in
// the config file. If no package filter has been set, everything matches. When a filter was
// specified but could not be compiled as a regex, the safe fallback is a prefix check.
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	}
	return true
}

// Verbose returns true if the configuration verbosity setting is larger than Info (i.e.
// Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsMaxDepth returns true if the input exceeds the maximum depth parameter of the
// configuration.
func (c Config) ExceedsMaxDepth(d int) bool {
	return c.MaxDepth > 0 && d > c.MaxDepth
}

// IsSource returns true if the code identifier matches a source specification
func (ts TaintSpec) IsSource(cid CodeIdentifier) bool {
	return ExistsCid(ts.Sources, cid.Matches)
}

// IsSink returns true if the code identifier matches a sink specification
func (ts TaintSpec) IsSink(cid CodeIdentifier) bool {
	return ExistsCid(ts.Sinks, cid.Matches)
}

// IsSanitizer returns true if the code identifier matches a sanitizer specification
func (ts TaintSpec) IsSanitizer(cid CodeIdentifier) bool {
	return ExistsCid(ts.Sanitizers, cid.Matches)
}

// SinkPositions returns the argument positions flagged by the sink entry matching cid, and
// whether a matching entry was found. A nil position slice means every argument position is
// a sink position. Exact matches take precedence over pattern matches.
func (ts TaintSpec) SinkPositions(cid CodeIdentifier) ([]int, bool) {
	for _, ref := range ts.Sinks {
		if cid.MatchesExactly(ref) {
			return ref.ArgPositions, true
		}
	}
	for _, ref := range ts.Sinks {
		if cid.equalOnNonEmptyFields(ref) {
			return ref.ArgPositions, true
		}
	}
	return nil, false
}
