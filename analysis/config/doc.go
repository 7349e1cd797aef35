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

// Package config implements the configuration of the taint analysis session: the taint
// tracking problems with their sources, sinks and sanitizers, the analysis options, and the
// leveled logging used by all analyses.
//
// A configuration is loaded once per session from a yaml file (see Load) or assembled in
// memory by rule declarations (see the rules package). Identifier regexes are compiled at
// load time; a malformed identifier fails the load, never an individual method analysis.
package config
