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

// LDAPInjection flags tainted data reaching an LDAP search filter or a bind DN (CWE-90).
// The search constructor takes the base DN at position 0 and the filter at position 6;
// the escaping helpers of the client library are the sanitizers.
func LDAPInjection() config.TaintSpec {
	return config.TaintSpec{
		SinkKind:    "ldap-injection",
		Description: "tainted data used in an LDAP filter or distinguished name",
		Sources:     webSources(),
		Sinks: []config.CodeIdentifier{
			{Package: "github.com/go-ldap/ldap/v3", Method: "NewSearchRequest", ArgPositions: []int{0, 6}},
			{Package: "github.com/go-ldap/ldap/v3", Receiver: "Conn", Method: "Search(WithPaging)?"},
			{Package: "github.com/go-ldap/ldap/v3", Receiver: "Conn", Method: "Bind", ArgPositions: []int{0}},
		},
		Sanitizers: []config.CodeIdentifier{
			{Package: "github.com/go-ldap/ldap/v3", Method: "EscapeFilter"},
			{Package: "github.com/go-ldap/ldap/v3", Method: "EscapeDN"},
		},
	}
}
