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

package ir

import "strings"

// Signature is the canonical qualified name of a code member: a function, a method on a
// receiver type, or a field of a type. The front end resolves every invoked member to a
// Signature; the catalog classifies members by matching against it.
type Signature struct {
	Package  string
	Receiver string
	Method   string
	Field    string
	Type     string
}

// Key returns the canonical string form of the signature, usable as a map key.
// Examples: "database/sql.(DB).Query", "os.Getenv", "net/http.Request#Form".
func (s Signature) Key() string {
	var b strings.Builder
	b.WriteString(s.Package)
	if s.Receiver != "" {
		b.WriteString(".(")
		b.WriteString(s.Receiver)
		b.WriteString(")")
	}
	if s.Method != "" {
		b.WriteString(".")
		b.WriteString(s.Method)
	}
	if s.Type != "" && s.Receiver == "" {
		b.WriteString(".")
		b.WriteString(s.Type)
	}
	if s.Field != "" {
		b.WriteString("#")
		b.WriteString(s.Field)
	}
	return b.String()
}

func (s Signature) String() string {
	return s.Key()
}
