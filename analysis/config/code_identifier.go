package config

import (
	"fmt"
	"regexp"
)

// A CodeIdentifier identifies a code element that is a source, sink or sanitizer. A code
// element can be identified by its package, method, receiver, field or type, or any
// combination of those. An empty field matches anything.
type CodeIdentifier struct {
	Package  string `yaml:"package"`
	Method   string `yaml:"method"`
	Receiver string `yaml:"receiver"`
	Field    string `yaml:"field"`
	Type     string `yaml:"type"`

	// ArgPositions restricts a sink identifier to specific argument positions (0-based). When
	// empty, every argument position of the member is a sink position.
	ArgPositions []int `yaml:"args"`

	// computedRegexs is not part of the yaml config, it is computed when the config is loaded
	computedRegexs *codeIdentifierRegex
}

type codeIdentifierRegex struct {
	packageRegex  *regexp.Regexp
	methodRegex   *regexp.Regexp
	receiverRegex *regexp.Regexp
	fieldRegex    *regexp.Regexp
	typeRegex     *regexp.Regexp
}

// compileRegexes compiles the strings in the code identifier into regexes. Unlike a plain
// string comparison, a regex field matches all the overloads or variants of a dangerous API
// without enumerating each. An identifier with an uncompilable field is a configuration
// error: the caller must treat it as fatal for the whole session.
func compileRegexes(cid *CodeIdentifier) error {
	fields := []struct {
		name string
		expr string
		dst  **regexp.Regexp
	}{
		{"package", cid.Package, nil},
		{"method", cid.Method, nil},
		{"receiver", cid.Receiver, nil},
		{"field", cid.Field, nil},
		{"type", cid.Type, nil},
	}
	compiled := &codeIdentifierRegex{}
	dsts := []**regexp.Regexp{
		&compiled.packageRegex,
		&compiled.methodRegex,
		&compiled.receiverRegex,
		&compiled.fieldRegex,
		&compiled.typeRegex,
	}
	for i, f := range fields {
		r, err := regexp.Compile(anchor(f.expr))
		if err != nil {
			return fmt.Errorf("could not compile %s pattern %q of identifier %v: %w",
				f.name, f.expr, *cid, err)
		}
		*dsts[i] = r
	}
	cid.computedRegexs = compiled
	return nil
}

// anchor wraps the expression so that a pattern must match the whole field. Without the
// anchors, the sink "Query" would also match "QueryRowContext" and silently widen the
// catalog.
func anchor(expr string) string {
	if expr == "" {
		return ""
	}
	return "^(?:" + expr + ")$"
}

// MatchesExactly returns true if each of the receiver's fields is equal, as a plain string,
// to the corresponding field of the reference, or the reference's field is empty.
func (cid CodeIdentifier) MatchesExactly(ref CodeIdentifier) bool {
	return (cid.Package == ref.Package || ref.Package == "") &&
		(cid.Method == ref.Method || ref.Method == "") &&
		(cid.Receiver == ref.Receiver || ref.Receiver == "") &&
		(cid.Field == ref.Field || ref.Field == "") &&
		(cid.Type == ref.Type || ref.Type == "")
}

// equalOnNonEmptyFields returns true if each of the receiver's fields matches the
// corresponding reference field, where a reference field matches either by compiled regex
// or, when it is empty, matches anything.
func (cid CodeIdentifier) equalOnNonEmptyFields(ref CodeIdentifier) bool {
	if ref.computedRegexs != nil {
		return (ref.computedRegexs.packageRegex.MatchString(cid.Package) || ref.Package == "") &&
			(ref.computedRegexs.methodRegex.MatchString(cid.Method) || ref.Method == "") &&
			(ref.computedRegexs.receiverRegex.MatchString(cid.Receiver) || ref.Receiver == "") &&
			(ref.computedRegexs.fieldRegex.MatchString(cid.Field) || ref.Field == "") &&
			(ref.computedRegexs.typeRegex.MatchString(cid.Type) || ref.Type == "")
	}
	return cid.MatchesExactly(ref)
}

// Matches reports whether the concrete identifier cid matches the reference ref, trying the
// exact comparison before the pattern comparison. Catalog queries rely on this order: an
// exact entry wins over a pattern that would also match.
func (cid CodeIdentifier) Matches(ref CodeIdentifier) bool {
	return cid.MatchesExactly(ref) || cid.equalOnNonEmptyFields(ref)
}

// ExistsCid is true if there is some x in a such that f(x) is true.
// O(len(a))
func ExistsCid(a []CodeIdentifier, f func(identifier CodeIdentifier) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}
