// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"fmt"
	"strings"
)

// ruleKind tags which variant a Rule holds. The zero value is invalid so that
// an uninitialised Rule is rejected rather than silently applied.
type ruleKind uint8

const (
	kindInvalid ruleKind = iota
	kindAll              // (find, replace)
	kindCounted          // (find, replace, count)
)

// 🔄 Rule is a single literal find/replace instruction.
//
// A Rule is either unlimited, replacing every occurrence of Find, or counted,
// replacing at most Count leftmost occurrences. Build one with NewRule,
// NewCountedRule or ParseRule.
type Rule struct {
	find    string
	replace string
	count   int
	kind    ruleKind
}

// NewRule returns a rule replacing every occurrence of find with replace.
func NewRule(find, replace string) Rule {
	return Rule{find: find, replace: replace, kind: kindAll}
}

// NewCountedRule returns a rule replacing at most count leftmost occurrences.
// A count of zero is valid and replaces nothing.
func NewCountedRule(find, replace string, count int) (Rule, error) {
	if count < 0 {
		return Rule{}, malformed(-1, []any{find, replace, count}, "count must be >= 0, got %d", count)
	}
	return Rule{find: find, replace: replace, count: count, kind: kindCounted}, nil
}

// MustCountedRule is like NewCountedRule but panics on a negative count.
func MustCountedRule(find, replace string, count int) Rule {
	r, err := NewCountedRule(find, replace, count)
	if err != nil {
		panic(err)
	}
	return r
}

// Find returns the text searched for.
func (r Rule) Find() string { return r.find }

// Replace returns the replacement text.
func (r Rule) Replace() string { return r.replace }

// Count returns the replacement limit and whether the rule has one.
func (r Rule) Count() (int, bool) { return r.count, r.kind == kindCounted }

// String renders the rule as its tuple form.
func (r Rule) String() string {
	switch r.kind {
	case kindAll:
		return fmt.Sprintf("(%q, %q)", r.find, r.replace)
	case kindCounted:
		return fmt.Sprintf("(%q, %q, %d)", r.find, r.replace, r.count)
	default:
		return "(invalid)"
	}
}

func (r Rule) validate(index int) error {
	switch r.kind {
	case kindAll:
		return nil
	case kindCounted:
		if r.count < 0 {
			return malformed(index, r.tuple(), "count must be >= 0, got %d", r.count)
		}
		return nil
	default:
		return malformed(index, r.tuple(), "rule was not built with NewRule, NewCountedRule or ParseRule")
	}
}

func (r Rule) tuple() []any {
	if r.kind == kindCounted {
		return []any{r.find, r.replace, r.count}
	}
	return []any{r.find, r.replace}
}

// limit is the n argument for strings.Replace.
func (r Rule) limit() int {
	if r.kind == kindCounted {
		return r.count
	}
	return -1
}

// apply runs the rule once over s, returning the new text and the number of
// occurrences replaced.
func (r Rule) apply(s string) (string, int) {
	n := r.limit()
	if n == 0 {
		return s, 0
	}
	matches := strings.Count(s, r.find)
	if n > 0 && n < matches {
		matches = n
	}
	if matches == 0 {
		return s, 0
	}
	return strings.Replace(s, r.find, r.replace, n), matches
}

// 🧩 ParseRule builds a Rule from an untyped tuple, as found in decoded config
// files. Valid shapes are (string, string) and (string, string, int) with a
// non-negative int. Anything else is a MalformedRuleError.
func ParseRule(parts ...any) (Rule, error) {
	return parseRule(-1, parts)
}

// ParseRules parses each tuple in order and stops at the first malformed one.
func ParseRules(tuples [][]any) ([]Rule, error) {
	rules := make([]Rule, 0, len(tuples))
	for i, parts := range tuples {
		r, err := parseRule(i, parts)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func parseRule(index int, parts []any) (Rule, error) {
	if len(parts) != 2 && len(parts) != 3 {
		return Rule{}, malformed(index, parts, "expected 2 or 3 elements, got %d", len(parts))
	}

	find, ok := parts[0].(string)
	if !ok {
		return Rule{}, malformed(index, parts, "find must be a string, got %T", parts[0])
	}
	replace, ok := parts[1].(string)
	if !ok {
		return Rule{}, malformed(index, parts, "replace must be a string, got %T", parts[1])
	}

	if len(parts) == 2 {
		return NewRule(find, replace), nil
	}

	count, ok := asInt(parts[2])
	if !ok {
		return Rule{}, malformed(index, parts, "count must be an integer, got %T", parts[2])
	}
	if count < 0 {
		return Rule{}, malformed(index, parts, "count must be >= 0, got %d", count)
	}
	return Rule{find: find, replace: replace, count: count, kind: kindCounted}, nil
}

// asInt accepts any Go integer type. Floats are rejected, even whole ones.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		if n > uint(^uint(0)>>1) {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > uint64(^uint(0)>>1) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
