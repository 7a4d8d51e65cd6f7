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

	"gitlab.com/tozd/go/errors"
)

// ErrMalformedRule is matched by every MalformedRuleError via errors.Is.
var ErrMalformedRule = errors.Base("malformed rule")

// 🚫 MalformedRuleError reports a rule that is not a (find, replace) or
// (find, replace, count) tuple of the required types.
type MalformedRuleError struct {
	Index  int    // Position of the rule in its sequence, -1 if unknown
	Rule   string // Go-syntax representation of the offending rule
	Reason string // What was wrong with it
}

func (e *MalformedRuleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed rule %s: %s", e.Rule, e.Reason)
	}
	return fmt.Sprintf("malformed rule %d %s: %s", e.Index, e.Rule, e.Reason)
}

// Is reports whether target is ErrMalformedRule.
func (e *MalformedRuleError) Is(target error) bool {
	return target == ErrMalformedRule
}

func malformed(index int, rule any, format string, args ...any) *MalformedRuleError {
	return &MalformedRuleError{
		Index:  index,
		Rule:   fmt.Sprintf("%#v", rule),
		Reason: fmt.Sprintf(format, args...),
	}
}
