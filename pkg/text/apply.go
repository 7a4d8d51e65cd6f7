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

// 🎯 ApplyRules applies rules to text in order, each rule operating on the
// output of the previous one.
//
// The first malformed rule aborts the call with a *MalformedRuleError and no
// text. With no rules, text is returned unchanged.
func ApplyRules(text string, rules ...Rule) (string, error) {
	out, _, err := applyRules(text, rules)
	if err != nil {
		return "", err
	}
	return out, nil
}

// applyRules also reports the total number of occurrences replaced.
func applyRules(text string, rules []Rule) (string, int, error) {
	total := 0
	for i, rule := range rules {
		if err := rule.validate(i); err != nil {
			return "", 0, err
		}
		var n int
		text, n = rule.apply(text)
		total += n
	}
	return text, total, nil
}
