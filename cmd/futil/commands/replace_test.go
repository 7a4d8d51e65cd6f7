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

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/futil/pkg/text"
)

func TestParseRuleFlags(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		input     string
		want      string
		wantError string
	}{
		{
			name:   "pairs",
			values: []string{"h=j", "e=ee"},
			input:  "hello",
			want:   "jeello",
		},
		{
			name:   "counted",
			values: []string{"h=j", "l=1=1"},
			input:  "hello",
			want:   "je1lo",
		},
		{
			name:   "empty_replace_deletes",
			values: []string{"l="},
			input:  "hello",
			want:   "heo",
		},
		{
			name:      "missing_separator",
			values:    []string{"nope"},
			wantError: `rule 0 "nope": expected find=replace`,
		},
		{
			name:      "bad_count",
			values:    []string{"a=b=many"},
			wantError: "count must be an integer",
		},
		{
			name:      "negative_count",
			values:    []string{"a=b", "a=b=-1"},
			wantError: "malformed rule 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := ParseRuleFlags(tt.values)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			got, err := text.ApplyRules(tt.input, rules...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
