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
	"sort"

	"gitlab.com/tozd/go/errors"
)

// SortWithPriority returns a sorted copy of items with the priority entries
// moved to the front in the order given. Priority entries not present in
// items are ignored, and duplicates in items are kept.
func SortWithPriority(items []string, priority ...string) []string {
	rank := make(map[string]int, len(priority))
	for i, p := range priority {
		if _, seen := rank[p]; !seen {
			rank[p] = i
		}
	}

	out := make([]string, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i]]
		rj, jok := rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// InvertMap swaps the keys and values of m. It fails if two keys map to the
// same value, since the inverse would be ambiguous.
func InvertMap[K, V comparable](m map[K]V) (map[V]K, error) {
	out := make(map[V]K, len(m))
	for k, v := range m {
		if prev, dup := out[v]; dup {
			return nil, errors.Errorf("inverting map: value %#v shared by keys %#v and %#v", v, prev, k)
		}
		out[v] = k
	}
	return out, nil
}
