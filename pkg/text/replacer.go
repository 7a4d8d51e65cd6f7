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
	"context"
	"io"

	"gitlab.com/tozd/go/errors"
)

// 📊 ReplacementResult describes the outcome of running rules over content.
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	ReplacementCount int
	WasModified      bool
}

// 🔌 TextReplacer applies a rule sequence to a stream of content.
type TextReplacer interface {
	ReplaceText(ctx context.Context, content io.Reader, rules []Rule) (*ReplacementResult, error)
	ValidateRules(rules []Rule) error
}

var _ TextReplacer = (*Replacer)(nil)

// Replacer implements TextReplacer with ApplyRules semantics.
type Replacer struct{}

// NewReplacer creates a new Replacer
func NewReplacer() *Replacer {
	return &Replacer{}
}

// ReplaceText reads all of content and applies rules to it in order. The
// context is checked between rules.
func (r *Replacer) ReplaceText(ctx context.Context, content io.Reader, rules []Rule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	if err := r.ValidateRules(rules); err != nil {
		return nil, err
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
	}

	current := string(originalContent)
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("replacing text: %w", err)
		}

		var n int
		current, n = rule.apply(current)
		result.ReplacementCount += n
	}

	result.WasModified = current != string(originalContent)
	result.ModifiedContent = []byte(current)
	return result, nil
}

// ValidateRules returns the first malformed rule's error, if any.
func (r *Replacer) ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if err := rule.validate(i); err != nil {
			return err
		}
	}
	return nil
}
