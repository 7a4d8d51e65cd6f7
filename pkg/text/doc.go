/*
Package text applies ordered literal substitution rules to strings and files.

	+-----------+     +-----------+     +-----------+
	|  Rule 0   | --> |  Rule 1   | --> |  Rule N   |
	| find/repl |     | find/repl |     | find/repl |
	+-----------+     +-----------+     +-----------+
	      ^                                   |
	      |                                   v
	   input text                        output text

🎯 Purpose:
- Literal find/replace, optionally limited to the first N occurrences
- Rules compose: each rule sees the output of the one before it
- In-place file rewriting that never leaves a half-written file

🔄 Flow:
1. Rules are built with NewRule / NewCountedRule, or parsed from untyped
   tuples with ParseRule
2. ApplyRules runs every rule in order, failing on the first malformed one
3. ApplyRulesToFile reads, substitutes, then atomically replaces the file

⚠️ Matching is leftmost-first and non-overlapping. Replaced regions are never
rescanned by the same rule. There is no regular expression support.

🔍 Example:

	out, err := text.ApplyRules("hello",
		text.NewRule("h", "j"),
		text.MustCountedRule("l", "1", 1),
	)
	// out == "je1lo"
*/
package text
