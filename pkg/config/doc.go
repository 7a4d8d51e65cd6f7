// Package config loads futil job files.
//
//	            +-------------+
//	            |   Config    |
//	            |   (Jobs)    |
//	            +------+------+
//	                   |
//	   +---------+-----+-----+---------+
//	   |         |           |         |
//	+--+---+ +---+--+   +----+---+ +---+--+
//	| YAML | | JSON |   |  TOML  | | HCL  |
//	+------+ +------+   +--------+ +------+
//
// 🎯 Purpose:
// - Reads replace and cleanup jobs from a file
// - Picks a parser from the file extension
// - Validates jobs and compiles their rules up front
//
// 🔄 Flow:
//  1. Load reads the file and asks the registered parsers for one that can
//     handle the name
//  2. The parser decodes into Config, rejecting unknown fields
//  3. Validate fills defaults and compiles each rule with the text package, so
//     a negative count is reported before any file is touched
//
// LoadConfig is the untyped variant: it returns the file as a Mapping for
// callers that only want a few keys.
//
// 🔍 Example:
//
//	# .futil.yaml
//	replace:
//	  - name: rename-module
//	    files: ["**/*.go", "go.mod"]
//	    rules:
//	      - find: github.com/old/mod
//	        replace: github.com/new/mod
//	      - find: "v1"
//	        replace: "v2"
//	        count: 1
//	cleanup:
//	  - name: tmp
//	    dir: ./tmp
//	    pattern: "**/*.log"
//	    max_age: 7d
//	log:
//	  path: ./futil.log
//	  level: debug
package config
