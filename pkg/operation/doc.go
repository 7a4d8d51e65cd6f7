/*
Package operation runs the jobs described by a loaded config.

	+-------------+      +-------------------+
	|   Config    | ---> |      Runner       |
	+-------------+      +---------+---------+
	                               |
	                  +------------+------------+
	                  |                         |
	           +------+------+           +------+------+
	           |   Replace   |           |    Clean    |
	           | (text pkg)  |           | (cleanup)   |
	           +-------------+           +-------------+

🎯 Purpose:
- Expands each replace job's globs relative to a base directory
- Rewrites matched files with the job's rules, several files at a time
- Runs cleanup jobs and reports every removed path

⚠️ Jobs run one after another, so a file matched by two jobs sees the first
job's output. Inside a job each file is rewritten by exactly one goroutine.
*/
package operation
