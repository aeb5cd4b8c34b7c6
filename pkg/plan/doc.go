/*
Package plan describes a sequence of edits to apply to one document.

A plan is usually written in YAML:

	input: Example.mo
	output: Example1.mo
	steps:
	  - op: clone
	    target: Example.G.R4C3
	    name: R4C3_New
	  - op: extend
	    target: Example.G.R4C3_New
	    base: R4C3
	  - op: add_connection
	    target: Example.G.R4C3_New
	    connect: [A_new, B_new]

Each step resolves its target in the text produced by the previous step, so a
block created by a clone can be addressed by the following steps. A step
without a target applies to the whole document. Execution stops at the first
failing step.
*/
package plan
