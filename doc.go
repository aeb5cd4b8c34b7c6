/*
Package moedit edits block-structured Modelica-like source text by dotted path.

A path such as Example.G.R4C3 names a model R4C3 nested in package G, nested
in package Example. The editor locates that block by narrowing the text one
scope at a time, then applies small textual edits to it: inserting component
and parameter declarations, setting parameter values, adding or rewiring
connect statements, cloning a model under a new name and adding extends
clauses. Everything outside the edited region is kept byte for byte.

# Concept

Edits are plain functions from text to text (see pkg/mutate). A Plan bundles
a sequence of steps against one document (see pkg/plan). The Editor ties
plans to a DocumentStore, serializes edits of the same document and reports
every resolution, step and save through Hooks.

# Usage

	ed, err := moedit.New(moedit.WithStore(file.New("./models")))
	if err != nil {
		log.Fatal(err)
	}

	p, err := plan.Load("steps.yaml")
	if err != nil {
		log.Fatal(err)
	}

	res, err := ed.Apply(ctx, p)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Document.ID, len(res.Report.Steps))

Failures carry a *domain.EditError naming the operation and the path segment
or statement that could not be found; use errors.Is with the sentinels in
pkg/domain to classify them.
*/
package moedit
