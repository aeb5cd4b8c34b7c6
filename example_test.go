package moedit_test

import (
	"context"
	"fmt"

	"github.com/aretw0/moedit"
	"github.com/aretw0/moedit/pkg/adapters/memory"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/plan"
)

func ExampleEditor_Apply() {
	store := memory.NewStore(domain.Document{
		ID:   "Plant.mo",
		Text: "package P\n  model M\n    parameter Real x = 1;\n  equation\n  end M;\nend P;\n",
	})

	ed, err := moedit.New(moedit.WithStore(store))
	if err != nil {
		panic(err)
	}

	p, err := plan.Parse([]byte(`
input: Plant.mo
steps:
  - op: set_parameter
    target: P.M
    name: x
    value: 2
  - op: add_connection
    target: P.M
    connect: [a, b]
`))
	if err != nil {
		panic(err)
	}

	res, err := ed.Apply(context.Background(), p)
	if err != nil {
		panic(err)
	}
	fmt.Print(res.Document.Text)
	// Output:
	// package P
	//   model M
	//     parameter Real x = 2;
	//   equation
	//     connect(a, b);
	//   end M;
	// end P;
}
