package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"extensible-data/component"
)

// Person is the context the greeter is wired for.
type Person struct {
	FirstName string
	LastName  string
}

const defaultWiring = `
contexts:
  - name: person
    components:
      Greeter: greet_hello
      NameGetter: field:first_name
`

// GreetHello greets whatever name the context's NameGetter yields.
func GreetHello(ctx component.Context) (string, error) {
	name, err := component.Use[string](ctx, "NameGetter")
	if err != nil {
		return "", err
	}

	return "Hello, " + name + "!", nil
}

// GreetFormal is an alternative Greeter a wiring file can select.
func GreetFormal(ctx component.Context) (string, error) {
	name, err := component.Use[string](ctx, "NameGetter")
	if err != nil {
		return "", err
	}

	return "Good day to you, " + name + ".", nil
}

func greeters() component.Catalog {
	return component.Catalog{
		"greet_hello":  component.MustProvider("greet_hello", GreetHello),
		"greet_formal": component.MustProvider("greet_formal", GreetFormal),
	}
}

// personTable builds the "person" table from path, or from the built-in
// wiring when path is empty.
func personTable(path string) (*component.Table, error) {
	var (
		w   *component.Wiring
		err error
	)

	if path == "" {
		w, err = component.ParseWiring([]byte(defaultWiring))
	} else {
		w, err = component.LoadWiring(path)
	}

	if err != nil {
		return nil, err
	}

	tables, err := component.Build(w, greeters())
	if err != nil {
		return nil, err
	}

	t, ok := tables["person"]
	if !ok {
		return nil, fmt.Errorf("%w: wiring has no person context", component.ErrInvalidWiring)
	}

	return t, nil
}

func newGreetCmd(opts *rootOptions) *cobra.Command {
	var name, last, wiring string

	cmd := &cobra.Command{
		Use:   "greet",
		Short: "Greet a person through the wired Greeter component",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := personTable(wiring)
			if err != nil {
				return err
			}

			person := Person{FirstName: name, LastName: last}

			greeting, err := component.Call[string](t, "Greeter", person)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), greeting)

			if opts.dump {
				opts.show(cmd, "context", person)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Alice", "first name of the person to greet")
	cmd.Flags().StringVar(&last, "last", "", "last name of the person")
	cmd.Flags().StringVar(&wiring, "wiring", "", "YAML wiring file (default: built-in)")

	return cmd
}
