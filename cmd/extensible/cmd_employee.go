package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"extensible-data/record"
)

// Employee extends Person with an id.
type Employee struct {
	EmployeeID uint64
	FirstName  string
	LastName   string
}

const (
	orderPersonFirst = "person-first"
	orderIDFirst     = "id-first"
)

// composeEmployee fills an Employee builder from person and id in the given
// order; both orders yield the same record.
func composeEmployee(person Person, id uint64, order string) (Employee, error) {
	p, err := record.Builder[Employee]()
	if err != nil {
		return Employee{}, err
	}

	steps := []func(record.Partial[Employee]) (record.Partial[Employee], error){
		func(p record.Partial[Employee]) (record.Partial[Employee], error) { return record.BuildFrom(p, person) },
		func(p record.Partial[Employee]) (record.Partial[Employee], error) {
			return record.Build(p, "employee_id", id)
		},
	}

	switch order {
	case orderPersonFirst:
	case orderIDFirst:
		steps[0], steps[1] = steps[1], steps[0]
	default:
		return Employee{}, fmt.Errorf("unknown order %q (want %s or %s)", order, orderPersonFirst, orderIDFirst)
	}

	for _, step := range steps {
		if p, err = step(p); err != nil {
			return Employee{}, err
		}
	}

	return p.Finalize()
}

func newEmployeeCmd(opts *rootOptions) *cobra.Command {
	var (
		id          uint64
		first, last string
		order       string
	)

	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Compose an Employee from a Person and an id",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := composeEmployee(Person{FirstName: first, LastName: last}, id, order)
			if err != nil {
				return err
			}

			opts.show(cmd, "employee", e)

			return nil
		},
	}

	cmd.Flags().Uint64Var(&id, "id", 1, "employee id")
	cmd.Flags().StringVar(&first, "first", "John", "first name")
	cmd.Flags().StringVar(&last, "last", "Smith", "last name")
	cmd.Flags().StringVar(&order, "order", orderPersonFirst, "build order: person-first or id-first")

	return cmd
}
