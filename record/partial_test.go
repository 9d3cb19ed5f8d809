package record_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extensible-data/field"
	"extensible-data/record"
)

type Person struct {
	FirstName string
	LastName  string
}

type Employee struct {
	EmployeeID uint64 `field:"employee_id"`
	FirstName  string
	LastName   string
}

type Badge struct {
	EmployeeID uint64
	Avatar     *string
	Tags       []string
	Extra      any
}

func TestBuildFinalize(t *testing.T) {
	p, err := record.Builder[Employee]()
	require.NoError(t, err)
	assert.Equal(t, []string{"employee_id", "first_name", "last_name"}, p.Missing())

	p, err = p.BuildField("employee_id", uint64(1))
	require.NoError(t, err)
	p, err = record.Build(p, "first_name", "John")
	require.NoError(t, err)

	_, err = p.Finalize()
	require.ErrorIs(t, err, record.ErrIncomplete)
	assert.Contains(t, err.Error(), "missing last_name")
	assert.False(t, p.Complete())

	p, err = p.BuildField("last_name", "Smith")
	require.NoError(t, err)
	assert.True(t, p.Complete())

	e, err := p.Finalize()
	require.NoError(t, err)
	assert.Equal(t, Employee{EmployeeID: 1, FirstName: "John", LastName: "Smith"}, e)
}

func TestBuildAnyPermutation(t *testing.T) {
	values := map[string]any{
		"employee_id": uint64(7),
		"first_name":  "Ada",
		"last_name":   "Lovelace",
	}
	want := Employee{EmployeeID: 7, FirstName: "Ada", LastName: "Lovelace"}

	orders := [][]string{
		{"employee_id", "first_name", "last_name"},
		{"employee_id", "last_name", "first_name"},
		{"first_name", "employee_id", "last_name"},
		{"first_name", "last_name", "employee_id"},
		{"last_name", "employee_id", "first_name"},
		{"last_name", "first_name", "employee_id"},
	}

	for _, order := range orders {
		t.Run(fmt.Sprint(order), func(t *testing.T) {
			var p record.Partial[Employee]

			var err error
			for _, key := range order {
				p, err = p.BuildField(key, values[key])
				require.NoError(t, err)
			}

			got, err := p.Finalize()
			require.NoError(t, err)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Finalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildFieldErrors(t *testing.T) {
	p, err := record.Builder[Employee]()
	require.NoError(t, err)

	_, err = p.BuildField("salary", 10)
	assert.ErrorIs(t, err, field.ErrUnknownField)

	_, err = p.BuildField("employee_id", 1)
	assert.ErrorIs(t, err, record.ErrTypeMismatch, "int is not uint64")

	_, err = p.BuildField("first_name", nil)
	assert.ErrorIs(t, err, record.ErrTypeMismatch)

	p, err = p.BuildField("first_name", "John")
	require.NoError(t, err)

	_, err = p.BuildField("first_name", "Jane")
	assert.ErrorIs(t, err, record.ErrFieldPresent)
}

func TestBuildFieldAssignable(t *testing.T) {
	p, err := record.Builder[Badge]()
	require.NoError(t, err)

	p, err = p.BuildField("avatar", nil)
	require.NoError(t, err)
	p, err = p.BuildField("tags", []string{"a"})
	require.NoError(t, err)
	p, err = p.BuildField("extra", 3.5)
	require.NoError(t, err)
	p, err = p.BuildField("employee_id", uint64(9))
	require.NoError(t, err)

	b, err := p.Finalize()
	require.NoError(t, err)
	assert.Nil(t, b.Avatar)
	assert.Equal(t, []string{"a"}, b.Tags)
	assert.Equal(t, 3.5, b.Extra)
}

func TestTakeField(t *testing.T) {
	p, err := record.IntoBuilder(Person{FirstName: "John", LastName: "Smith"})
	require.NoError(t, err)
	assert.Empty(t, p.Missing())

	v, rest, err := p.TakeField("first_name")
	require.NoError(t, err)
	assert.Equal(t, "John", v)

	state, err := rest.State("first_name")
	require.NoError(t, err)
	assert.Equal(t, field.StateAbsent, state)

	state, err = p.State("first_name")
	require.NoError(t, err)
	assert.Equal(t, field.StatePresent, state, "the receiver is not modified")

	_, _, err = rest.TakeField("first_name")
	assert.ErrorIs(t, err, record.ErrFieldAbsent)

	last, rest, err := record.Take[string](rest, "last_name")
	require.NoError(t, err)
	assert.Equal(t, "Smith", last)
	assert.Equal(t, []string{"first_name", "last_name"}, rest.Missing())

	_, _, err = record.Take[int](p, "last_name")
	assert.ErrorIs(t, err, record.ErrTypeMismatch)

	_, err = rest.State("nope")
	assert.ErrorIs(t, err, field.ErrUnknownField)
}

func TestTakeThenBuildRoundTrip(t *testing.T) {
	p, err := record.IntoBuilder(Person{FirstName: "John", LastName: "Smith"})
	require.NoError(t, err)

	v, rest, err := p.TakeField("last_name")
	require.NoError(t, err)

	rest, err = rest.BuildField("last_name", v)
	require.NoError(t, err)

	got, err := rest.Finalize()
	require.NoError(t, err)
	assert.Equal(t, Person{FirstName: "John", LastName: "Smith"}, got)
}

func TestPointerRecordRejected(t *testing.T) {
	_, err := record.Builder[*Person]()
	assert.ErrorIs(t, err, field.ErrNotStruct)

	_, err = record.Builder[string]()
	assert.ErrorIs(t, err, field.ErrNotStruct)

	var p record.Partial[int]
	_, err = p.BuildField("x", 1)
	assert.ErrorIs(t, err, field.ErrNotStruct)
	assert.Nil(t, p.Missing())
	assert.Equal(t, "int{<invalid>}", p.String())
}

func TestGet(t *testing.T) {
	e := Employee{EmployeeID: 3, FirstName: "Grace", LastName: "Hopper"}

	name, err := record.Get[string](e, "first_name")
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)

	id, err := record.Get[uint64](&e, "employee_id")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)

	_, err = record.Get[int](e, "employee_id")
	assert.ErrorIs(t, err, record.ErrTypeMismatch)

	_, err = record.Get[string](e, "middle_name")
	assert.ErrorIs(t, err, field.ErrUnknownField)

	_, err = record.Get[string]((*Employee)(nil), "first_name")
	assert.ErrorIs(t, err, field.ErrNotStruct)

	_, err = record.Get[string](nil, "first_name")
	assert.ErrorIs(t, err, field.ErrNotStruct)
}

func ExamplePartial_String() {
	p, _ := record.Builder[Employee]()
	p, _ = p.BuildField("first_name", "John")
	fmt.Println(p)

	// Output:
	// record_test.Employee{employee_id:<absent>, first_name:John, last_name:<absent>}
}
