package record_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extensible-data/record"
)

type Contact struct {
	LastName string
	Email    string
}

type Nickname struct {
	FirstName []byte
}

type Named struct {
	FirstName any
}

func TestEmployeeFromPersonAnyOrder(t *testing.T) {
	want := Employee{EmployeeID: 1, FirstName: "John", LastName: "Smith"}
	person := Person{FirstName: "John", LastName: "Smith"}

	t.Run("person first", func(t *testing.T) {
		p, err := record.Builder[Employee]()
		require.NoError(t, err)
		p, err = record.BuildFrom(p, person)
		require.NoError(t, err)
		p, err = p.BuildField("employee_id", uint64(1))
		require.NoError(t, err)

		got, err := p.Finalize()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("id first", func(t *testing.T) {
		p, err := record.Builder[Employee]()
		require.NoError(t, err)
		p, err = p.BuildField("employee_id", uint64(1))
		require.NoError(t, err)
		p, err = record.BuildFrom(p, person)
		require.NoError(t, err)

		got, err := p.Finalize()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestMergeResidue(t *testing.T) {
	dst, err := record.Builder[Person]()
	require.NoError(t, err)

	src, err := record.IntoBuilder(Contact{LastName: "Smith", Email: "js@example.com"})
	require.NoError(t, err)

	dst, rest, err := record.Merge(dst, src)
	require.NoError(t, err)

	assert.Equal(t, []string{"first_name"}, dst.Missing(), "fields src does not have are untouched")
	assert.Equal(t, []string{"email"}, rest.Present(), "fields dst does not declare stay in the residue")
	assert.Equal(t, []string{"last_name"}, rest.Missing())

	email, _, err := record.Take[string](rest, "email")
	require.NoError(t, err)
	assert.Equal(t, "js@example.com", email)
}

func TestMergeIsOrderIndependent(t *testing.T) {
	// Merging fields one at a time in reverse declaration order must give
	// the same record as a single Merge.
	src, err := record.IntoBuilder(Person{FirstName: "John", LastName: "Smith"})
	require.NoError(t, err)

	base, err := record.Builder[Employee]()
	require.NoError(t, err)
	base, err = base.BuildField("employee_id", uint64(1))
	require.NoError(t, err)

	merged, _, err := record.Merge(base, src)
	require.NoError(t, err)

	manual := base
	keys := src.Present()
	for i := len(keys) - 1; i >= 0; i-- {
		var v any

		v, src, err = src.TakeField(keys[i])
		require.NoError(t, err)
		manual, err = manual.BuildField(keys[i], v)
		require.NoError(t, err)
	}

	a, err := merged.Finalize()
	require.NoError(t, err)
	b, err := manual.Finalize()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMergeTwoSourcesEitherOrder(t *testing.T) {
	first, err := record.IntoBuilder(Nickless{FirstName: "John"})
	require.NoError(t, err)
	second, err := record.IntoBuilder(Contact{LastName: "Smith", Email: "x"})
	require.NoError(t, err)

	build := func(a, b func(record.Partial[Person]) (record.Partial[Person], error)) Person {
		p, err := record.Builder[Person]()
		require.NoError(t, err)
		p, err = a(p)
		require.NoError(t, err)
		p, err = b(p)
		require.NoError(t, err)

		out, err := p.Finalize()
		require.NoError(t, err)

		return out
	}

	mergeFirst := func(p record.Partial[Person]) (record.Partial[Person], error) {
		out, _, err := record.Merge(p, first)
		return out, err
	}
	mergeSecond := func(p record.Partial[Person]) (record.Partial[Person], error) {
		out, _, err := record.Merge(p, second)
		return out, err
	}

	assert.Equal(t, build(mergeFirst, mergeSecond), build(mergeSecond, mergeFirst))
}

func TestMergeOverlapIsRejected(t *testing.T) {
	dst, err := record.Builder[Person]()
	require.NoError(t, err)
	dst, err = dst.BuildField("last_name", "Jones")
	require.NoError(t, err)

	src, err := record.IntoBuilder(Person{FirstName: "John", LastName: "Smith"})
	require.NoError(t, err)

	out, rest, err := record.Merge(dst, src)
	require.ErrorIs(t, err, record.ErrFieldPresent)
	assert.Contains(t, err.Error(), "last_name")

	assert.Equal(t, []string{"first_name"}, out.Missing(), "nothing moved")
	assert.Equal(t, []string{"first_name", "last_name"}, rest.Present(), "nothing taken")

	_, err = record.BuildFrom(dst, Person{FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, record.ErrFieldPresent)
}

func TestMergeTypeMismatch(t *testing.T) {
	dst, err := record.Builder[Person]()
	require.NoError(t, err)

	_, err = record.BuildFrom(dst, Nickname{FirstName: []byte("J")})
	assert.ErrorIs(t, err, record.ErrTypeMismatch)
}

func TestMergeIntoInterfaceField(t *testing.T) {
	dst, err := record.Builder[Named]()
	require.NoError(t, err)

	dst, err = record.BuildFrom(dst, Person{FirstName: "John"})
	require.NoError(t, err)

	got, err := dst.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "John", got.FirstName)

	v, _, err := record.Take[any](dst, "first_name")
	require.NoError(t, err)
	assert.Equal(t, "John", v)
}

type Nickless struct {
	FirstName string
}

func ExampleBuildFrom() {
	p, _ := record.Builder[Employee]()
	p, _ = p.BuildField("employee_id", uint64(1))
	p, _ = record.BuildFrom(p, Person{FirstName: "John", LastName: "Smith"})

	e, err := p.Finalize()
	fmt.Printf("%+v %v\n", e, err)

	// Output:
	// {EmployeeID:1 FirstName:John LastName:Smith} <nil>
}
