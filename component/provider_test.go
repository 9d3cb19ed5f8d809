package component_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extensible-data/component"
)

type Person struct {
	FirstName string
	LastName  string
}

func (p Person) Name() string { return p.FirstName + " " + p.LastName }

type Robot struct {
	Serial int `field:"serial"`
}

type Namer interface{ Name() string }

var errNoName = errors.New("no first name")

func greetHello(ctx component.Context) (string, error) {
	name, err := component.Use[string](ctx, "FirstName")
	if err != nil {
		return "", err
	}

	if name == "" {
		return "", errNoName
	}

	return "Hello, " + name + "!", nil
}

func fullName(p Person) string { return p.Name() }

func describe(n Namer) string { return "named " + n.Name() }

func robotSerial(r *Robot) int { return r.Serial }

func TestParseProvider(t *testing.T) {
	p, err := component.ParseProvider(greetHello)
	require.NoError(t, err)
	assert.Equal(t, "component_test", p.Package)
	assert.Equal(t, "greetHello", p.Name)
	assert.True(t, p.HasErr)
	assert.True(t, p.Generic())
	assert.Equal(t, "string", p.Out.String())

	p, err = component.ParseProvider(fullName)
	require.NoError(t, err)
	assert.False(t, p.HasErr)
	assert.False(t, p.Generic())
	assert.Equal(t, "fullName", p.Name)
	assert.Contains(t, p.String(), "component_test.fullName(func(component_test.Person) string)")

	p, err = component.ParseProvider(describe)
	require.NoError(t, err)
	assert.True(t, p.Generic())
	assert.True(t, p.Accepts(typeOf[Person]()))
	assert.False(t, p.Accepts(typeOf[Robot]()))
}

func TestParseProviderRejects(t *testing.T) {
	tests := []struct {
		name string
		fn   any
		want error
	}{
		{"nil", nil, component.ErrNotAFunction},
		{"not a function", 42, component.ErrNotAFunction},
		{"nil function", (func(Person) string)(nil), component.ErrNotProvider},
		{"no params", func() string { return "" }, component.ErrNotProvider},
		{"two params", func(Person, int) string { return "" }, component.ErrNotProvider},
		{"variadic", func(...Person) string { return "" }, component.ErrNotProvider},
		{"no results", func(Person) {}, component.ErrNotProvider},
		{"second result not error", func(Person) (string, int) { return "", 0 }, component.ErrNotProvider},
		{"three results", func(Person) (string, int, error) { return "", 0, nil }, component.ErrNotProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := component.ParseProvider(tt.fn)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewProviderNamesClosures(t *testing.T) {
	p, err := component.NewProvider("shout", func(p Person) string { return p.FirstName + "!" })
	require.NoError(t, err)
	assert.Equal(t, "shout", p.Name)

	assert.Panics(t, func() { component.MustProvider("bad", 1) })
}

func TestProviderCall(t *testing.T) {
	p := component.MustProvider("fullName", fullName)

	out, err := p.Call(nil, Person{FirstName: "John", LastName: "Smith"})
	require.NoError(t, err)
	assert.Equal(t, "John Smith", out)

	_, err = p.Call(nil, Robot{})
	require.ErrorIs(t, err, component.ErrContextType)

	_, err = p.Call(nil, nil)
	require.ErrorIs(t, err, component.ErrContextType)

	ptr := component.MustProvider("robotSerial", robotSerial)
	out, err = ptr.Call(nil, &Robot{Serial: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, out)

	_, err = component.Provider{Name: "empty"}.Call(nil, Person{})
	assert.ErrorIs(t, err, component.ErrNotProvider)
}
