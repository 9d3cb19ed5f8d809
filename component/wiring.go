package component

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"extensible-data/internal/diagnostic"
	"extensible-data/internal/match"
)

var ErrInvalidWiring = errors.New("invalid wiring")

// Wiring is the YAML form of a set of component tables.
//
//	version: "1"
//	contexts:
//	  - name: person
//	    components:
//	      Greeter: greet_hello
//	      FirstName: field:first_name
type Wiring struct {
	Version  string        `yaml:"version,omitempty"`
	Contexts []ContextSpec `yaml:"contexts"`
}

// ContextSpec wires the components of one context. Each value is a catalog
// provider name or FieldPrefix followed by a field key.
type ContextSpec struct {
	Name       string          `yaml:"name"`
	Components map[Name]string `yaml:"components"`
}

// Catalog names the providers a wiring file may refer to.
type Catalog map[string]Provider

// LoadWiring loads and parses a YAML wiring file from the given path.
func LoadWiring(path string) (*Wiring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wiring file %s: %w", path, err)
	}

	return ParseWiring(data)
}

// ParseWiring parses YAML data into a Wiring.
func ParseWiring(data []byte) (*Wiring, error) {
	var w Wiring

	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse wiring YAML: %w", err)
	}

	applyDefaults(&w)

	return &w, nil
}

func applyDefaults(w *Wiring) {
	if w.Version == "" {
		w.Version = "1"
	}

	for i := range w.Contexts {
		c := &w.Contexts[i]
		c.Name = strings.TrimSpace(c.Name)

		if c.Components == nil {
			c.Components = map[Name]string{}
		}
	}
}

// Marshal serializes a Wiring to YAML.
func Marshal(w *Wiring) ([]byte, error) {
	return yaml.Marshal(w)
}

// Validate checks w against catalog without building anything.
func Validate(w *Wiring, catalog Catalog) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	if w.Version != "1" {
		diags.AddError(ErrInvalidWiring, "unsupported_version", "wiring", w.Version,
			"only version 1 is supported")
	}

	if len(w.Contexts) == 0 {
		diags.AddWarning("no_contexts", "wiring", "", "wiring declares no contexts")
	}

	names := slices.Sorted(maps.Keys(catalog))
	seen := map[string]bool{}

	for i, c := range w.Contexts {
		subject := c.Name
		if subject == "" {
			subject = fmt.Sprintf("contexts[%d]", i)
			diags.AddError(ErrInvalidWiring, "empty_name", subject, "", "context has no name")
		}

		if seen[c.Name] && c.Name != "" {
			diags.AddError(ErrInvalidWiring, "duplicate_context", subject, "",
				"context is declared more than once")
		}

		seen[c.Name] = true

		for _, comp := range slices.Sorted(maps.Keys(c.Components)) {
			ref := c.Components[comp]

			switch {
			case comp == "":
				diags.AddError(ErrInvalidWiring, "empty_component", subject, ref, "component has no name")
			case strings.HasPrefix(ref, FieldPrefix):
				if strings.TrimPrefix(ref, FieldPrefix) == "" {
					diags.AddError(ErrInvalidWiring, "empty_field", subject, string(comp),
						"field getter names no field")
				}
			default:
				if _, ok := catalog[ref]; ok {
					continue
				}

				msg := fmt.Sprintf("provider %q is not in the catalog", ref)
				if hint, ok := match.Suggest(ref, names); ok {
					msg += fmt.Sprintf(" (did you mean %q?)", hint)
				}

				diags.AddError(ErrNoProvider, "unknown_provider", subject, string(comp), msg)
			}
		}
	}

	return diags
}

// Build validates w and returns one frozen table per context, by name.
func Build(w *Wiring, catalog Catalog) (map[string]*Table, error) {
	diags := Validate(w, catalog)
	if err := diags.Err(); err != nil {
		return nil, err
	}

	tables := make(map[string]*Table, len(w.Contexts))

	for _, c := range w.Contexts {
		t := NewTable(c.Name)

		for _, comp := range slices.Sorted(maps.Keys(c.Components)) {
			ref := c.Components[comp]

			p, ok := catalog[ref]
			if key, isField := strings.CutPrefix(ref, FieldPrefix); isField {
				p, ok = UseField[any](key), true
			}

			if !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrNoProvider, c.Name, comp)
			}

			if err := t.Delegate(comp, p); err != nil {
				return nil, err
			}
		}

		tables[c.Name] = t.Freeze()
	}

	return tables, nil
}
