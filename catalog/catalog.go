// Package catalog holds the built-in HLSL symbols offered by completion:
// data types, intrinsic functions, semantics, numbered semantics and keywords.
//
// The tables are decoded once from an embedded YAML resource and are
// read-only afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"iter"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Category classifies a catalog entry.
type Category int

const (
	// Datatype is a scalar, vector, matrix, texture or buffer type.
	Datatype Category = iota
	// Function is an intrinsic function.
	Function
	// Semantic is a system-value or legacy semantic.
	Semantic
	// NumberedSemantic is a semantic that takes an index suffix (TEXCOORD0...).
	NumberedSemantic
	// Keyword is a reserved word.
	Keyword
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Datatype:
		return "datatype"
	case Function:
		return "function"
	case Semantic:
		return "semantic"
	case NumberedSemantic:
		return "numbered-semantic"
	case Keyword:
		return "keyword"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label returns the text shown in detail strings.
// Both semantic categories are displayed as "semantic".
func (c Category) Label() string {
	if c == NumberedSemantic {
		return Semantic.String()
	}

	return c.String()
}

// Parameter is one entry of a signature.
type Parameter struct {
	Label string
}

// Entry is one built-in symbol.
type Entry struct {
	Name        string
	Description string
	Category    Category

	// Parameters is nil when the symbol has no displayable signature.
	// A non-nil empty slice means the symbol takes no arguments.
	Parameters []Parameter
}

// HasSignature reports whether the entry has a parameter list to display.
func (e Entry) HasSignature() bool {
	return e.Parameters != nil
}

// Table is a read-only mapping from name to entry for one category.
type Table struct {
	category Category
	entries  []Entry // sorted by name
	index    map[string]int
}

// Category returns the category of every entry in the table.
func (t *Table) Category() Category {
	return t.category
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the entry with exactly the given name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.index[name]
	if !ok {
		return Entry{}, false
	}

	return t.entries[i], true
}

// All yields every entry in name order.
func (t *Table) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

//go:embed builtins.yaml
var builtinsYAML []byte

type rawEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Parameters  []string `yaml:"parameters"`
}

type rawCatalog struct {
	Datatypes    []rawEntry `yaml:"datatypes"`
	Functions    []rawEntry `yaml:"functions"`
	Semantics    []rawEntry `yaml:"semantics"`
	SemanticsNum []rawEntry `yaml:"semanticsNum"`
	Keywords     []rawEntry `yaml:"keywords"`
}

type builtins struct {
	tables [5]*Table
}

var load = sync.OnceValue(func() *builtins {
	b, err := decode(builtinsYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: decoding builtins.yaml: %v", err))
	}

	return b
})

func decode(data []byte) (*builtins, error) {
	var raw rawCatalog

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, err
	}

	b := &builtins{}
	sources := [...][]rawEntry{raw.Datatypes, raw.Functions, raw.Semantics, raw.SemanticsNum, raw.Keywords}

	for i, entries := range sources {
		t, err := newTable(Category(i), entries)
		if err != nil {
			return nil, err
		}

		b.tables[i] = t
	}

	return b, nil
}

func newTable(category Category, raw []rawEntry) (*Table, error) {
	t := &Table{
		category: category,
		entries:  make([]Entry, 0, len(raw)),
		index:    make(map[string]int, len(raw)),
	}

	for _, r := range raw {
		if r.Name == "" {
			return nil, fmt.Errorf("%s entry without a name", category)
		}

		if _, dup := t.index[r.Name]; dup {
			return nil, fmt.Errorf("duplicate %s entry %q", category, r.Name)
		}

		e := Entry{
			Name:        r.Name,
			Description: r.Description,
			Category:    category,
		}

		if r.Parameters != nil {
			e.Parameters = make([]Parameter, len(r.Parameters))
			for i, label := range r.Parameters {
				e.Parameters[i] = Parameter{Label: label}
			}
		}

		t.index[r.Name] = 0
		t.entries = append(t.entries, e)
	}

	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].Name < t.entries[j].Name })

	for i, e := range t.entries {
		t.index[e.Name] = i
	}

	return t, nil
}

// Datatypes returns the data type table.
func Datatypes() *Table { return load().tables[Datatype] }

// Functions returns the intrinsic function table.
func Functions() *Table { return load().tables[Function] }

// Semantics returns the semantic table.
func Semantics() *Table { return load().tables[Semantic] }

// NumberedSemantics returns the numbered semantic table.
func NumberedSemantics() *Table { return load().tables[NumberedSemantic] }

// Keywords returns the keyword table.
func Keywords() *Table { return load().tables[Keyword] }

// Tables returns the five tables in category order.
func Tables() []*Table {
	tables := load().tables

	return tables[:]
}

// Lookup returns the first entry named name, searching tables in category order.
func Lookup(name string) (Entry, bool) {
	for _, t := range Tables() {
		if e, ok := t.Lookup(name); ok {
			return e, true
		}
	}

	return Entry{}, false
}
