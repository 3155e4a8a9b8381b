package completion

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/catalog"
)

// Candidate is one completion suggestion.
type Candidate struct {
	Name          string
	Kind          catalog.Category
	Detail        string
	Documentation string

	// Parameters are the signature labels, nil when the symbol has none.
	Parameters []string

	// Path is the file a workspace function was found in. Empty for
	// catalog entries.
	Path string

	// Pos is the declaration position of a workspace function.
	Pos lexer.Position
}

// FromWorkspace reports whether the candidate was extracted from a workspace file.
func (c Candidate) FromWorkspace() bool {
	return c.Path != ""
}

// voidDetail is shown for entries without a signature.
const voidDetail = "(void)"

func catalogCandidate(e catalog.Entry) Candidate {
	c := Candidate{
		Name:          e.Name,
		Kind:          e.Category,
		Documentation: e.Description,
		Detail:        voidDetail,
	}

	if e.HasSignature() {
		c.Parameters = make([]string, len(e.Parameters))
		for i, p := range e.Parameters {
			c.Parameters[i] = p.Label
		}

		c.Detail = "(" + e.Category.Label() + ") " + e.Name + "(" + strings.Join(c.Parameters, ",") + ")"
	}

	return c
}

func functionCandidate(fn hlsl.Function) Candidate {
	return Candidate{
		Name:       fn.Name,
		Kind:       catalog.Function,
		Detail:     fn.Signature(),
		Parameters: fn.Parameters,
		Path:       fn.Pos.Filename,
		Pos:        fn.Pos,
	}
}

// nameSet records the names already emitted for one request.
type nameSet map[string]struct{}

// add inserts name and reports whether it was new.
func (s nameSet) add(name string) bool {
	if _, ok := s[name]; ok {
		return false
	}

	s[name] = struct{}{}

	return true
}

// appendCatalog appends matching catalog entries in table order.
func appendCatalog(dst []Candidate, prefix string, seen nameSet) []Candidate {
	for _, table := range catalog.Tables() {
		for e := range table.All() {
			if !Matches(prefix, e.Name) || !seen.add(e.Name) {
				continue
			}

			dst = append(dst, catalogCandidate(e))
		}
	}

	return dst
}

// appendFunctions appends matching workspace functions not already in seen.
func appendFunctions(dst []Candidate, files []fileFunctions, prefix string, seen nameSet) []Candidate {
	for _, f := range files {
		for _, fn := range f.functions {
			if !Matches(prefix, fn.Name) || !seen.add(fn.Name) {
				continue
			}

			dst = append(dst, functionCandidate(fn))
		}
	}

	return dst
}
