package standardize

import (
	"sort"
	"strings"

	"github.com/parcurs-ro/parcurs/pkg/table"
)

// nameOrder sorts the tokens within each surname and within each given name
// alphabetically, so that DERP HERP and HERP DERP collapse to one spelling.
// Name order adds more noise than signal; the tokens themselves identify the
// person.
//
// Byte-order sorting puts diacritic letters after Z, which is unnatural but
// harmless as long as it is applied consistently.
func (s *Standardizer) nameOrder(t table.Table) table.Table {
	return OrderNames(t)
}

// OrderNames is the standalone form of the pass; the notary path uses it
// without running the rest of the cascade.
func OrderNames(t table.Table) table.Table {
	out := make(table.Table, 0, len(t))
	for _, r := range t {
		r.Surname = sortTokens(r.Surname)
		r.GivenName = sortTokens(r.GivenName)
		out = append(out, r)
	}
	return table.Dedup(out)
}

func sortTokens(name string) string {
	tokens := strings.Fields(name)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
