package standardize

import (
	"github.com/parcurs-ro/parcurs/pkg/table"
)

// applyAdhoc rewrites full names through the hand-curated correction map.
// Some variants are too subtle for the automated passes, an off-by-one vowel
// between two plausible names say, and only a human reading the careers can
// tell they are the same person. Those judgments live in the resource file
// this map was loaded from.
func (s *Standardizer) applyAdhoc(t table.Table) table.Table {
	out := make(table.Table, 0, len(t))
	for _, r := range t {
		if to, ok := s.adhoc[r.FullName()]; ok {
			r.Surname = to.Surname
			r.GivenName = to.GivenName
		}
		out = append(out, r)
	}
	return out
}
