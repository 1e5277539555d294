package standardize

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/parcurs-ro/parcurs/pkg/table"
)

// mergeLongFullNames collapses full names that differ by a single character,
// usually an inconsistent diacritic or a typo. Single-character differences
// between short names are often real (MOŞ vs POP), so only names with three or
// more components or twenty or more characters are compared, and the
// lexically smaller name of each pair must have a surname longer than three
// characters. Of two variants, the one appearing on more rows wins.
func (s *Standardizer) mergeLongFullNames(t table.Table, stamp string) table.Table {
	const funcName = "standardise_long_full_names"

	freqs := map[table.FullName]int{}
	for _, r := range t {
		fn := r.FullName()
		if len(fn.Tokens()) >= 3 || len(fn.Surname)+len(fn.GivenName) >= 20 {
			freqs[fn]++
		}
	}

	names := make([]table.FullName, 0, len(freqs))
	for fn := range freqs {
		names = append(names, fn)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })

	trans := map[table.FullName]table.FullName{}
	for i, a := range names {
		if len(a.Surname) <= 3 {
			continue
		}
		for _, b := range names[i+1:] {
			if fuzzy.LevenshteinDistance(a.String(), b.String()) != 1 {
				continue
			}
			if freqs[a] >= freqs[b] {
				trans[b] = a
			} else {
				trans[a] = b
			}
		}
	}

	out := make(table.Table, 0, len(t))
	for _, r := range t {
		if to, ok := trans[r.FullName()]; ok {
			r.Surname = to.Surname
			r.GivenName = to.GivenName
		}
		out = append(out, r)
	}
	for from, to := range trans {
		s.log.Record(stamp, funcName, from.String(), to.String())
	}
	return table.Dedup(out)
}
