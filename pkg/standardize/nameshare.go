package standardize

import (
	"github.com/parcurs-ro/parcurs/pkg/table"
)

// mergeSharedComponents equates full names that share three or more distinct
// components, e.g. "HERP | ION IOSIF" and "DERP HERP | ION IOSIF". Such
// overlap is taken to mean one person regardless of any other information,
// and the shorter name becomes the longer one.
//
// Components are compared as sets, so a token repeated across surname and
// given name counts once. That shrinks some names below the three-component
// floor and so leans toward false negatives, which later passes can still
// catch.
func (s *Standardizer) mergeSharedComponents(t table.Table, stamp string) table.Table {
	const funcName = "many_name_share"

	type bag struct {
		name       table.FullName
		components map[string]struct{}
	}
	var bags []bag
	seen := map[table.FullName]struct{}{}
	for _, r := range t {
		fn := r.FullName()
		if _, ok := seen[fn]; ok {
			continue
		}
		components := tokenSet(fn.Surname)
		for tok := range tokenSet(fn.GivenName) {
			components[tok] = struct{}{}
		}
		if len(components) < 3 {
			continue
		}
		seen[fn] = struct{}{}
		bags = append(bags, bag{name: fn, components: components})
	}

	trans := map[table.FullName]table.FullName{}
	for i, x := range bags {
		for _, y := range bags[:i] {
			if sharedCount(x.components, y.components) < 3 ||
				len(x.components) == len(y.components) {
				continue
			}
			if len(x.components) > len(y.components) {
				trans[y.name] = x.name
			} else {
				trans[x.name] = y.name
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
