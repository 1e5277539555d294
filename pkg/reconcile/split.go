package reconcile

import (
	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
)

// splitKeys returns a row's organizational grouping keys, most aggregated
// level first. Judges and prosecutors carry appellate, tribunal and local
// hierarchy codes; executori and notaries carry a chamber and a locality.
func (r *Reconciler) splitKeys(row table.Row) []string {
	if schema.HasHierarchyCodes(r.profession) {
		return []string{row.AppellateCode, row.TribunalCode, row.LocalCode}
	}
	keys := make([]string, 0, 2)
	for i, col := range schema.ExtraColumns(r.profession) {
		if col != "camera" && col != "localitatea" {
			continue
		}
		if i < len(row.Extra) {
			keys = append(keys, row.Extra[i])
		} else {
			keys = append(keys, "")
		}
	}
	return keys
}

// splitSequence divides a long-overlap sequence into the two careers hiding
// behind one name. Distinct careers are assumed to develop in distinct
// organizational areas, tried from the most aggregated level down: two
// careers in different appellate areas, failing that different tribunal
// areas, failing that different local units. The split succeeds only when
// some level yields exactly two groups; anything else returns nil and the
// caller sets the sequence aside.
//
// Sequences hiding three or more careers are beyond this heuristic and come
// back nil as well.
func (r *Reconciler) splitSequence(ps Person) []Person {
	if len(ps) == 0 {
		return nil
	}
	levels := len(r.splitKeys(ps[0]))

	for level := 0; level < levels; level++ {
		groups := map[string]Person{}
		var order []string
		for _, row := range ps {
			k := r.splitKeys(row)[level]
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], row)
		}
		if len(groups) != 2 {
			continue
		}
		out := make([]Person, 0, 2)
		for _, k := range order {
			g := groups[k]
			sortByYear(g)
			out = append(out, g)
		}
		return out
	}
	return nil
}
