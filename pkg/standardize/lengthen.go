package standardize

import (
	"strings"

	"github.com/parcurs-ro/parcurs/pkg/table"
)

// lengthenNames applies the longest observed variant of a name to every row
// of a consecutive same-person sequence. Careers show patterns like
//
//	DERP       BOB JOE   03/2012
//	DERP HERP  BOB JOE   05/2012
//	HERP       BOB JOE   07/2012
//
// where marriage or sloppy record keeping changes the written name mid-career.
// A sequence counts as one person when its rows are consecutive in time, share
// at least one token in the field being lengthened, and are identical in the
// other name field. All sequence rows then receive the longest variant, here
// DERP HERP.
//
// Two guards limit false merges: the replacement must have a different token
// count than the name it replaces (lengthen, never swap), and curated
// exception names are left alone.
func (s *Standardizer) lengthenNames(t table.Table, stamp string, surname bool) table.Table {
	table.SortByNameTime(t, s.opts.ByMonth)

	funcName := "lengthen_name-surname"
	if !surname {
		funcName = "lengthen_name-given_name"
	}
	window := s.windowRows(t)
	out := make(table.Table, 0, len(t))

	start := 0
	for start < len(t)-1 {
		// First row at or after start whose target field has multiple tokens;
		// single-token names are too common to lengthen safely.
		ref := len(t) - 1
		for i := start; i < len(t); i++ {
			if len(strings.Fields(nameField(t[i], surname))) > 1 {
				ref = i
				break
			}
		}

		lo, hi := sequenceBounds(t, ref, window, surname)
		// the backward scan can reach rows already emitted in an earlier window
		if lo < start {
			lo = start
		}

		longest := ""
		for _, r := range t[lo:hi] {
			if n := nameField(r, surname); len(n) > len(longest) {
				longest = n
			}
		}

		out = append(out, t[start:lo]...)

		changed := map[table.FullName]struct{}{}
		for _, r := range t[lo:hi] {
			_, exempt := s.exceptions[longest]
			if !exempt && len(strings.Fields(longest)) != len(strings.Fields(nameField(r, surname))) {
				before := r.FullName()
				setNameField(&r, surname, longest)
				changed[before] = struct{}{}
			}
			out = append(out, r)
		}
		for before := range changed {
			after := before
			setNameFieldOf(&after, surname, longest)
			s.log.Record(stamp, funcName, before.String(), after.String())
		}

		start = hi
	}
	out = append(out, t[start:]...)

	return table.Dedup(out)
}

// sequenceBounds finds the half-open index range of the same-person sequence
// around t[ref]. Looking in each direction, the sequence ends at the first row
// that shares no token with the reference in the lengthened field or differs
// at all in the other name field. The search is capped at window rows each
// way; one row per time unit means looking further than the data's time span
// cannot pay off.
func sequenceBounds(t table.Table, ref, window int, surname bool) (int, int) {
	refSet := tokenSet(nameField(t[ref], surname))
	refOther := nameField(t[ref], !surname)

	breaks := func(r table.Row) bool {
		return !intersects(refSet, tokenSet(nameField(r, surname))) ||
			nameField(r, !surname) != refOther
	}

	fMax := min(ref+window, len(t)-1)
	ffd := fMax
	for i := ref; i <= fMax; i++ {
		if breaks(t[i]) {
			ffd = i
			break
		}
	}

	bMax := max(ref-window, 0)
	bfd := bMax
	for i := ref - 1; i >= bMax; i-- {
		if breaks(t[i]) {
			bfd = i
			break
		}
	}

	// Table edges belong to the sequence even when no breaking row was found.
	if bfd != 0 {
		bfd++
	}
	if ffd == len(t)-1 {
		ffd++
	}
	return bfd, ffd
}

func setNameFieldOf(f *table.FullName, surname bool, v string) {
	if surname {
		f.Surname = v
	} else {
		f.GivenName = v
	}
}
