package reconcile

import (
	"sort"

	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/sirupsen/logrus"
)

// A name can sit in two or more workplaces in the same year. Either several
// people share the name, or the books are irregular: someone was added to the
// new workplace's rolls before leaving the old one, or was delegated
// elsewhere for part of the year. The shape of the overlap tells these apart:
//
//   - a year with three or more workplaces is resolved by dropping workplaces
//     that appear only once in the whole career; if that does not settle it,
//     the sequence is set aside for manual inspection and passed through
//     unchanged
//   - an overlap of three or more years means several people, and the
//     sequence is split along organizational lines
//   - an overlap of one or two years is a book-keeping artifact, and the
//     redundant rows are dropped according to where the overlap sits in the
//     career
//
// Which of two overlapping workplaces survives is chosen to minimize the
// mobility the table shows; the estimates downstream should be conservative.
func (r *Reconciler) correctOverlaps(t table.Table) []Person {
	r.audit.Note("CORRECT OVERLAPS")

	t = append(table.Table(nil), t...)
	table.SortByNameTime(t, false)
	sequences := groupByFullName(t)

	var out []Person
	for _, ps := range sequences {
		out = append(out, r.resolveSequence(ps, true)...)
	}

	r.audit.Note("NUMBER OF DISTINCT PERSONS GOING INTO CORRECT_OVERLAPS", len(sequences))
	r.audit.Note("NUMBER OF DISTINCT PERSONS COMING OUT OF CORRECT_OVERLAPS", len(out))
	r.audit.Note("NUMBER OF DISTINCT PERSONS ADDED BY CORRECT_OVERLAPS", len(out)-len(sequences))
	return out
}

type yearWorkplace struct {
	year      int
	workplace string
}

func workplacesByYear(p Person) map[int][]string {
	yw := map[int][]string{}
	for _, row := range p {
		yw[row.Year] = append(yw[row.Year], row.Workplace)
	}
	return yw
}

func maxPerYear(yw map[int][]string) int {
	most := 0
	for _, wps := range yw {
		if len(wps) > most {
			most = len(wps)
		}
	}
	return most
}

func (r *Reconciler) resolveSequence(ps Person, trySingletons bool) []Person {
	sortByYear(ps)
	yw := workplacesByYear(ps)

	// one row per year means no overlap
	if len(yw) == len(ps) {
		return []Person{ps}
	}

	if maxPerYear(yw) > 2 {
		if trySingletons {
			if reduced, ok := r.dropSingletonWorkplaces(ps, yw); ok {
				r.audit.SideBySide(ps, reduced)
				return r.resolveSequence(reduced, false)
			}
		}
		r.logger.WithFields(logrus.Fields{
			"full_name": ps[0].FullName().String(),
			"rows":      len(ps),
		}).Warn("year with three or more workplaces, sequence set aside")
		r.audit.OddSequence(ps)
		return []Person{ps}
	}

	// three or more overlap years: several people behind one name
	if len(ps)-len(yw) > 2 {
		split := r.splitSequence(ps)
		if split == nil {
			r.logger.WithField("full_name", ps[0].FullName().String()).
				Warn("long overlap could not be split, sequence set aside")
			r.audit.OddSequence(ps)
			return []Person{ps}
		}
		flat := make(Person, 0, len(ps))
		for _, g := range split {
			flat = append(flat, g...)
		}
		r.audit.SideBySideSplit(flat, split)
		return split
	}

	return []Person{r.trimShortOverlap(ps, yw)}
}

// trimShortOverlap removes the redundant rows of a one- or two-year overlap.
func (r *Reconciler) trimShortOverlap(ps Person, yw map[int][]string) Person {
	overlap := map[int][]string{}
	minYear, maxYear := ps[0].Year, ps[0].Year
	for y, wps := range yw {
		if len(wps) > 1 {
			overlap[y] = wps
		}
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	minOverlap, maxOverlap := yearBounds(overlap)

	toRemove := map[yearWorkplace]struct{}{}
	switch {
	// overlap strictly inside the career
	case minOverlap > minYear && maxOverlap < maxYear:
		tr := findTransition(yw, overlap)
		if tr.isTransition {
			// the overlap marks a move between workplaces; keep the
			// destination so the person arrives when the books first say so
			for y := range overlap {
				toRemove[yearWorkplace{y, tr.before}] = struct{}{}
			}
		} else {
			// a delegation blip in an otherwise continuous career
			for y, wps := range overlap {
				for _, wp := range wps {
					if wp != tr.before {
						toRemove[yearWorkplace{y, wp}] = struct{}{}
					}
				}
			}
		}

	// overlap spans the whole observed career; keep the workplace of the
	// first row, a fixed convention
	case minOverlap == minYear && maxOverlap == maxYear:
		first := ps[0].Workplace
		for y, wps := range overlap {
			for _, wp := range wps {
				if wp != first {
					toRemove[yearWorkplace{y, wp}] = struct{}{}
				}
			}
		}

	// overlap at the career start: keep the workplace transitioned into
	case minOverlap == minYear:
		destination := workplaceAfter(yw, maxOverlap)
		for y, wps := range overlap {
			for _, wp := range wps {
				if wp != destination {
					toRemove[yearWorkplace{y, wp}] = struct{}{}
				}
			}
		}

	// overlap at the career end: keep the workplace transitioned from
	case maxOverlap == maxYear:
		sending := workplaceBefore(yw, minOverlap)
		for y, wps := range overlap {
			for _, wp := range wps {
				if wp != sending {
					toRemove[yearWorkplace{y, wp}] = struct{}{}
				}
			}
		}
	}

	newPS := make(Person, 0, len(ps))
	for _, row := range ps {
		if _, drop := toRemove[yearWorkplace{row.Year, row.Workplace}]; drop {
			continue
		}
		newPS = append(newPS, row)
	}
	r.audit.SideBySide(ps, newPS)
	return newPS
}

// dropSingletonWorkplaces tries to defuse a year with three or more
// workplaces by removing, in the collision years, the rows of a workplace that
// occurs exactly once in the whole sequence. The drop is only safe when
// exactly one of the colliding workplaces is such a stray; two or more strays
// mean the sequence needs human eyes. Reports success only when the result
// has at most two workplaces per year.
func (r *Reconciler) dropSingletonWorkplaces(ps Person, yw map[int][]string) (Person, bool) {
	counts := map[string]int{}
	for _, row := range ps {
		counts[row.Workplace]++
	}
	collision := map[int]struct{}{}
	colliding := map[string]struct{}{}
	for y, wps := range yw {
		if len(wps) > 2 {
			collision[y] = struct{}{}
			for _, wp := range wps {
				colliding[wp] = struct{}{}
			}
		}
	}

	var stray string
	strays := 0
	for wp := range colliding {
		if counts[wp] == 1 {
			stray = wp
			strays++
		}
	}
	if strays != 1 {
		return nil, false
	}

	reduced := make(Person, 0, len(ps))
	for _, row := range ps {
		_, inCollision := collision[row.Year]
		if inCollision && row.Workplace == stray {
			continue
		}
		reduced = append(reduced, row)
	}
	if maxPerYear(workplacesByYear(reduced)) > 2 {
		return nil, false
	}
	return reduced, true
}

type transition struct {
	isTransition  bool
	before, after string
}

// findTransition reports whether an interior one- or two-year overlap sits
// between two different workplaces.
func findTransition(yw map[int][]string, overlap map[int][]string) transition {
	years := sortedYears(yw)
	minOverlap, maxOverlap := yearBounds(overlap)

	var yearBefore, yearAfter int
	for i, y := range years {
		if y == minOverlap {
			yearBefore = years[i-1]
		}
		if y == maxOverlap {
			yearAfter = years[i+1]
		}
	}

	before := yw[yearBefore][0]
	after := yw[yearAfter][0]
	if before != after {
		return transition{isTransition: true, before: before, after: after}
	}
	return transition{isTransition: false, before: before}
}

// workplaceAfter returns the sole workplace of the first observed year after
// the given one.
func workplaceAfter(yw map[int][]string, year int) string {
	years := sortedYears(yw)
	for i, y := range years {
		if y == year {
			return yw[years[i+1]][0]
		}
	}
	return ""
}

// workplaceBefore returns the sole workplace of the last observed year before
// the given one.
func workplaceBefore(yw map[int][]string, year int) string {
	years := sortedYears(yw)
	for i, y := range years {
		if y == year {
			return yw[years[i-1]][0]
		}
	}
	return ""
}

func yearBounds(yw map[int][]string) (int, int) {
	first := true
	var lo, hi int
	for y := range yw {
		if first {
			lo, hi = y, y
			first = false
			continue
		}
		if y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	return lo, hi
}

func sortedYears(yw map[int][]string) []int {
	years := make([]int, 0, len(yw))
	for y := range yw {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
