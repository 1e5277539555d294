package reconcile

// interpolate fills one- and two-year holes inside a career. Nobody retires
// from a judicial profession for a year or two and then returns, so a short
// absence is a book-keeping error or a leave, and the missing years are
// filled in with the workplace of the last year before the gap. Longer
// absences are left alone.
func (r *Reconciler) interpolate(persons []Person) []Person {
	r.audit.Note("INTERPOLATE_PERSON_YEARS")

	added := 0
	out := make([]Person, 0, len(persons))
	for _, p := range persons {
		sortByYear(p)

		filled := make(Person, 0, len(p))
		gap := false
		for i, row := range p {
			filled = append(filled, row)
			if i == len(p)-1 {
				continue
			}
			diff := p[i+1].Year - row.Year
			if diff != 2 && diff != 3 {
				continue
			}
			gap = true
			for d := 1; d < diff; d++ {
				missing := row
				missing.Year = row.Year + d
				missing.Extra = append([]string(nil), row.Extra...)
				filled = append(filled, missing)
			}
		}

		if gap {
			r.audit.SideBySide(p, filled)
			added += len(filled) - len(p)
		}
		out = append(out, filled)
	}

	r.audit.Note("NUMBER OF PERSON-YEARS ADDED BY INTERPOLATE_PERSON_YEARS", added)
	return out
}
