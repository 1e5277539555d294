// Package reconcile turns a name-standardized person-year table into a table
// of distinct persons with unique IDs. It resolves years in which one name
// sits in several workplaces at once, fills short spurious gaps in careers,
// and then enumerates the resulting person sequences.
//
// The overlap rules only make sense on person-year tables with complete
// coverage; do not run them on person-month tables or on years with known
// collection holes.
package reconcile

import (
	"sort"

	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/sirupsen/logrus"
)

// Person is one person's career: a year-ordered run of rows sharing a full
// name that the reconciler has decided belong to a single individual.
type Person = table.Table

// Reconciler runs the overlap, gap and ID stages for one profession.
type Reconciler struct {
	profession schema.Profession
	logger     logrus.FieldLogger
	audit      *Audit
}

// New assembles a Reconciler writing its audit trail into audit.
func New(p schema.Profession, audit *Audit, logger logrus.FieldLogger) *Reconciler {
	return &Reconciler{
		profession: p,
		logger:     logger.WithField("profession", p),
		audit:      audit,
	}
}

// Run takes a person-year table, removes workplace overlaps, interpolates
// short gaps, assigns person IDs and returns the finished table sorted by
// surname, given name and person ID.
func (r *Reconciler) Run(t table.Table) table.Table {
	r.audit.Note("NUMBER OF PERSON-YEARS GOING INTO CORRECT_OVERLAPS", len(t))

	persons := r.correctOverlaps(t)
	persons = r.interpolate(persons)
	out := r.assignIDs(persons)

	r.audit.Note("NUMBER OF PERSON-YEARS AFTER ASSIGNING UNIQUE IDS", len(out))
	return out
}

// groupByFullName splits a name/time-sorted table into runs of rows sharing
// a full name.
func groupByFullName(t table.Table) []Person {
	var persons []Person
	var cur Person
	for _, row := range t {
		if len(cur) > 0 && row.FullName() != cur[0].FullName() {
			persons = append(persons, cur)
			cur = nil
		}
		cur = append(cur, row)
	}
	if len(cur) > 0 {
		persons = append(persons, cur)
	}
	return persons
}

func sortByYear(p Person) {
	sort.SliceStable(p, func(i, j int) bool { return p[i].Year < p[j].Year })
}

// assignIDs enumerates the distinct persons and stamps each row with its
// person's index, then flattens back into one table. Sorting by name and then
// person ID keeps the careers of two same-named people contiguous rather than
// interleaved by year.
func (r *Reconciler) assignIDs(persons []Person) table.Table {
	var out table.Table
	for id, p := range persons {
		for _, row := range p {
			row.PersonID = id
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Surname != b.Surname {
			return a.Surname < b.Surname
		}
		if a.GivenName != b.GivenName {
			return a.GivenName < b.GivenName
		}
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		return a.Year < b.Year
	})
	return out
}
