// Package table holds the person-period row type and the handful of table
// operations (deduplication, sorting, name keys) every pipeline stage uses.
package table

import (
	"sort"
	"strings"
)

// Row is one person-period observation: a person's recorded employment for
// one time unit, plus the columns added as the pipeline progresses.
type Row struct {
	Surname   string
	GivenName string
	Workplace string
	Year      int
	// Month is 1-12 for person-month tables and zero for person-year tables.
	Month int
	// Extra carries the profession-specific trailing columns in the order
	// given by schema.ExtraColumns.
	Extra []string

	// Columns added by augmentation stages.
	RowID    int
	PersonID int
	Gender   string
	// Hierarchy codes for court/parquet professions: appellate jurisdiction,
	// tribunal area, local unit, and the level derived from them.
	AppellateCode string
	TribunalCode  string
	LocalCode     string
	Level         string
}

// FullName is the composite identity key used before person IDs exist. It is
// a struct rather than a delimiter-joined string so that names containing the
// join character cannot collide.
type FullName struct {
	Surname   string
	GivenName string
}

func (f FullName) String() string {
	return f.Surname + " | " + f.GivenName
}

// Tokens returns the name's components: surname tokens followed by
// given-name tokens.
func (f FullName) Tokens() []string {
	return append(strings.Fields(f.Surname), strings.Fields(f.GivenName)...)
}

// FullName returns the row's identity key.
func (r Row) FullName() FullName {
	return FullName{Surname: r.Surname, GivenName: r.GivenName}
}

// SurnameTokens splits the surname field into its components.
func (r Row) SurnameTokens() []string {
	return strings.Fields(r.Surname)
}

// GivenNameTokens splits the given-name field into its components.
func (r Row) GivenNameTokens() []string {
	return strings.Fields(r.GivenName)
}

// Table is an in-memory person-period table.
type Table []Row

// key is the comparable identity of a row's visible content; RowID and
// PersonID are excluded because they are assigned after deduplication.
type key struct {
	surname, givenName, workplace string
	year, month                   int
	extra                         string
	gender                        string
	appellate, tribunal, local    string
	level                         string
}

func rowKey(r Row) key {
	return key{
		surname:   r.Surname,
		givenName: r.GivenName,
		workplace: r.Workplace,
		year:      r.Year,
		month:     r.Month,
		extra:     strings.Join(r.Extra, "\x1f"),
		gender:    r.Gender,
		appellate: r.AppellateCode,
		tribunal:  r.TribunalCode,
		local:     r.LocalCode,
		level:     r.Level,
	}
}

// Dedup removes exact-duplicate rows, keeping the first occurrence of each.
func Dedup(t Table) Table {
	seen := make(map[key]struct{}, len(t))
	out := make(Table, 0, len(t))
	for _, r := range t {
		k := rowKey(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// SortByNameTime orders the table by surname, given name, year and, when
// byMonth is set, month. Every cascade pass relies on this order.
func SortByNameTime(t Table, byMonth bool) {
	sort.SliceStable(t, func(i, j int) bool {
		a, b := t[i], t[j]
		if a.Surname != b.Surname {
			return a.Surname < b.Surname
		}
		if a.GivenName != b.GivenName {
			return a.GivenName < b.GivenName
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if byMonth && a.Month != b.Month {
			return a.Month < b.Month
		}
		return false
	})
}

// DistinctFullNames counts the unique full names in the table; the cascade's
// fixed-point loop uses it as its termination measure.
func DistinctFullNames(t Table) int {
	seen := make(map[FullName]struct{}, len(t))
	for _, r := range t {
		seen[r.FullName()] = struct{}{}
	}
	return len(seen)
}

// YearSpan returns the number of calendar years the table covers, inclusive.
func YearSpan(t Table) int {
	if len(t) == 0 {
		return 0
	}
	lo, hi := t[0].Year, t[0].Year
	for _, r := range t[1:] {
		if r.Year < lo {
			lo = r.Year
		}
		if r.Year > hi {
			hi = r.Year
		}
	}
	return hi - lo + 1
}
