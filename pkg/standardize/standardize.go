// Package standardize implements the name-standardization cascade: a fixed
// sequence of text-normalization passes over a person-period table, driven to
// a fixed point so that written variants of the same real name converge to
// one canonical string.
package standardize

import (
	"fmt"
	"strings"
	"time"

	"github.com/parcurs-ro/parcurs/pkg/gender"
	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/sirupsen/logrus"
)

// maxIterations bounds the fixed-point loop. The distinct-full-name count
// never increases across a pass sequence, so hitting this bound means a pass
// introduced a cycle, which is an implementation bug rather than a data
// condition.
const maxIterations = 100

// Options tunes the cascade.
type Options struct {
	// WindowYears bounds the look-around when lengthening names. Zero means
	// the full observed year span of the table, the original calibration.
	WindowYears int
	// ByMonth marks a person-month table; the lengthening window then covers
	// twelve rows per year and sorting includes the month column.
	ByMonth bool
}

// Standardizer runs the cascade for one profession.
type Standardizer struct {
	profession schema.Profession
	genderDict gender.Dict
	exceptions map[string]struct{}
	adhoc      map[table.FullName]table.FullName
	log        *Changelog
	logger     logrus.FieldLogger
	opts       Options

	now func() time.Time
}

// New assembles a Standardizer. exceptions and adhoc come from the curated
// resource files; pass empty values for professions that have none.
func New(
	p schema.Profession,
	dict gender.Dict,
	exceptions map[string]struct{},
	adhoc map[table.FullName]table.FullName,
	changelog *Changelog,
	logger logrus.FieldLogger,
	opts Options,
) *Standardizer {
	if exceptions == nil {
		exceptions = map[string]struct{}{}
	}
	if adhoc == nil {
		adhoc = map[table.FullName]table.FullName{}
	}
	return &Standardizer{
		profession: p,
		genderDict: dict,
		exceptions: exceptions,
		adhoc:      adhoc,
		log:        changelog,
		logger:     logger.WithField("profession", p),
		now:        time.Now,
		opts:       opts,
	}
}

// Clean applies the cascade until the count of distinct full names stops
// changing, then returns the table sorted by name and time unit. The loop is
// the original's recursion flattened into an explicit iteration counter.
func (s *Standardizer) Clean(t table.Table) (table.Table, error) {
	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			return nil, fmt.Errorf("standardization failed to reach a fixed point after %d iterations", maxIterations)
		}
		stamp := s.now().Format("pm-03-04-05")
		before := table.DistinctFullNames(t)
		s.log.Note("RAN AT TIME " + stamp)
		s.log.Note("TABLE LENGTH AT BEGINNING", len(t))
		s.log.Note("NUMBER OF UNIQUE FULL NAMES AT BEGINNING", before)
		s.logger.WithFields(logrus.Fields{
			"iteration":  iter,
			"rows":       len(t),
			"full_names": before,
		}).Info("standardization pass starting")

		// moveSurname assumes the collector's original name order, which
		// nameOrder destroys, so it always runs first. Everything after
		// nameOrder works on order-canonicalized names.
		t = s.moveSurname(t, stamp)
		t = s.nameOrder(t)
		t = s.lengthenNames(t, stamp, true)
		t = s.lengthenNames(t, stamp, false)
		t = s.mergeLongFullNames(t, stamp)
		t = s.mergeSharedComponents(t, stamp)
		t = s.applyAdhoc(t)

		after := table.DistinctFullNames(t)
		s.log.Note("TABLE LENGTH AT END", len(t))
		s.log.Note("NUMBER OF UNIQUE FULL NAMES AT END", after)
		s.log.Note("NUMBER OF FULL NAMES STANDARDISED", before-after)
		s.logger.WithFields(logrus.Fields{
			"iteration":    iter,
			"rows":         len(t),
			"full_names":   after,
			"standardised": before - after,
		}).Info("standardization pass finished")

		if after == before {
			break
		}
	}
	table.SortByNameTime(t, s.opts.ByMonth)
	return t, nil
}

// windowRows resolves the lengthening look-around bound in rows.
func (s *Standardizer) windowRows(t table.Table) int {
	w := s.opts.WindowYears
	if w <= 0 {
		w = table.YearSpan(t)
	}
	if s.opts.ByMonth {
		w *= 12
	}
	return w
}

func nameField(r table.Row, surname bool) string {
	if surname {
		return r.Surname
	}
	return r.GivenName
}

func setNameField(r *table.Row, surname bool, v string) {
	if surname {
		r.Surname = v
	} else {
		r.GivenName = v
	}
}

func tokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func sharedCount(a, b map[string]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
