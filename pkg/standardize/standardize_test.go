package standardize

import (
	"io"
	"testing"
	"time"

	"github.com/parcurs-ro/parcurs/pkg/gender"
	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDict = gender.Dict{
	"MOANGĂ":   gender.Surname,
	"SIMONA":   gender.Female,
	"VICTOR":   gender.Male,
	"JITĂRAŞU": gender.Surname,
	"ANA":      gender.Female,
	"MARIA":    gender.Female,
	"DUMBRAVĂ": gender.Surname,
	"CLAUDIA":  gender.Female,
	"IULIANA":  gender.Female,
	"VÂJLOI":   gender.Surname,
	"ANDREEA":  gender.Female,
	"ILEANA":   gender.Female,
	"BOB":      gender.Male,
	"JOE":      gender.Male,
	"ION":      gender.Male,
	"IOSIF":    gender.Male,
}

func newTestStandardizer(dict gender.Dict, exceptions map[string]struct{}, adhoc map[table.FullName]table.FullName, opts Options) *Standardizer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(schema.Judges, dict, exceptions, adhoc, NewChangelog(), logger, opts)
	s.now = func() time.Time {
		return time.Date(2020, 1, 2, 15, 4, 5, 0, time.UTC)
	}
	return s
}

func row(surname, givenName, workplace string, year int) table.Row {
	return table.Row{Surname: surname, GivenName: givenName, Workplace: workplace, Year: year}
}

func fullNames(t table.Table) []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.FullName().String()
	}
	return out
}

func TestMoveSurnameLeadingSurname(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.moveSurname(table.Table{
		row("ŞESTACOVSCHI", "MOANGĂ SIMONA", "Judecătoria Arad", 2005),
	}, "stamp")

	require.Len(t, got, 1)
	assert.Equal(t, "ŞESTACOVSCHI MOANGĂ", got[0].Surname)
	assert.Equal(t, "SIMONA", got[0].GivenName)
}

func TestMoveSurnameTrailingSurname(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.moveSurname(table.Table{
		row("CORNOIU", "VICTOR JITĂRAŞU", "Judecătoria Arad", 2005),
	}, "stamp")

	require.Len(t, got, 1)
	assert.Equal(t, "CORNOIU JITĂRAŞU", got[0].Surname)
	assert.Equal(t, "VICTOR", got[0].GivenName)
}

func TestMoveSurnameMaidenName(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.moveSurname(table.Table{
		row("MUNTEANU RETEVOESCU", "ANA MARIA (DUMBRAVĂ)", "Judecătoria Arad", 2005),
	}, "stamp")

	require.Len(t, got, 1)
	assert.Equal(t, "MUNTEANU RETEVOESCU DUMBRAVĂ", got[0].Surname)
	assert.Equal(t, "ANA MARIA", got[0].GivenName)
}

func TestMoveSurnameSplitsEmbeddedPerson(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.moveSurname(table.Table{
		row("VĂCARU", "CLAUDIA IULIANA VÂJLOI ANDREEA ILEANA", "Judecătoria Arad", 2005),
	}, "stamp")

	require.Len(t, got, 2)
	assert.Equal(t, "VĂCARU | CLAUDIA IULIANA", got[0].FullName().String())
	assert.Equal(t, "VÂJLOI | ANDREEA ILEANA", got[1].FullName().String())
	assert.Equal(t, got[0].Workplace, got[1].Workplace)
	assert.Equal(t, got[0].Year, got[1].Year)
}

func TestMoveSurnameStripsParentheses(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.moveSurname(table.Table{
		row("POPA (IONESCU)", "MARIA", "Judecătoria Arad", 2005),
	}, "stamp")

	require.Len(t, got, 1)
	assert.Equal(t, "POPA IONESCU", got[0].Surname)
}

func TestNameOrderIgnoresTokenOrder(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.nameOrder(table.Table{
		row("DERP HERP", "BOB JOE", "Judecătoria Arad", 2005),
		row("DERP HERP", "JOE BOB", "Judecătoria Arad", 2005),
		row("HERP DERP", "BOB JOE", "Judecătoria Arad", 2005),
		row("HERP DERP", "JOE BOB", "Judecătoria Arad", 2005),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "DERP HERP | BOB JOE", got[0].FullName().String())
}

func TestLengthenSurnameAcrossTransition(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.lengthenNames(table.Table{
		row("DERP", "BOB JOE", "Judecătoria Arad", 2012),
		row("DERP HERP", "BOB JOE", "Judecătoria Arad", 2013),
		row("HERP", "BOB JOE", "Judecătoria Arad", 2014),
	}, "stamp", true)

	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, "DERP HERP", r.Surname)
	}
}

func TestLengthenGivenName(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.lengthenNames(table.Table{
		row("DERP", "BOB", "Judecătoria Arad", 2012),
		row("DERP", "BOB JOE", "Judecătoria Arad", 2013),
	}, "stamp", false)

	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "BOB JOE", r.GivenName)
	}
}

func TestLengthenRefusesEqualTokenCounts(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	// LAURA VALI and LAURA MARINA overlap on one token but have the same
	// component count; swapping one for the other would merge two people.
	got := s.lengthenNames(table.Table{
		row("ANDREI", "LAURA VALI", "Judecătoria Arad", 2012),
		row("ANDREI", "LAURA MARINA", "Judecătoria Arad", 2013),
	}, "stamp", false)

	names := fullNames(got)
	assert.Contains(t, names, "ANDREI | LAURA VALI")
	assert.Contains(t, names, "ANDREI | LAURA MARINA")
}

func TestLengthenHonorsExceptions(t *testing.T) {
	exceptions := map[string]struct{}{"BOB JOE": {}}
	s := newTestStandardizer(testDict, exceptions, nil, Options{})

	got := s.lengthenNames(table.Table{
		row("DERP", "BOB", "Judecătoria Arad", 2012),
		row("DERP", "BOB JOE", "Judecătoria Arad", 2013),
	}, "stamp", false)

	names := fullNames(got)
	assert.Contains(t, names, "DERP | BOB")
	assert.Contains(t, names, "DERP | BOB JOE")
}

func TestLengthenOverlappingSurnameChains(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	// each surname chains a token into the next, so the backward scan of a
	// later window runs into rows an earlier window already settled
	got := s.lengthenNames(table.Table{
		row("AAA BBB", "X", "Judecătoria Arad", 2000),
		row("BBB CCC", "X", "Judecătoria Arad", 2001),
		row("CCC DDD", "X", "Judecătoria Arad", 2002),
		row("EEE FFF", "X", "Judecătoria Arad", 2003),
	}, "stamp", true)

	require.Len(t, got, 4)
	names := fullNames(got)
	assert.Contains(t, names, "AAA BBB | X")
	assert.Contains(t, names, "EEE FFF | X")
}

func TestLengthenStopsAtDifferentOtherField(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.lengthenNames(table.Table{
		row("ALBU", "VICTOR", "Judecătoria Arad", 2012),
		row("DERP", "BOB JOE", "Judecătoria Arad", 2012),
		row("DERP HERP", "ION IOSIF", "Judecătoria Arad", 2013),
	}, "stamp", true)

	names := fullNames(got)
	assert.Contains(t, names, "DERP | BOB JOE")
	assert.Contains(t, names, "DERP HERP | ION IOSIF")
}

func TestMergeLongFullNamesPrefersFrequentVariant(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.mergeLongFullNames(table.Table{
		row("POPESCU", "ANA MARIA", "Judecătoria Arad", 2012),
		row("POPESCU", "ANA MARIA", "Judecătoria Arad", 2013),
		row("POPESCU", "ANA MARIE", "Judecătoria Arad", 2014),
	}, "stamp")

	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, "POPESCU | ANA MARIA", r.FullName().String())
	}
}

func TestMergeLongFullNamesRequiresLongSurname(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.mergeLongFullNames(table.Table{
		row("ABC", "ALEXANDRINA CONSTANTINA", "Judecătoria Arad", 2012),
		row("ABD", "ALEXANDRINA CONSTANTINA", "Judecătoria Arad", 2013),
	}, "stamp")

	names := fullNames(got)
	assert.Contains(t, names, "ABC | ALEXANDRINA CONSTANTINA")
	assert.Contains(t, names, "ABD | ALEXANDRINA CONSTANTINA")
}

func TestMergeLongFullNamesIgnoresShortNames(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.mergeLongFullNames(table.Table{
		row("MOŞ", "ION", "Judecătoria Arad", 2012),
		row("POP", "ION", "Judecătoria Arad", 2013),
	}, "stamp")

	names := fullNames(got)
	assert.Contains(t, names, "MOŞ | ION")
	assert.Contains(t, names, "POP | ION")
}

func TestMergeSharedComponents(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.mergeSharedComponents(table.Table{
		row("HERP", "ION IOSIF", "Judecătoria Arad", 2012),
		row("DERP HERP", "ION IOSIF", "Judecătoria Arad", 2013),
	}, "stamp")

	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "DERP HERP | ION IOSIF", r.FullName().String())
	}
}

func TestMergeSharedComponentsNeedsThreeShared(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got := s.mergeSharedComponents(table.Table{
		row("HERP", "ION IOSIF", "Judecătoria Arad", 2012),
		row("DERP HERP", "ION VASILE", "Judecătoria Arad", 2013),
	}, "stamp")

	names := fullNames(got)
	assert.Contains(t, names, "HERP | ION IOSIF")
	assert.Contains(t, names, "DERP HERP | ION VASILE")
}

func TestApplyAdhoc(t *testing.T) {
	adhoc := map[table.FullName]table.FullName{
		{Surname: "AILENE", GivenName: "ANCUŢA"}: {Surname: "AILENEI", GivenName: "ANCUŢA"},
	}
	s := newTestStandardizer(testDict, nil, adhoc, Options{})

	got := s.applyAdhoc(table.Table{
		row("AILENE", "ANCUŢA", "Judecătoria Arad", 2012),
		row("POPA", "MARIA", "Judecătoria Arad", 2012),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "AILENEI | ANCUŢA", got[0].FullName().String())
	assert.Equal(t, "POPA | MARIA", got[1].FullName().String())
}

func TestCleanConvergesAndSorts(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	got, err := s.Clean(table.Table{
		row("HERP DERP", "JOE BOB", "Judecătoria Arad", 2014),
		row("DERP", "BOB JOE", "Judecătoria Arad", 2012),
		row("DERP HERP", "BOB JOE", "Judecătoria Arad", 2013),
	})
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, "DERP HERP | BOB JOE", r.FullName().String())
		assert.Equal(t, 2012+i, r.Year)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	in := table.Table{
		row("DERP", "BOB JOE", "Judecătoria Arad", 2012),
		row("DERP HERP", "BOB JOE", "Judecătoria Arad", 2013),
	}
	once, err := s.Clean(in)
	require.NoError(t, err)
	twice, err := s.Clean(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestCleanRecordsChanges(t *testing.T) {
	s := newTestStandardizer(testDict, nil, nil, Options{})

	_, err := s.Clean(table.Table{
		row("DERP", "BOB JOE", "Judecătoria Arad", 2012),
		row("DERP HERP", "BOB JOE", "Judecătoria Arad", 2013),
	})
	require.NoError(t, err)

	entries := s.log.Entries()
	require.NotEmpty(t, entries)
	found := false
	for _, e := range entries {
		if e.Function == "lengthen_name-surname" && e.Before == "DERP | BOB JOE" && e.After == "DERP HERP | BOB JOE" {
			found = true
		}
	}
	assert.True(t, found, "expected a surname lengthening entry, got %v", entries)
}
