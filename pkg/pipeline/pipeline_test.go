package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parcurs-ro/parcurs/pkg/gender"
	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func monthRow(workplace string, year, month int) table.Row {
	return table.Row{Surname: "DERP", GivenName: "BOB JOE", Workplace: workplace, Year: year, Month: month}
}

func TestSampleYearsUsesAnchorMonth(t *testing.T) {
	got := SampleYears(table.Table{
		monthRow("ALPHA", 2012, 3),
		monthRow("ALPHA", 2012, 4),
		monthRow("ALPHA", 2012, 5),
	}, 4, discardLogger())

	require.Len(t, got, 1)
	assert.Equal(t, "ALPHA", got[0].Workplace)
	assert.Zero(t, got[0].Month)
}

func TestSampleYearsFallsBackToNearestMonth(t *testing.T) {
	got := SampleYears(table.Table{
		monthRow("ALPHA", 2012, 1),
		monthRow("BETA", 2012, 6),
	}, 4, discardLogger())

	require.Len(t, got, 1)
	assert.Equal(t, "BETA", got[0].Workplace)
}

func TestSampleYearsTieGoesToLowerMonth(t *testing.T) {
	got := SampleYears(table.Table{
		monthRow("ALPHA", 2012, 3),
		monthRow("BETA", 2012, 5),
	}, 4, discardLogger())

	require.Len(t, got, 1)
	assert.Equal(t, "ALPHA", got[0].Workplace)
}

func TestSampleYearsKeepsDuplicateAnchorRows(t *testing.T) {
	// two same-named people in different workplaces stay for the overlap
	// corrector to resolve later
	got := SampleYears(table.Table{
		monthRow("ALPHA", 2012, 4),
		monthRow("BETA", 2012, 4),
	}, 4, discardLogger())

	assert.Len(t, got, 2)
}

func TestSampleYearsSamplesEachYearSeparately(t *testing.T) {
	got := SampleYears(table.Table{
		monthRow("ALPHA", 2012, 4),
		monthRow("ALPHA", 2012, 9),
		monthRow("BETA", 2013, 4),
		monthRow("BETA", 2013, 9),
	}, 4, discardLogger())

	require.Len(t, got, 2)
	assert.Equal(t, 2012, got[0].Year)
	assert.Equal(t, 2013, got[1].Year)
}

func TestReshapeNotariesExpandsCareers(t *testing.T) {
	got := ReshapeNotaries([]NotaryPerson{
		{Surname: "POPA", GivenName: "MARIA", Camera: "CAM1", Localitatea: "ARAD", EntryYear: 2010, ExitYear: 2012},
	})

	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, 2010+i, r.Year)
		assert.Equal(t, "ARAD", r.Workplace)
		assert.Equal(t, []string{"CAM1", "ARAD"}, r.Extra)
		assert.Equal(t, 0, r.PersonID)
	}
}

func TestReshapeNotariesRightCensorsOpenCareers(t *testing.T) {
	got := ReshapeNotaries([]NotaryPerson{
		{Surname: "POPA", GivenName: "MARIA", Localitatea: "ARAD", EntryYear: 2010, ExitYear: 0},
		{Surname: "IONESCU", GivenName: "ANA", Localitatea: "CLUJ", EntryYear: 2012, ExitYear: 2013},
	})

	// POPA's open career runs through the latest entry year seen, 2012
	years := map[int]struct{}{}
	for _, r := range got {
		if r.Surname == "POPA" {
			years[r.Year] = struct{}{}
		}
	}
	assert.Equal(t, map[int]struct{}{2010: {}, 2011: {}, 2012: {}}, years)
}

func TestParseCollectedDetectsMonthRolls(t *testing.T) {
	records := [][]string{
		{"nume", "prenume", "instanță/parchet", "an", "lună"},
		{"DERP", "BOB JOE", "ALPHA", "2012", "4"},
	}
	got, byMonth, err := ParseCollected(records, schema.Judges)
	require.NoError(t, err)
	assert.True(t, byMonth)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Month)
}

func TestParseCollectedYearRoll(t *testing.T) {
	records := [][]string{
		{"nume", "prenume", "instanță/parchet", "an"},
		{"DERP", "BOB JOE", "ALPHA", "2012"},
	}
	got, byMonth, err := ParseCollected(records, schema.Judges)
	require.NoError(t, err)
	assert.False(t, byMonth)
	require.Len(t, got, 1)
	assert.Equal(t, "ALPHA", got[0].Workplace)
}

func TestParseCollectedRejectsUnknownColumns(t *testing.T) {
	records := [][]string{
		{"nume", "prenume", "instanță/parchet", "an", "salariu"},
	}
	_, _, err := ParseCollected(records, schema.Judges)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salariu")
}

func TestParseCollectedExecutoriExtras(t *testing.T) {
	records := [][]string{
		{"nume", "prenume", "sediul", "an", "camera", "localitatea", "stagiu", "altele"},
		{"DERP", "BOB", "ALPHA", "2012", "CAM1", "ARAD", "DA", ""},
	}
	got, _, err := ParseCollected(records, schema.Executori)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"CAM1", "ARAD", "DA", ""}, got[0].Extra)
}

func TestParseNotariesRightCensorMarker(t *testing.T) {
	records := [][]string{
		{"nume", "prenume", "camera", "localitatea", "intrat", "ieşit"},
		{"POPA", "MARIA", "CAM1", "ARAD", "2010", "-88"},
		{"IONESCU", "ANA", "CAM2", "CLUJ", "2011", "2015"},
	}
	got, err := ParseNotaries(records)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Zero(t, got[0].ExitYear)
	assert.Equal(t, 2015, got[1].ExitYear)
}

func TestAddRowIDsAndGender(t *testing.T) {
	dict := gender.Dict{"MARIA": gender.Female, "ION": gender.Male}
	got := AddRowIDsAndGender(table.Table{
		{Surname: "POPA", GivenName: "MARIA"},
		{Surname: "DERP", GivenName: "ION"},
		{Surname: "HERP", GivenName: "XULESCU"},
	}, dict, discardLogger())

	require.Len(t, got, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{got[0].RowID, got[1].RowID, got[2].RowID})
	assert.Equal(t, gender.Female, got[0].Gender)
	assert.Equal(t, gender.Male, got[1].Gender)
	// a token missing from the dictionary leaves the gender empty
	assert.Equal(t, "", got[2].Gender)
}

func femaleYear(surname, given, workplace string, year, personID int) table.Row {
	return table.Row{
		Surname: surname, GivenName: given, Workplace: workplace,
		Year: year, PersonID: personID, Gender: gender.Female,
	}
}

func TestFemaleSurnameChangeJoinsCareers(t *testing.T) {
	in := table.Table{
		femaleYear("DERP", "MARIA", "MARS", 2012, 0),
		femaleYear("DERP", "MARIA", "MARS", 2013, 0),
		femaleYear("HERP", "MARIA", "MARS", 2014, 1),
		femaleYear("HERP", "MARIA", "MARS", 2015, 1),
	}
	got, log := CorrectFemaleSurnameChanges(in, nil)

	require.Len(t, got, 4)
	for _, r := range got {
		assert.Equal(t, 0, r.PersonID)
	}
	assert.Equal(t, 1, log.Reduced)
	require.Len(t, log.Associated, 1)
	assert.Equal(t, "DERP | MARIA", log.Associated[0][0].String())
}

func TestFemaleSurnameChangeRequiresSameWorkplace(t *testing.T) {
	in := table.Table{
		femaleYear("DERP", "MARIA", "MARS", 2013, 0),
		femaleYear("HERP", "MARIA", "VENUS", 2014, 1),
	}
	got, _ := CorrectFemaleSurnameChanges(in, nil)

	ids := map[int]struct{}{}
	for _, r := range got {
		ids[r.PersonID] = struct{}{}
	}
	assert.Len(t, ids, 2)
}

func TestFemaleSurnameChangeSkipsMen(t *testing.T) {
	in := table.Table{
		{Surname: "DERP", GivenName: "ION", Workplace: "MARS", Year: 2013, PersonID: 0, Gender: gender.Male},
		{Surname: "HERP", GivenName: "ION", Workplace: "MARS", Year: 2014, PersonID: 1, Gender: gender.Male},
	}
	got, _ := CorrectFemaleSurnameChanges(in, nil)

	ids := map[int]struct{}{}
	for _, r := range got {
		ids[r.PersonID] = struct{}{}
	}
	assert.Len(t, ids, 2)
}

func TestFemaleSurnameChangeMultiSurnameNeedsSharedToken(t *testing.T) {
	in := table.Table{
		femaleYear("RICINSCHI", "MARIA", "MARS", 2013, 0),
		femaleYear("DOMINTE POPA", "MARIA", "MARS", 2014, 1),
	}
	got, _ := CorrectFemaleSurnameChanges(in, nil)

	ids := map[int]struct{}{}
	for _, r := range got {
		ids[r.PersonID] = struct{}{}
	}
	assert.Len(t, ids, 2)
}

func TestFemaleSurnameChangeHonorsSkipList(t *testing.T) {
	skip := map[table.FullName]struct{}{
		{Surname: "DERP", GivenName: "MARIA"}: {},
	}
	in := table.Table{
		femaleYear("DERP", "MARIA", "MARS", 2013, 0),
		femaleYear("HERP", "MARIA", "MARS", 2014, 1),
	}
	got, _ := CorrectFemaleSurnameChanges(in, skip)

	ids := map[int]struct{}{}
	for _, r := range got {
		ids[r.PersonID] = struct{}{}
	}
	assert.Len(t, ids, 2)
}

func TestWriteUniqueNamesUsesRomanianCollation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.csv")

	err := WriteUniqueNames(path, table.Table{
		{Surname: "TUDOR", GivenName: "ION", Year: 2012},
		{Surname: "SARDU", GivenName: "ION", Year: 2012},
		{Surname: "ŞERBAN", GivenName: "ION", Year: 2012},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	// Ş sorts between S and T, not after Z
	assert.Contains(t, lines[0], "SARDU")
	assert.Contains(t, lines[1], "ŞERBAN")
	assert.Contains(t, lines[2], "TUDOR")
}

func TestWritePreprocessedHeaderAndOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := WritePreprocessed(path, schema.Judges, table.Table{
		{RowID: 1, PersonID: 1, Surname: "B", GivenName: "X", Gender: "f", Workplace: "ALPHA", Year: 2012},
		{RowID: 0, PersonID: 0, Surname: "A", GivenName: "Y", Gender: "m", Workplace: "BETA", Year: 2013},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(schema.Header(schema.Judges, schema.StagePreprocess), ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,0,A,Y,m,BETA,2013"))
	assert.True(t, strings.HasPrefix(lines[2], "1,1,B,X,f,ALPHA,2012"))
}

func TestWritePreprocessedKeepsNameOrderAcrossMergedIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	// person 0 spans two surnames after a surname-change merge; the output
	// still orders by name first, person ID second
	err := WritePreprocessed(path, schema.Judges, table.Table{
		{RowID: 0, PersonID: 0, Surname: "DERP", GivenName: "MARIA", Gender: "f", Workplace: "ALPHA", Year: 2012},
		{RowID: 1, PersonID: 0, Surname: "HERP", GivenName: "MARIA", Gender: "f", Workplace: "ALPHA", Year: 2013},
		{RowID: 2, PersonID: 1, Surname: "ALBU", GivenName: "ION", Gender: "m", Workplace: "BETA", Year: 2012},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "2,1,ALBU"))
	assert.True(t, strings.HasPrefix(lines[2], "0,0,DERP"))
	assert.True(t, strings.HasPrefix(lines[3], "1,0,HERP"))
}
