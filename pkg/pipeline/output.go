package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// WritePreprocessed writes the finished person-year table with the
// profession's output header, sorted by surname, given name, person ID and
// year so that same-named distinct persons sit in adjacent blocks.
func WritePreprocessed(path string, p schema.Profession, t table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output table: %w", err)
	}
	defer f.Close()

	sorted := append(table.Table(nil), t...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
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

	w := csv.NewWriter(f)
	if err := w.Write(schema.Header(p, schema.StagePreprocess)); err != nil {
		return err
	}
	for _, r := range sorted {
		if err := w.Write(outputRecord(p, r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func outputRecord(p schema.Profession, r table.Row) []string {
	base := []string{
		strconv.Itoa(r.RowID),
		strconv.Itoa(r.PersonID),
		r.Surname,
		r.GivenName,
		r.Gender,
	}
	switch p {
	case schema.Judges, schema.Prosecutors:
		return append(base,
			r.Workplace,
			strconv.Itoa(r.Year),
			r.AppellateCode,
			r.TribunalCode,
			r.LocalCode,
			r.Level,
		)
	case schema.Executori:
		rec := append(base, r.Workplace, strconv.Itoa(r.Year))
		return append(rec, r.Extra...)
	case schema.Notaries:
		rec := append(base, strconv.Itoa(r.Year))
		return append(rec, r.Extra...)
	}
	return base
}

// WriteUniqueNames writes the distinct full names of the table, one per
// line, ordered with Romanian collation so diacritics land where a human
// reviewer expects them rather than after Z.
func WriteUniqueNames(path string, t table.Table) error {
	seen := map[table.FullName]struct{}{}
	for _, r := range t {
		seen[r.FullName()] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for fn := range seen {
		names = append(names, fn.String())
	}
	c := collate.New(language.Romanian)
	c.SortStrings(names)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create unique names listing: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, n := range names {
		if err := w.Write([]string{n}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Manifest summarizes one pipeline run so output files can be traced back to
// the run that produced them.
type Manifest struct {
	RunID      uuid.UUID         `yaml:"run_id"`
	Profession schema.Profession `yaml:"profession"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	InputFiles []string          `yaml:"input_files"`
	RowsIn     int               `yaml:"rows_in"`
	RowsOut    int               `yaml:"rows_out"`
	Persons    int               `yaml:"persons"`
}

// Write saves the manifest as YAML.
func (m Manifest) Write(path string) error {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
