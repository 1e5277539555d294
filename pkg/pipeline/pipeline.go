// Package pipeline wires the preprocessing stages together: it ingests the
// collected rolls of a profession, standardizes names, resolves identities,
// and writes the finished person-year table plus its audit trail.
package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/parcurs-ro/parcurs/pkg/configuration"
	"github.com/parcurs-ro/parcurs/pkg/gender"
	"github.com/parcurs-ro/parcurs/pkg/reconcile"
	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/standardize"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/parcurs-ro/parcurs/pkg/workplace"
)

// Pipeline runs the preprocessing stages for one or more professions.
type Pipeline struct {
	cfg    *configuration.Configuration
	logger logrus.FieldLogger

	now func() time.Time
}

func New(cfg *configuration.Configuration, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger, now: time.Now}
}

// Run processes one profession end to end and writes all outputs under the
// configured output directory.
func (p *Pipeline) Run(prof schema.Profession) error {
	started := p.now()
	runID := uuid.New()
	log := p.logger.WithFields(logrus.Fields{
		"run_id":     runID,
		"profession": prof,
	})

	inputs, err := findInputFiles(filepath.Join(p.cfg.InputDir, string(prof)))
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files for profession %s under %s", prof, p.cfg.InputDir)
	}
	log.WithField("files", len(inputs)).Info("ingesting collected rolls")

	var (
		out    table.Table
		rowsIn int
	)
	if prof == schema.Notaries {
		out, rowsIn, err = p.runNotaries(inputs, log)
	} else {
		out, rowsIn, err = p.runPersonPeriods(prof, inputs, log)
	}
	if err != nil {
		return err
	}

	outPrefix := filepath.Join(p.cfg.OutputDir, string(prof))
	if err := WritePreprocessed(outPrefix+"_preprocessed.csv", prof, out); err != nil {
		return err
	}
	if err := WriteUniqueNames(outPrefix+"_unique_names.csv", out); err != nil {
		return err
	}

	m := Manifest{
		RunID:      runID,
		Profession: prof,
		StartedAt:  started,
		FinishedAt: p.now(),
		InputFiles: inputs,
		RowsIn:     rowsIn,
		RowsOut:    len(out),
		Persons:    countPersonIDs(out),
	}
	if err := m.Write(outPrefix + "_manifest.yaml"); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"rows_in":  rowsIn,
		"rows_out": len(out),
		"persons":  m.Persons,
	}).Info("profession preprocessed")
	return nil
}

// runPersonPeriods is the path for professions whose rolls arrive as
// person-period tables: judges, prosecutors and executori.
func (p *Pipeline) runPersonPeriods(prof schema.Profession, inputs []string, log logrus.FieldLogger) (table.Table, int, error) {
	var years, months table.Table
	for _, path := range inputs {
		records, err := readRecords(path)
		if err != nil {
			return nil, 0, err
		}
		t, byMonth, err := ParseCollected(records, prof)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
		if byMonth {
			months = append(months, t...)
		} else {
			years = append(years, t...)
		}
	}
	rowsIn := len(years) + len(months)

	// person-month rolls are sampled down to person-years and merged with
	// the rolls that were annual to begin with
	if len(months) > 0 {
		sampled := SampleYears(months, schema.SamplingMonth(prof), log)
		years = table.Dedup(append(years, sampled...))
	}

	dict, err := gender.Load(p.cfg.GenderDictPath())
	if err != nil {
		return nil, 0, err
	}
	exceptions, err := standardize.LoadLengthenExceptions(p.cfg.LengthenExceptionsPath(), prof)
	if err != nil {
		return nil, 0, err
	}
	adhoc, err := standardize.LoadAdhocCorrections(p.cfg.AdhocCorrectionsPath(), prof)
	if err != nil {
		return nil, 0, err
	}

	changelog := standardize.NewChangelog()
	std := standardize.New(prof, dict, exceptions, adhoc, changelog, log,
		standardize.Options{WindowYears: p.cfg.LengthenWindowYears})
	cleaned, err := std.Clean(years)
	if err != nil {
		return nil, 0, err
	}

	outPrefix := filepath.Join(p.cfg.OutputDir, string(prof))
	if err := changelog.WriteCSV(outPrefix + "_standardisation_log.csv"); err != nil {
		return nil, 0, err
	}

	cleaned = AddRowIDsAndGender(cleaned, dict, log)

	if schema.HasHierarchyCodes(prof) {
		codes, err := workplace.LoadCodes(p.cfg.WorkplaceCodesPath(), prof)
		if err != nil {
			return nil, 0, err
		}
		cleaned = AddWorkplaceProfile(cleaned, codes, log)
	}

	audit := reconcile.NewAudit()
	rec := reconcile.New(prof, audit, log)
	cleaned = rec.Run(cleaned)
	if err := audit.Write(p.cfg.OutputDir, string(prof)); err != nil {
		return nil, 0, err
	}

	// marriage splits one career over two surnames; only the court and
	// parquet rolls are complete enough for the repair to be safe
	if schema.HasHierarchyCodes(prof) {
		skip, err := LoadSurnameChangeSkip(p.cfg.SurnameChangeSkipPath(), prof)
		if err != nil {
			return nil, 0, err
		}
		var snLog *SurnameChangeLog
		cleaned, snLog = CorrectFemaleSurnameChanges(cleaned, skip)
		snLog.Profession = prof
		if err := snLog.Write(outPrefix + "_female_surname_log.csv"); err != nil {
			return nil, 0, err
		}
	}

	return cleaned, rowsIn, nil
}

// runNotaries is the path for the notary rolls, which arrive one row per
// career and skip standardization and reconciliation entirely.
func (p *Pipeline) runNotaries(inputs []string, log logrus.FieldLogger) (table.Table, int, error) {
	var persons []NotaryPerson
	for _, path := range inputs {
		records, err := readRecords(path)
		if err != nil {
			return nil, 0, err
		}
		ps, err := ParseNotaries(records)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
		persons = append(persons, ps...)
	}

	t := ReshapeNotaries(persons)

	dict, err := gender.Load(p.cfg.GenderDictPath())
	if err != nil {
		return nil, 0, err
	}
	t = AddRowIDsAndGender(t, dict, log)
	return t, len(persons), nil
}

func findInputFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".xlsx":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan input directory %s: %w", dir, err)
	}
	return files, nil
}
