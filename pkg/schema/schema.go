// Package schema is the registry of profession-specific table layouts.
//
// The employment rolls of each legal profession arrive with their own column
// set, and the preprocessed output adds more columns still. All column access
// in the pipeline goes through this registry by name; nothing indexes rows
// positionally.
package schema

import "fmt"

// Profession identifies which legal profession a table belongs to.
type Profession string

const (
	Judges      Profession = "judges"
	Prosecutors Profession = "prosecutors"
	Notaries    Profession = "notaries"
	Executori   Profession = "executori"
)

// All lists every supported profession.
func All() []Profession {
	return []Profession{Judges, Prosecutors, Notaries, Executori}
}

// Parse validates a profession name from configuration or CLI flags.
func Parse(s string) (Profession, error) {
	switch Profession(s) {
	case Judges, Prosecutors, Notaries, Executori:
		return Profession(s), nil
	}
	return "", fmt.Errorf("unknown profession: %q (expected judges|prosecutors|notaries|executori)", s)
}

// Stage names a point in the pipeline at which a table has a defined layout.
type Stage string

const (
	// StageCollect is the layout of the raw rolls handed over by extraction.
	StageCollect Stage = "collect"
	// StagePreprocess is the layout of the finished, ID-bearing output table.
	StagePreprocess Stage = "preprocess"
)

var collectHeaders = map[Profession][]string{
	Judges:      {"nume", "prenume", "instanță/parchet", "an", "lună"},
	Prosecutors: {"nume", "prenume", "instanță/parchet", "an", "lună"},
	Executori:   {"nume", "prenume", "sediul", "an", "camera", "localitatea", "stagiu", "altele"},
	Notaries:    {"nume", "prenume", "camera", "localitatea", "intrat", "ieşit"},
}

var preprocessHeaders = map[Profession][]string{
	Judges:      {"cod rând", "cod persoană", "nume", "prenume", "sex", "instituţie", "an", "ca cod", "trib cod", "jud cod", "nivel"},
	Prosecutors: {"cod rând", "cod persoană", "nume", "prenume", "sex", "instituţie", "an", "ca cod", "trib cod", "jud cod", "nivel"},
	Executori:   {"cod rând", "cod persoană", "nume", "prenume", "sex", "sediul", "an", "camera", "localitatea", "stagiu", "altele"},
	Notaries:    {"cod rând", "cod persoană", "nume", "prenume", "sex", "an", "camera", "localitatea"},
}

// Header returns the column names of a profession's table at the given stage.
func Header(p Profession, s Stage) []string {
	var h []string
	switch s {
	case StageCollect:
		h = collectHeaders[p]
	case StagePreprocess:
		h = preprocessHeaders[p]
	}
	out := make([]string, len(h))
	copy(out, h)
	return out
}

// ExtraColumns names the profession-specific trailing columns carried through
// the pipeline untouched, in the order they appear in Row.Extra.
func ExtraColumns(p Profession) []string {
	switch p {
	case Executori:
		return []string{"camera", "localitatea", "stagiu", "altele"}
	case Notaries:
		return []string{"camera", "localitatea"}
	default:
		return nil
	}
}

// WorkplaceColumn names the collect-stage column holding the workplace.
func WorkplaceColumn(p Profession) string {
	switch p {
	case Executori:
		return "sediul"
	case Notaries:
		return "localitatea"
	default:
		return "instanță/parchet"
	}
}

// SamplingMonth is the anchor month used to reduce person-month tables to
// person-years; zero means the profession has no month-level data.
func SamplingMonth(p Profession) int {
	switch p {
	case Judges:
		return 4
	case Prosecutors:
		return 9
	default:
		return 0
	}
}

// HasHierarchyCodes reports whether the profession's workplaces live in the
// court/parquet hierarchy and therefore carry appellate/tribunal/local codes.
func HasHierarchyCodes(p Profession) bool {
	return p == Judges || p == Prosecutors
}
