// Package workplace resolves workplace names to their position in the
// court/parquet organizational hierarchy. Reconciliation uses these codes as
// splitting keys when one name turns out to be two people.
package workplace

import (
	"fmt"
	"os"
	"strings"

	"github.com/parcurs-ro/parcurs/pkg/schema"
	"gopkg.in/yaml.v3"
)

// NotApplicable marks a hierarchy level that does not apply to a workplace;
// the High Court is NotApplicable at every level by convention.
const NotApplicable = "-88"

// Code locates a workplace inside its professional hierarchy.
type Code struct {
	Appellate string
	Tribunal  string
	Local     string
}

// Level returns the workplace's hierarchical level: "1" for a local court,
// "2" for a tribunal, "3" for an appellate court, "4" for the High Court.
// The court and parquet hierarchies mirror each other, so the same rule
// covers both.
func (c Code) Level() string {
	switch {
	case c.Local != NotApplicable:
		return "1"
	case c.Tribunal != NotApplicable:
		return "2"
	case c.Appellate != NotApplicable:
		return "3"
	default:
		return "4"
	}
}

// Codes maps workplace names to hierarchy codes.
type Codes map[string]Code

type codesFile struct {
	Court   map[string][]string `yaml:"court"`
	Parquet map[string][]string `yaml:"parquet"`
}

// LoadCodes reads the hierarchy-code map for a profession from a YAML file.
// Only court and parquet professions have hierarchy codes.
func LoadCodes(path string, p schema.Profession) (Codes, error) {
	if !schema.HasHierarchyCodes(p) {
		return nil, fmt.Errorf("profession %s has no hierarchy codes", p)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workplace codes: %w", err)
	}
	var f codesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse workplace codes %s: %w", path, err)
	}
	section := f.Court
	if p == schema.Prosecutors {
		section = f.Parquet
	}
	codes := make(Codes, len(section))
	for name, parts := range section {
		if len(parts) != 3 {
			return nil, fmt.Errorf("workplace codes %s: %q has %d code parts, want 3", path, name, len(parts))
		}
		codes[strings.TrimSpace(name)] = Code{Appellate: parts[0], Tribunal: parts[1], Local: parts[2]}
	}
	return codes, nil
}

// Profile returns the hierarchy code for a workplace name.
func (cs Codes) Profile(workplaceName string) (Code, bool) {
	c, ok := cs[strings.TrimSpace(workplaceName)]
	return c, ok
}
