package standardize

import (
	"fmt"
	"os"
	"strings"

	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"gopkg.in/yaml.v3"
)

// ParseFullName splits the "SURNAME | GIVEN NAME" notation used by the
// curated resource files and the change logs.
func ParseFullName(s string) (table.FullName, error) {
	parts := strings.SplitN(s, " | ", 2)
	if len(parts) != 2 {
		return table.FullName{}, fmt.Errorf("full name %q: want \"SURNAME | GIVEN NAME\"", s)
	}
	return table.FullName{
		Surname:   strings.TrimSpace(parts[0]),
		GivenName: strings.TrimSpace(parts[1]),
	}, nil
}

// LoadLengthenExceptions reads the per-profession set of names exempt from
// the lengthening pass.
func LoadLengthenExceptions(path string, p schema.Profession) (map[string]struct{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lengthening exceptions: %w", err)
	}
	var byProfession map[string][]string
	if err := yaml.Unmarshal(raw, &byProfession); err != nil {
		return nil, fmt.Errorf("parse lengthening exceptions %s: %w", path, err)
	}
	names, ok := byProfession[string(p)]
	if !ok {
		return nil, fmt.Errorf("lengthening exceptions %s: no section for profession %s", path, p)
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}

// LoadAdhocCorrections reads the per-profession map of known-wrong full names
// to their corrections, applied as the cascade's terminal pass.
func LoadAdhocCorrections(path string, p schema.Profession) (map[table.FullName]table.FullName, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ad-hoc corrections: %w", err)
	}
	var byProfession map[string]map[string]string
	if err := yaml.Unmarshal(raw, &byProfession); err != nil {
		return nil, fmt.Errorf("parse ad-hoc corrections %s: %w", path, err)
	}
	pairs, ok := byProfession[string(p)]
	if !ok {
		return nil, fmt.Errorf("ad-hoc corrections %s: no section for profession %s", path, p)
	}
	out := make(map[table.FullName]table.FullName, len(pairs))
	for wrong, right := range pairs {
		w, err := ParseFullName(wrong)
		if err != nil {
			return nil, fmt.Errorf("ad-hoc corrections %s: %w", path, err)
		}
		r, err := ParseFullName(right)
		if err != nil {
			return nil, fmt.Errorf("ad-hoc corrections %s: %w", path, err)
		}
		out[w] = r
	}
	return out, nil
}
