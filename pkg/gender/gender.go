// Package gender infers a person's gender from their given names using a
// hand-curated name dictionary. The same dictionary labels tokens that are
// really surnames, which the standardization cascade relies on to repair
// misplaced names.
package gender

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Labels a name token can carry in the dictionary.
const (
	Female  = "f"
	Male    = "m"
	Unknown = "dk"
	Surname = "surname"
)

// Dict maps a name token to its label.
type Dict map[string]string

// Load reads a name dictionary from a YAML file.
func Load(path string) (Dict, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gender dictionary: %w", err)
	}
	d := Dict{}
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse gender dictionary %s: %w", path, err)
	}
	for name, label := range d {
		switch label {
		case Female, Male, Unknown, Surname:
		default:
			return nil, fmt.Errorf("gender dictionary %s: name %q has invalid label %q", path, name, label)
		}
	}
	return d, nil
}

// Lookup returns the label for one token, stripping any parentheses first.
// The second return is false when the token is not in the dictionary, which
// is a data-quality gap, not an error.
func (d Dict) Lookup(token string) (string, bool) {
	label, ok := d[strings.Trim(token, "()")]
	return label, ok
}

// Infer assigns a gender to a given-name string by majority vote over its
// tokens. Surname-labeled tokens do not vote. A token missing from the
// dictionary makes the whole inference inconclusive: the empty string is
// returned along with the unknown tokens so the caller can log the gap.
func (d Dict) Infer(givenNames string) (string, []string) {
	var votes []string
	var missing []string
	for _, tok := range strings.Fields(givenNames) {
		label, ok := d.Lookup(tok)
		if !ok {
			missing = append(missing, tok)
			continue
		}
		if label != Surname {
			votes = append(votes, label)
		}
	}
	if len(missing) > 0 {
		return "", missing
	}
	if len(votes) == 0 {
		return "", nil
	}

	unanimous := true
	for _, v := range votes[1:] {
		if v != votes[0] {
			unanimous = false
			break
		}
	}
	if unanimous {
		return votes[0], nil
	}

	var f, m bool
	for _, v := range votes {
		switch v {
		case Female:
			f = true
		case Male:
			m = true
		}
	}
	switch {
	case f && m:
		// An even split between clear labels is undecidable.
		return Unknown, nil
	case f:
		return Female, nil
	case m:
		return Male, nil
	}
	return Unknown, nil
}
