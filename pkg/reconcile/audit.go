package reconcile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parcurs-ro/parcurs/pkg/table"
)

// Audit collects the reconciler's human-inspection trail: before/after
// comparisons for every corrected sequence, the sequences too strange to
// correct automatically, and running counters. The corrections are heuristic,
// so someone has to be able to read what was done and overrule it through the
// curated resources.
type Audit struct {
	changes [][]string
	odd     [][]string
}

func NewAudit() *Audit {
	return &Audit{}
}

func auditCells(r table.Row) []string {
	return []string{r.Surname, r.GivenName, r.Workplace, strconv.Itoa(r.Year)}
}

// Note appends a counter or section marker to the change log.
func (a *Audit) Note(label string, values ...int) {
	line := []string{label}
	for _, v := range values {
		line = append(line, strconv.Itoa(v))
	}
	a.changes = append(a.changes, line)
}

// SideBySide logs an original sequence next to its corrected form, one row
// pair per line, original-only rows trailing.
func (a *Audit) SideBySide(before, after Person) {
	for i, r := range before {
		line := auditCells(r)
		if i < len(after) {
			line = append(line, "", "")
			line = append(line, auditCells(after[i])...)
		}
		a.changes = append(a.changes, line)
	}
	for _, r := range after[min(len(before), len(after)):] {
		line := []string{"", "", "", "", "", ""}
		line = append(line, auditCells(r)...)
		a.changes = append(a.changes, line)
	}
	a.changes = append(a.changes, []string{""})
}

// SideBySideSplit logs an original sequence next to the two persons it was
// split into.
func (a *Audit) SideBySideSplit(before Person, split []Person) {
	offset := 0
	for gi, g := range split {
		if gi > 0 {
			a.changes = append(a.changes, []string{"", "", "", "", "", "", "NEXT PERSON"})
		}
		for i, r := range g {
			line := auditCells(before[offset+i])
			line = append(line, "", "")
			line = append(line, auditCells(r)...)
			a.changes = append(a.changes, line)
		}
		offset += len(g)
	}
	a.changes = append(a.changes, []string{""})
}

// OddSequence saves a person-sequence the reconciler declined to touch.
func (a *Audit) OddSequence(p Person) {
	for _, r := range p {
		a.odd = append(a.odd, auditCells(r))
	}
	a.odd = append(a.odd, []string{""})
}

// OddCount reports how many sequences were set aside.
func (a *Audit) OddCount() int {
	n := 0
	for _, line := range a.odd {
		if len(line) == 1 && line[0] == "" {
			n++
		}
	}
	return n
}

// Write saves the change log and the odd-sequence table as CSV files under
// dir, named by prefix.
func (a *Audit) Write(dir, prefix string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, prefix+"_change_log.csv"), a.changes); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, prefix+"_odd_person_sequences.csv"), a.odd)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audit file: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
