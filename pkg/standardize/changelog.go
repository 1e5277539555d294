package standardize

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// Entry records one name rewrite so a human can audit what the cascade did.
type Entry struct {
	Time     string
	Function string
	Before   string
	After    string
}

// Changelog accumulates every rewrite and per-pass overview statistics for
// one standardization run. It is written to disk once and never read back by
// the pipeline.
type Changelog struct {
	RunID    uuid.UUID
	entries  []Entry
	overview [][]string
}

func NewChangelog() *Changelog {
	return &Changelog{RunID: uuid.New()}
}

// Record logs one before→after rewrite made by a cascade pass.
func (c *Changelog) Record(stamp, function, before, after string) {
	c.entries = append(c.entries, Entry{Time: stamp, Function: function, Before: before, After: after})
}

// Note appends an overview line (counters, run markers).
func (c *Changelog) Note(label string, values ...int) {
	line := []string{label}
	for _, v := range values {
		line = append(line, strconv.Itoa(v))
	}
	c.overview = append(c.overview, line)
}

// Entries returns the recorded rewrites.
func (c *Changelog) Entries() []Entry {
	return c.entries
}

// WriteCSV writes the change log: one row per rewrite, followed by the
// overview section.
func (c *Changelog) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create change log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "function", "before", "after"}); err != nil {
		return err
	}
	for _, e := range c.entries {
		if err := w.Write([]string{e.Time, e.Function, e.Before, e.After}); err != nil {
			return err
		}
	}
	if err := w.Write([]string{"OVERVIEW", c.RunID.String()}); err != nil {
		return err
	}
	for _, line := range c.overview {
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
