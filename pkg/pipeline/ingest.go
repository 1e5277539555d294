package pipeline

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/xuri/excelize/v2"
)

// readRecords loads a collected roll file as raw string records. CSV and XLSX
// are both in circulation; the courts hand over whatever their clerks
// produced.
func readRecords(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVRecords(path)
	case ".xlsx":
		return readXLSXRecords(path)
	}
	return nil, fmt.Errorf("unsupported input format: %s", path)
}

func readCSVRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := stripUTF8BOM(bufio.NewReader(f))
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readXLSXRecords(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func cleanHeader(h []string) ([]string, error) {
	out := make([]string, len(h))
	for i := range h {
		out[i] = strings.TrimSpace(h[i])
		if !utf8.ValidString(out[i]) {
			return nil, fmt.Errorf("invalid header encoding")
		}
	}
	return out, nil
}

func headerIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		m[name] = i
	}
	return m
}

func requireHeader(header []string, required []string, optional []string) error {
	hset := make(map[string]struct{}, len(header))
	for _, h := range header {
		hset[h] = struct{}{}
	}
	for _, req := range required {
		if _, ok := hset[req]; !ok {
			return fmt.Errorf("missing required header column: %s", req)
		}
	}
	allowed := make(map[string]struct{}, len(required)+len(optional))
	for _, a := range required {
		allowed[a] = struct{}{}
	}
	for _, a := range optional {
		allowed[a] = struct{}{}
	}
	for _, h := range header {
		if _, ok := allowed[h]; !ok {
			return fmt.Errorf("unexpected header column: %s", h)
		}
	}
	return nil
}

func cell(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad year %q", s)
	}
	return y, nil
}

// ParseCollected turns raw records from a collected roll into table rows. The
// month column is optional: its presence marks a person-month roll, and the
// second return reports that.
//
// Notary rolls have a different shape (one row per person, entry and exit
// years); use ParseNotaries for those.
func ParseCollected(records [][]string, p schema.Profession) (table.Table, bool, error) {
	if p == schema.Notaries {
		return nil, false, fmt.Errorf("notary rolls are person tables, not person-period tables")
	}
	if len(records) == 0 {
		return nil, false, fmt.Errorf("missing header")
	}
	header, err := cleanHeader(records[0])
	if err != nil {
		return nil, false, err
	}

	expected := schema.Header(p, schema.StageCollect)
	required := make([]string, 0, len(expected))
	for _, col := range expected {
		if col != "lună" {
			required = append(required, col)
		}
	}
	if err := requireHeader(header, required, []string{"lună"}); err != nil {
		return nil, false, err
	}
	idx := headerIndex(header)
	_, byMonth := idx["lună"]

	workplaceCol := schema.WorkplaceColumn(p)
	extraCols := schema.ExtraColumns(p)

	var t table.Table
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		year, err := parseYear(cell(rec, idx, "an"))
		if err != nil {
			return nil, false, fmt.Errorf("row %d: %w", n+2, err)
		}
		row := table.Row{
			Surname:   strings.TrimSpace(cell(rec, idx, "nume")),
			GivenName: strings.TrimSpace(cell(rec, idx, "prenume")),
			Workplace: cell(rec, idx, workplaceCol),
			Year:      year,
		}
		if byMonth {
			m, err := strconv.Atoi(strings.TrimSpace(cell(rec, idx, "lună")))
			if err != nil || m < 1 || m > 12 {
				return nil, false, fmt.Errorf("row %d: bad month %q", n+2, cell(rec, idx, "lună"))
			}
			row.Month = m
		}
		if len(extraCols) > 0 {
			row.Extra = make([]string, len(extraCols))
			for i, col := range extraCols {
				row.Extra[i] = cell(rec, idx, col)
			}
		}
		t = append(t, row)
	}
	return t, byMonth, nil
}

// NotaryPerson is one row of a collected notary roll: a whole career with
// entry and exit years rather than one row per year.
type NotaryPerson struct {
	Surname     string
	GivenName   string
	Camera      string
	Localitatea string
	EntryYear   int
	// ExitYear is zero when the person was still practicing at collection
	// time (the roll records it as -88).
	ExitYear int
}

// ParseNotaries reads a collected notary roll.
func ParseNotaries(records [][]string) ([]NotaryPerson, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}
	header, err := cleanHeader(records[0])
	if err != nil {
		return nil, err
	}
	expected := schema.Header(schema.Notaries, schema.StageCollect)
	if err := requireHeader(header, expected, nil); err != nil {
		return nil, err
	}
	idx := headerIndex(header)

	var persons []NotaryPerson
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		entry, err := parseYear(cell(rec, idx, "intrat"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		p := NotaryPerson{
			Surname:     strings.TrimSpace(cell(rec, idx, "nume")),
			GivenName:   strings.TrimSpace(cell(rec, idx, "prenume")),
			Camera:      cell(rec, idx, "camera"),
			Localitatea: cell(rec, idx, "localitatea"),
			EntryYear:   entry,
		}
		exitCell := cell(rec, idx, "ieşit")
		if exitCell != "-88" {
			exit, err := parseYear(exitCell)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			p.ExitYear = exit
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
