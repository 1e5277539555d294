package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/parcurs-ro/parcurs/pkg/gender"
	"github.com/parcurs-ro/parcurs/pkg/schema"
	"github.com/parcurs-ro/parcurs/pkg/standardize"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"gopkg.in/yaml.v3"
)

// SurnameChangeLog records which careers the surname-change corrector joined,
// for human review.
type SurnameChangeLog struct {
	Profession schema.Profession
	// Associated pairs: name whose career ends, name whose career starts.
	Associated [][2]table.FullName
	// PerYear counts joins by the year the first career ended.
	PerYear map[int]int
	Reduced int
}

// Write saves the log as a CSV file.
func (l *SurnameChangeLog) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create surname change log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{string(l.Profession)})
	_ = w.Write([]string{"ASSOCIATED NAMES"})
	for _, pair := range l.Associated {
		_ = w.Write([]string{pair[0].String(), pair[1].String()})
	}
	_ = w.Write([]string{"TOTAL NAMES REDUCED", strconv.Itoa(l.Reduced)})
	_ = w.Write([]string{"NUMBER OF NAME CHANGES PER YEAR"})
	years := make([]int, 0, len(l.PerYear))
	for y := range l.PerYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		_ = w.Write([]string{strconv.Itoa(y), strconv.Itoa(l.PerYear[y])})
	}
	w.Flush()
	return w.Error()
}

// LoadSurnameChangeSkip reads the per-profession set of full names the
// corrector must leave alone: names known to map onto several people.
func LoadSurnameChangeSkip(path string, p schema.Profession) (map[table.FullName]struct{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read surname change skip list: %w", err)
	}
	var byProfession map[string][]string
	if err := yaml.Unmarshal(raw, &byProfession); err != nil {
		return nil, fmt.Errorf("parse surname change skip list %s: %w", path, err)
	}
	names := byProfession[string(p)]
	out := make(map[table.FullName]struct{}, len(names))
	for _, n := range names {
		fn, err := standardize.ParseFullName(n)
		if err != nil {
			return nil, fmt.Errorf("surname change skip list %s: %w", path, err)
		}
		out[fn] = struct{}{}
	}
	return out, nil
}

// CorrectFemaleSurnameChanges joins careers split by a marriage surname
// change. The telltale pattern is a woman's career ending in one year and a
// career with the same given names, a different surname, and the same
// workplace starting the very next year. Both careers get the earlier
// career's person ID.
//
// Guards: both rows must be inferred female, both full names must stay under
// four tokens, multi-token surnames must share at least one token, and names
// on the curated skip list are never touched.
func CorrectFemaleSurnameChanges(t table.Table, skip map[table.FullName]struct{}) (table.Table, *SurnameChangeLog) {
	logEntry := &SurnameChangeLog{PerYear: map[int]int{}}

	idsAtStart := countPersonIDs(t)

	t = append(table.Table(nil), t...)
	sort.SliceStable(t, func(i, j int) bool {
		if t[i].PersonID != t[j].PersonID {
			return t[i].PersonID < t[j].PersonID
		}
		return t[i].Year < t[j].Year
	})

	var people []table.Table
	var cur table.Table
	for _, r := range t {
		if len(cur) > 0 && r.PersonID != cur[0].PersonID {
			people = append(people, cur)
			cur = nil
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		people = append(people, cur)
	}

	minYear, maxYear := 0, 0
	for i, r := range t {
		if i == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if i == 0 || r.Year > maxYear {
			maxYear = r.Year
		}
	}

	idChanges := map[int]int{}
	for year := minYear; year < maxYear; year++ {
		var ending, starting []table.Row
		for _, person := range people {
			if person[len(person)-1].Year == year {
				ending = append(ending, person[len(person)-1])
			}
			if person[0].Year == year+1 {
				starting = append(starting, person[0])
			}
		}

		for _, inf := range ending {
			for _, sup := range starting {
				if inf.GivenName != sup.GivenName || inf.Surname == sup.Surname {
					continue
				}
				if len(inf.FullName().Tokens()) >= 4 || len(sup.FullName().Tokens()) >= 4 {
					continue
				}
				if inf.Gender != gender.Female || sup.Gender != gender.Female {
					continue
				}
				if inf.Workplace != sup.Workplace {
					continue
				}
				if _, skipped := skip[inf.FullName()]; skipped {
					continue
				}
				infTokens := inf.SurnameTokens()
				supTokens := sup.SurnameTokens()
				if len(infTokens) > 1 || len(supTokens) > 1 {
					if !shareToken(infTokens, supTokens) {
						continue
					}
				}
				idChanges[sup.PersonID] = inf.PersonID
				logEntry.Associated = append(logEntry.Associated, [2]table.FullName{inf.FullName(), sup.FullName()})
				logEntry.PerYear[inf.Year]++
			}
		}
	}

	out := make(table.Table, 0, len(t))
	for _, r := range t {
		if to, ok := idChanges[r.PersonID]; ok {
			r.PersonID = to
		}
		out = append(out, r)
	}
	out = table.Dedup(out)

	logEntry.Reduced = idsAtStart - countPersonIDs(out)
	return out, logEntry
}

func countPersonIDs(t table.Table) int {
	seen := map[int]struct{}{}
	for _, r := range t {
		seen[r.PersonID] = struct{}{}
	}
	return len(seen)
}

func shareToken(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
