package pipeline

import (
	"github.com/parcurs-ro/parcurs/pkg/standardize"
	"github.com/parcurs-ro/parcurs/pkg/table"
)

// ReshapeNotaries turns a table of notary careers (one row per person, entry
// and exit years) into a person-year table. A zero exit year means the
// observation was right-censored, and the career is extended to the last
// entry year seen anywhere in the roll.
//
// Names and places of practice are assumed constant over a notary's career;
// the roll records nothing that could say otherwise. Person IDs are simply
// the roll order, since one career is one row here, and the only cleaning
// needed is token-order canonicalization.
func ReshapeNotaries(persons []NotaryPerson) table.Table {
	maxYear := 0
	for _, p := range persons {
		if p.EntryYear > maxYear {
			maxYear = p.EntryYear
		}
	}

	var t table.Table
	for id, p := range persons {
		exit := p.ExitYear
		if exit == 0 {
			exit = maxYear
		}
		for year := p.EntryYear; year <= exit; year++ {
			t = append(t, table.Row{
				Surname:   p.Surname,
				GivenName: p.GivenName,
				Workplace: p.Localitatea,
				Year:      year,
				Extra:     []string{p.Camera, p.Localitatea},
				PersonID:  id,
			})
		}
	}

	t = standardize.OrderNames(t)
	for i := range t {
		t[i].RowID = i
	}
	return t
}
