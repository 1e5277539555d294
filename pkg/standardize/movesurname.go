package standardize

import (
	"strings"

	"github.com/parcurs-ro/parcurs/pkg/gender"
	"github.com/parcurs-ro/parcurs/pkg/table"
)

// moveSurname repairs rows whose given-name field contains surname tokens,
// as flagged by the name dictionary. Four shapes occur:
//
//	(A) surname before the given names, e.g. ŞESTACOVSCHI | MOANGĂ SIMONA
//	(B) surname after the given names, e.g. CORNOIU | VICTOR JITĂRAŞU
//	(C) parenthesized maiden name after the given names,
//	    e.g. MUNTEANU RETEVOESCU | ANA MARIA (DUMBRAVĂ)
//	(D) a second person's whole name after the given names,
//	    e.g. VĂCARU | CLAUDIA IULIANA VÂJLOI ANDREEA ILEANA
//
// (A)-(C) rewrite the row in place; (D) splits it into two rows, one per
// person. Parentheses carry no information once the surname is in the right
// field, so every emitted surname is stripped of them.
//
// This pass assumes the collector's original name order and must therefore
// run before nameOrder.
func (s *Standardizer) moveSurname(t table.Table, stamp string) table.Table {
	const funcName = "move_surname"
	out := make(table.Table, 0, len(t))

	for _, r := range t {
		tokens := r.GivenNameTokens()
		labeled := make([]bool, len(tokens))
		any := false
		for i, tok := range tokens {
			label, ok := s.genderDict.Lookup(tok)
			if !ok {
				s.logger.WithField("name", tok).Warn("name not in gender dictionary")
				continue
			}
			if label == gender.Surname {
				labeled[i] = true
				any = true
			}
		}

		if !any {
			r.Surname = strings.TrimSpace(stripParens(r.Surname))
			out = append(out, r)
			continue
		}

		before := r.FullName().String()
		switch {
		// (A) leading surname: move every flagged token into the surname field.
		case labeled[0]:
			moved := make([]string, 0, len(tokens))
			kept := make([]string, 0, len(tokens))
			for i, tok := range tokens {
				if labeled[i] {
					moved = append(moved, tok)
				} else {
					kept = append(kept, tok)
				}
			}
			r.Surname = stripParens(r.Surname + " " + strings.Join(moved, " "))
			r.GivenName = strings.Join(kept, " ")
			out = append(out, r)
			s.log.Record(stamp, funcName, before, r.FullName().String())

		// (B) trailing surname: append the final token to the surname field.
		case labeled[len(tokens)-1]:
			r.Surname = stripParens(r.Surname + " " + tokens[len(tokens)-1])
			r.GivenName = strings.Join(tokens[:len(tokens)-1], " ")
			out = append(out, r)
			s.log.Record(stamp, funcName, before, r.FullName().String())

		// (C) parenthesized maiden name: append it to the surname field.
		case parenthesizedLabeled(tokens, labeled):
			kept := make([]string, 0, len(tokens))
			var maiden string
			for i, tok := range tokens {
				if labeled[i] && maiden == "" && strings.HasPrefix(tok, "(") {
					maiden = tok
					continue
				}
				kept = append(kept, tok)
			}
			r.Surname = stripParens(r.Surname + " " + maiden)
			r.GivenName = strings.Join(kept, " ")
			out = append(out, r)
			s.log.Record(stamp, funcName, before, r.FullName().String())

		// (D) embedded second person: everything from the first flagged token
		// onward is the other person's full name.
		default:
			split := 0
			for i := range tokens {
				if labeled[i] {
					split = i
					break
				}
			}
			other := r
			other.Surname = stripParens(tokens[split])
			other.GivenName = strings.Join(tokens[split+1:], " ")

			r.Surname = stripParens(r.Surname)
			r.GivenName = strings.Join(tokens[:split], " ")

			out = append(out, r, other)
			s.log.Record(stamp, funcName, before, r.FullName().String())
			s.log.Record(stamp, funcName, before, other.FullName().String())
		}
	}

	return table.Dedup(out)
}

func parenthesizedLabeled(tokens []string, labeled []bool) bool {
	for i, tok := range tokens {
		if labeled[i] && strings.HasPrefix(tok, "(") {
			return true
		}
	}
	return false
}

func stripParens(s string) string {
	return strings.NewReplacer("(", "", ")", "").Replace(s)
}
