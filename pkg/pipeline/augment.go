package pipeline

import (
	"github.com/parcurs-ro/parcurs/pkg/gender"
	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/parcurs-ro/parcurs/pkg/workplace"
	"github.com/sirupsen/logrus"
)

// AddRowIDsAndGender numbers every row and infers each row's gender from its
// given names. Rows whose given names contain tokens missing from the
// dictionary keep an empty gender, and the gap is logged so the dictionary
// can be extended.
func AddRowIDsAndGender(t table.Table, dict gender.Dict, logger logrus.FieldLogger) table.Table {
	out := make(table.Table, 0, len(t))
	for i, r := range t {
		r.RowID = i
		g, missing := dict.Infer(r.GivenName)
		if len(missing) > 0 {
			logger.WithFields(logrus.Fields{
				"full_name": r.FullName().String(),
				"missing":   missing,
			}).Warn("given-name tokens not in gender dictionary")
		}
		r.Gender = g
		out = append(out, r)
	}
	return out
}

// AddWorkplaceProfile stamps each row with its workplace's position in the
// court/parquet hierarchy. Workplaces missing from the code map are logged
// and left uncoded.
func AddWorkplaceProfile(t table.Table, codes workplace.Codes, logger logrus.FieldLogger) table.Table {
	out := make(table.Table, 0, len(t))
	for _, r := range t {
		code, ok := codes.Profile(r.Workplace)
		if !ok {
			logger.WithField("workplace", r.Workplace).Warn("workplace not in hierarchy code map")
			out = append(out, r)
			continue
		}
		r.AppellateCode = code.Appellate
		r.TribunalCode = code.Tribunal
		r.LocalCode = code.Local
		r.Level = code.Level()
		out = append(out, r)
	}
	return out
}
