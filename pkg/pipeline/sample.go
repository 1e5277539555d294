package pipeline

import (
	"math"

	"github.com/parcurs-ro/parcurs/pkg/table"
	"github.com/sirupsen/logrus"
)

// SampleYears reduces a person-month table to a person-year table by keeping,
// for each person-year, the observation from the anchor month. When that
// month is missing the nearest available month is used instead, the lower
// month on ties; a clerk skipping April must not make someone look retired.
//
// Same-named people working simultaneously are not disentangled here, so if
// a person-year holds several rows for the sampled month, all are kept.
func SampleYears(t table.Table, anchorMonth int, logger logrus.FieldLogger) table.Table {
	t = append(table.Table(nil), t...)
	table.SortByNameTime(t, true)

	var out table.Table
	var sampledMonths []int

	flush := func(group table.Table) {
		if len(group) == 0 {
			return
		}
		byMonth := map[int]table.Table{}
		months := []int{}
		for _, r := range group {
			if _, ok := byMonth[r.Month]; !ok {
				months = append(months, r.Month)
			}
			byMonth[r.Month] = append(byMonth[r.Month], r)
		}

		chosen := anchorMonth
		if _, ok := byMonth[anchorMonth]; !ok {
			best, bestDist := 0, math.MaxInt
			// months are in ascending order, so ties resolve to the lower one
			for _, m := range months {
				if d := abs(anchorMonth - m); d < bestDist {
					best, bestDist = m, d
				}
			}
			chosen = best
		}

		for _, r := range byMonth[chosen] {
			r.Month = 0
			out = append(out, r)
		}
		sampledMonths = append(sampledMonths, chosen)
	}

	var group table.Table
	for _, r := range t {
		if len(group) > 0 {
			prev := group[0]
			if r.FullName() != prev.FullName() || r.Year != prev.Year {
				flush(group)
				group = group[:0]
			}
		}
		group = append(group, r)
	}
	flush(group)

	mean, stdev := meanStdev(sampledMonths)
	logger.WithFields(logrus.Fields{
		"mean_month":  math.Round(mean*100) / 100,
		"stdev_month": math.Round(stdev*100) / 100,
	}).Info("sampled person-months into person-years")

	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func meanStdev(xs []int) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += float64(x)
	}
	mean := sum / float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, x := range xs {
		d := float64(x) - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
