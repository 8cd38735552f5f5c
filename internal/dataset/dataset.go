// Package dataset provides in-memory operations over panel observations
// keyed by country and period: joining series, sample covariance, and
// within-country growth rates. Fetching and rendering live elsewhere.
package dataset

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
)

// Observation is a single value for one country in one period.
type Observation struct {
	Geo   string  `json:"geo"`
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Table is a named series of observations, one column of the eventual panel.
type Table struct {
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
}

// Row is a merged panel row holding one value per source table, keyed by the
// table name. Missing values are NaN.
type Row struct {
	Geo    string             `json:"geo"`
	Time   string             `json:"time"`
	Values map[string]float64 `json:"values"`
}

// Join methods for Merge.
const (
	JoinInner = "inner"
	JoinLeft  = "left"
	JoinOuter = "outer"
)

type key struct {
	geo, time string
}

// Merge joins tables on (geo, time) into panel rows, folding each table into
// the accumulated panel left to right. Rows are returned sorted by country
// then period.
func Merge(logger *zap.Logger, how string, tables ...Table) ([]Row, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch how {
	case JoinInner, JoinLeft, JoinOuter:
	default:
		return nil, fmt.Errorf("unsupported join method %q", how)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("merge requires at least one table")
	}

	panel := make(map[key]map[string]float64)
	for _, obs := range tables[0].Observations {
		panel[key{obs.Geo, obs.Time}] = map[string]float64{tables[0].Name: obs.Value}
	}

	for _, table := range tables[1:] {
		incoming := make(map[key]float64, len(table.Observations))
		for _, obs := range table.Observations {
			incoming[key{obs.Geo, obs.Time}] = obs.Value
		}

		switch how {
		case JoinInner:
			for k, values := range panel {
				v, ok := incoming[k]
				if !ok {
					delete(panel, k)
					continue
				}
				values[table.Name] = v
			}
		case JoinLeft:
			for k, values := range panel {
				if v, ok := incoming[k]; ok {
					values[table.Name] = v
				}
			}
		case JoinOuter:
			for k, v := range incoming {
				values, ok := panel[k]
				if !ok {
					values = make(map[string]float64)
					panel[k] = values
				}
				values[table.Name] = v
			}
		}
	}

	names := make([]string, len(tables))
	for i, table := range tables {
		names[i] = table.Name
	}

	rows := make([]Row, 0, len(panel))
	for k, values := range panel {
		for _, name := range names {
			if _, ok := values[name]; !ok {
				values[name] = math.NaN()
			}
		}
		rows = append(rows, Row{Geo: k.geo, Time: k.time, Values: values})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Geo != rows[j].Geo {
			return rows[i].Geo < rows[j].Geo
		}
		return rows[i].Time < rows[j].Time
	})

	logger.Debug("merged tables into panel",
		zap.String("op", "dataset.Merge"),
		zap.String("how", how),
		zap.Int("tables", len(tables)),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// Covariance returns the sample covariance (n-1 denominator) of two equally
// long series.
func Covariance(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("covariance requires equal lengths, got %d and %d", len(x), len(y))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("covariance requires at least 2 observations, got %d", len(x))
	}

	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(len(x))
	meanY /= float64(len(y))

	var sum float64
	for i := range x {
		sum += (x[i] - meanX) * (y[i] - meanY)
	}
	return sum / float64(len(x)-1), nil
}

// GrowthRates returns period-over-period percent changes within each country,
// with NaN for the first period of each country. Input order is preserved in
// the sense that output is sorted by country then period.
func GrowthRates(observations []Observation) []Observation {
	sorted := make([]Observation, len(observations))
	copy(sorted, observations)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Geo != sorted[j].Geo {
			return sorted[i].Geo < sorted[j].Geo
		}
		return sorted[i].Time < sorted[j].Time
	})

	growth := make([]Observation, len(sorted))
	for i, obs := range sorted {
		value := math.NaN()
		if i > 0 && sorted[i-1].Geo == obs.Geo {
			value = (obs.Value/sorted[i-1].Value - 1) * 100
		}
		growth[i] = Observation{Geo: obs.Geo, Time: obs.Time, Value: value}
	}
	return growth
}

// CodeName resolves a country code to its display name, returning the empty
// string for unknown codes.
func CodeName(code string, names map[string]string) string {
	return names[code]
}
