// Package analysis summarizes synthesized water series for the API and
// the spreadsheet export.
package analysis

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"waterglobe/domain/water"
)

// ReserveSummary describes the reserve random walk.
type ReserveSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
	// Slope is the least-squares trend in km³ per year.
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Change    int     `json:"change"`
}

// UsageSummary describes the three sector series.
type UsageSummary struct {
	AgriMean float64 `json:"agriMean"`
	DomMean  float64 `json:"domMean"`
	IndMean  float64 `json:"indMean"`
	// TotalDeviation is agri+dom+ind-100 per year; the sectors are not normalized.
	TotalDeviation  []int `json:"totalDeviation"`
	MaxAbsDeviation int   `json:"maxAbsDeviation"`
}

// Summary is the statistical digest of one series.
type Summary struct {
	Years   [2]int         `json:"years"`
	Reserve ReserveSummary `json:"reserve"`
	Usage   UsageSummary   `json:"usage"`
}

// Summarize computes the digest. An empty series yields a zero summary.
func Summarize(s water.Series) Summary {
	var out Summary
	if len(s.Years) == 0 || len(s.Reserve) != len(s.Years) {
		return out
	}
	out.Years = [2]int{s.Years[0], s.Years[len(s.Years)-1]}

	reserve := toFloats(s.Reserve)
	out.Reserve.Mean, _ = stats.Mean(reserve)
	out.Reserve.StdDev, _ = stats.StandardDeviation(reserve)
	out.Reserve.Min, _ = stats.Min(reserve)
	out.Reserve.Max, _ = stats.Max(reserve)
	out.Reserve.Median, _ = stats.Median(reserve)
	out.Reserve.Q25, _ = stats.Percentile(reserve, 25)
	out.Reserve.Q75, _ = stats.Percentile(reserve, 75)
	out.Reserve.Change = s.Reserve[len(s.Reserve)-1] - s.Reserve[0]
	out.Reserve.Intercept, out.Reserve.Slope = stat.LinearRegression(toFloats(s.Years), reserve, nil, false)

	out.Usage.AgriMean, _ = stats.Mean(toFloats(s.Usage.Agri))
	out.Usage.DomMean, _ = stats.Mean(toFloats(s.Usage.Dom))
	out.Usage.IndMean, _ = stats.Mean(toFloats(s.Usage.Ind))

	n := min(len(s.Usage.Agri), len(s.Usage.Dom), len(s.Usage.Ind))
	out.Usage.TotalDeviation = make([]int, n)
	for i := 0; i < n; i++ {
		dev := s.UsageTotal(i) - 100
		out.Usage.TotalDeviation[i] = dev
		if dev < 0 {
			dev = -dev
		}
		out.Usage.MaxAbsDeviation = max(out.Usage.MaxAbsDeviation, dev)
	}

	return out
}

func toFloats(v []int) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
