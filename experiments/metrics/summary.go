package metrics

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// AlgorithmStats describes the moves made by one algorithm at one depth.
type AlgorithmStats struct {
	Algorithm   string
	Depth       int
	Moves       int
	MeanNodes   float64
	StdNodes    float64
	MedianNodes float64
	MeanTime    float64 // Seconds
	StdTime     float64
	MedianTime  float64
}

// Summarize groups moves by algorithm and depth, ordered by algorithm then depth.
func Summarize(moves []MoveRecord) []AlgorithmStats {
	type key struct {
		algorithm string
		depth     int
	}
	groups := lo.GroupBy(moves, func(m MoveRecord) key {
		return key{m.Algorithm, m.Depth}
	})

	summaries := make([]AlgorithmStats, 0, len(groups))
	for k, group := range groups {
		nodes := lo.Map(group, func(m MoveRecord, _ int) float64 { return float64(m.NodesExpanded) })
		times := lo.Map(group, func(m MoveRecord, _ int) float64 { return m.Duration.Seconds() })

		s := AlgorithmStats{Algorithm: k.algorithm, Depth: k.depth, Moves: len(group)}
		s.MeanNodes, s.StdNodes, s.MedianNodes = describe(nodes)
		s.MeanTime, s.StdTime, s.MedianTime = describe(times)
		summaries = append(summaries, s)
	}

	slices.SortFunc(summaries, func(a, b AlgorithmStats) int {
		return cmp.Or(cmp.Compare(a.Algorithm, b.Algorithm), cmp.Compare(a.Depth, b.Depth))
	})
	return summaries
}

// describe returns the mean, sample standard deviation and median of x.
// The standard deviation of a single value is 0.
func describe(x []float64) (mean, std, median float64) {
	if len(x) == 0 {
		return 0, 0, 0
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	mean, std = stat.MeanStdDev(sorted, nil)
	if math.IsNaN(std) {
		std = 0
	}
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return mean, std, median
}

// WinRateInterval returns a normal approximation confidence interval for the
// share of wins among games. confidence is in percent, e.g. 95.
func WinRateInterval(wins, games int, confidence float64) (low, high float64) {
	if games == 0 {
		return 0, 0
	}
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	z := dist.Quantile((1 + confidence/100) / 2)
	p := float64(wins) / float64(games)
	margin := z * math.Sqrt(p*(1-p)/float64(games))
	return max(0, p-margin), min(1, p+margin)
}

// FprintSummary writes a table of summaries.
func FprintSummary(w io.Writer, summaries []AlgorithmStats) error {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-12s%-7s%-8s%-14s%-14s%-14s%-12s\n", "Algorithm", "Depth", "Moves", "Mean nodes", "Std nodes", "Median nodes", "Mean time")
	for _, s := range summaries {
		fmt.Fprintf(&ss, "%-12s%-7d%-8d%-14.1f%-14.1f%-14.1f%-12.4f\n",
			s.Algorithm, s.Depth, s.Moves, s.MeanNodes, s.StdNodes, s.MedianNodes, s.MeanTime)
	}
	_, err := io.WriteString(w, ss.String())
	return err
}

// FprintHistogram draws a text histogram of values with the given number of bins.
func FprintHistogram(w io.Writer, values []float64, bins, width int) error {
	if len(values) == 0 {
		return nil
	}
	h := histogram.Hist(bins, values)
	return histogram.Fprint(w, h, histogram.Linear(width))
}
