// SPDX-License-Identifier: GPL-3.0-or-later

// Package report reduces capture row sequences into summaries and
// turns a pre/post summary pair into a delta and a verdict. Everything
// here is a pure function of its inputs: rows are never mutated and no
// state is carried between calls.
package report

import (
	"errors"
	"time"

	"github.com/montanaflynn/stats"

	"wifitune/internal/sampling"
)

// SignalStats are computed over all non-null signal readings in a
// capture. Signal is shared across targets (one link read per tick).
type SignalStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TargetSummary reduces one probe target's rows. AvgLatencyMs is the
// mean over successful probes only and is nil when none succeeded.
// LongestFailStreak is the longest contiguous run of failed probes in
// tick order.
type TargetSummary struct {
	LossPct           float64  `json:"lossPct"`
	AvgLatencyMs      *float64 `json:"avgLatencyMs"`
	LongestFailStreak int      `json:"longestFailStreak"`
}

// CaptureSummary is the derived, read-only reduction of one completed
// capture.
type CaptureSummary struct {
	Start       time.Time                `json:"start"`
	End         time.Time                `json:"end"`
	SampleCount int                      `json:"sampleCount"`
	DurationSec float64                  `json:"durationSec"`
	Signal      SignalStats              `json:"signal"`
	PerTarget   map[string]TargetSummary `json:"perTarget"`
}

// SummaryOptions tune row reduction. StreakGap resolves streak
// semantics across missing ticks: when positive, an inter-row gap
// larger than StreakGap breaks a failure streak; when zero, only
// sequence order counts.
type SummaryOptions struct {
	StreakGap time.Duration
}

// Summarize reduces rows (in capture order) into a CaptureSummary.
func Summarize(rows []*sampling.SampleRow, opts SummaryOptions) (*CaptureSummary, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to summarize")
	}

	summary := &CaptureSummary{
		Start:     rows[0].Timestamp,
		End:       rows[0].Timestamp,
		PerTarget: make(map[string]TargetSummary),
	}

	var signal []float64

	type targetAcc struct {
		rows      int
		failed    int
		latencies []float64
		streak    int
		longest   int
		prevTS    time.Time
	}
	accs := make(map[string]*targetAcc)
	var order []string

	for _, row := range rows {
		summary.SampleCount++
		if row.Timestamp.Before(summary.Start) {
			summary.Start = row.Timestamp
		}
		if row.Timestamp.After(summary.End) {
			summary.End = row.Timestamp
		}
		if row.SignalPercent != nil {
			signal = append(signal, *row.SignalPercent)
		}

		acc, ok := accs[row.ProbeTarget]
		if !ok {
			acc = &targetAcc{}
			accs[row.ProbeTarget] = acc
			order = append(order, row.ProbeTarget)
		}

		if acc.rows > 0 && opts.StreakGap > 0 && row.Timestamp.Sub(acc.prevTS) > opts.StreakGap {
			// missing ticks break streak continuity
			acc.streak = 0
		}
		acc.rows++
		acc.prevTS = row.Timestamp

		if row.ProbeOK {
			acc.streak = 0
			if row.ProbeLatencyMs != nil {
				acc.latencies = append(acc.latencies, *row.ProbeLatencyMs)
			}
		} else {
			acc.failed++
			acc.streak++
			if acc.streak > acc.longest {
				acc.longest = acc.streak
			}
		}
	}

	summary.DurationSec = summary.End.Sub(summary.Start).Seconds()

	if len(signal) > 0 {
		summary.Signal.Avg, _ = stats.Mean(signal)
		summary.Signal.Min, _ = stats.Min(signal)
		summary.Signal.Max, _ = stats.Max(signal)
	}

	for _, target := range order {
		acc := accs[target]

		ts := TargetSummary{
			LossPct:           100 * float64(acc.failed) / float64(acc.rows),
			LongestFailStreak: acc.longest,
		}
		if len(acc.latencies) > 0 {
			avg, _ := stats.Mean(acc.latencies)
			ts.AvgLatencyMs = &avg
		}

		summary.PerTarget[target] = ts
	}

	return summary, nil
}
