// SPDX-License-Identifier: GPL-3.0-or-later

package report

// SignalDelta is post − pre for each signal statistic.
type SignalDelta struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TargetDelta is post − pre for one target. AvgLatencyDelta is nil
// when either side has no successful probes to average.
type TargetDelta struct {
	LossPctDelta           float64  `json:"lossPctDelta"`
	AvgLatencyDelta        *float64 `json:"avgLatencyDelta"`
	LongestFailStreakDelta int      `json:"longestFailStreakDelta"`
}

// DeltaReport compares two summaries. Targets present in only one
// summary contribute no entry: absence, not zero.
type DeltaReport struct {
	SignalDelta    SignalDelta            `json:"signalDelta"`
	PerTargetDelta map[string]TargetDelta `json:"perTargetDelta"`
}

// Delta computes post − pre for every matched field.
func Delta(pre, post *CaptureSummary) *DeltaReport {
	report := &DeltaReport{
		SignalDelta: SignalDelta{
			Avg: post.Signal.Avg - pre.Signal.Avg,
			Min: post.Signal.Min - pre.Signal.Min,
			Max: post.Signal.Max - pre.Signal.Max,
		},
		PerTargetDelta: make(map[string]TargetDelta),
	}

	for target, pr := range pre.PerTarget {
		po, ok := post.PerTarget[target]
		if !ok {
			continue
		}

		td := TargetDelta{
			LossPctDelta:           po.LossPct - pr.LossPct,
			LongestFailStreakDelta: po.LongestFailStreak - pr.LongestFailStreak,
		}
		if pr.AvgLatencyMs != nil && po.AvgLatencyMs != nil {
			d := *po.AvgLatencyMs - *pr.AvgLatencyMs
			td.AvgLatencyDelta = &d
		}

		report.PerTargetDelta[target] = td
	}

	return report
}
