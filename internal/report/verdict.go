// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Verdict classifies a pre/post comparison.
type Verdict string

const (
	VerdictImproved Verdict = "improved"
	VerdictWorsened Verdict = "worsened"
	VerdictMixed    Verdict = "mixed"
	VerdictNoChange Verdict = "no_change"
)

// Thresholds are the minimum delta magnitudes that count as a real
// change on each axis. They are policy, not correctness: tune them per
// environment.
type Thresholds struct {
	LossPct   float64 `yaml:"loss_pct" json:"lossPct"`
	LatencyMs float64 `yaml:"latency_ms" json:"latencyMs"`
	SignalPct float64 `yaml:"signal_pct" json:"signalPct"`
}

// DefaultThresholds ignore loss swings under 2 points, latency swings
// under 10ms and signal swings under 5 points.
func DefaultThresholds() Thresholds {
	return Thresholds{LossPct: 2, LatencyMs: 10, SignalPct: 5}
}

// Classify derives the verdict from the two summaries. Per axis
// (loss, latency, signal) the deltas aggregated across targets are
// compared against the thresholds; axes within threshold are neutral.
// All favorable axes yield Improved, all unfavorable Worsened, a mix
// of both Mixed, and no decisive axis at all NoChange.
func Classify(pre, post *CaptureSummary, th Thresholds) Verdict {
	delta := Delta(pre, post)

	var lossDeltas, latencyDeltas []float64
	for _, td := range delta.PerTargetDelta {
		lossDeltas = append(lossDeltas, td.LossPctDelta)
		if td.AvgLatencyDelta != nil {
			latencyDeltas = append(latencyDeltas, *td.AvgLatencyDelta)
		}
	}

	var favorable, unfavorable int

	// loss and latency improve downward
	score(mean(lossDeltas), th.LossPct, &unfavorable, &favorable)
	score(mean(latencyDeltas), th.LatencyMs, &unfavorable, &favorable)
	// signal improves upward
	score(delta.SignalDelta.Avg, th.SignalPct, &favorable, &unfavorable)

	switch {
	case favorable == 0 && unfavorable == 0:
		return VerdictNoChange
	case unfavorable == 0:
		return VerdictImproved
	case favorable == 0:
		return VerdictWorsened
	}
	return VerdictMixed
}

// score counts v against threshold, incrementing up when v exceeds it
// and down when v falls below its negation.
func score(v, threshold float64, up, down *int) {
	switch {
	case v > threshold:
		*up++
	case v < -threshold:
		*down++
	}
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Report is the persisted comparison artifact handed to external
// renderers.
type Report struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Thresholds  Thresholds      `json:"thresholds"`
	Pre         *CaptureSummary `json:"pre"`
	Post        *CaptureSummary `json:"post"`
	Delta       *DeltaReport    `json:"delta"`
	Verdict     Verdict         `json:"verdict"`
}

// Compare builds the full comparison record for two summaries.
func Compare(pre, post *CaptureSummary, th Thresholds) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		Thresholds:  th,
		Pre:         pre,
		Post:        post,
		Delta:       Delta(pre, post),
		Verdict:     Classify(pre, post, th),
	}
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	bs, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %v", err)
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("writing report '%s': %v", path, err)
	}
	return nil
}
