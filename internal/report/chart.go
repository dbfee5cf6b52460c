// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"time"

	"wifitune/internal/sampling"
)

// ChartPoint is one tick of the visualization projection: the shared
// signal reading plus each target's probe latency for that tick.
type ChartPoint struct {
	Timestamp          time.Time           `json:"timestamp"`
	SignalPercent      *float64            `json:"signalPercent"`
	PerTargetLatencyMs map[string]*float64 `json:"perTargetLatencyMs"`
}

// ChartSeries projects rows into per-tick chart points, grouping by
// timestamp in row order. It is pure: the rows are not modified and
// repeated calls yield the same series.
func ChartSeries(rows []*sampling.SampleRow) []ChartPoint {
	var series []ChartPoint
	idx := make(map[time.Time]int)

	for _, row := range rows {
		i, ok := idx[row.Timestamp]
		if !ok {
			i = len(series)
			idx[row.Timestamp] = i
			series = append(series, ChartPoint{
				Timestamp:          row.Timestamp,
				SignalPercent:      row.SignalPercent,
				PerTargetLatencyMs: make(map[string]*float64),
			})
		}

		series[i].PerTargetLatencyMs[row.ProbeTarget] = row.ProbeLatencyMs
	}

	return series
}
