// SPDX-License-Identifier: GPL-3.0-or-later

// Package sampling runs the fixed-cadence link/reachability capture:
// once per tick it reads link and IP state, probes every configured
// target once, and appends one row per (tick, target) to a sink.
package sampling

import "time"

// SampleRow is one appended observation. Link fields are shared across
// the targets of a tick (link state is read once per tick, not per
// target). Nil means the value could not be read; failed reads produce
// rows with nil fields, never dropped rows.
type SampleRow struct {
	Timestamp      time.Time `csv:"timestamp" json:"timestamp"`
	SSID           *string   `csv:"ssid" json:"ssid"`
	BSSID          *string   `csv:"bssid" json:"bssid"`
	Channel        *int      `csv:"channel" json:"channel"`
	RadioType      *string   `csv:"radio_type" json:"radioType"`
	SignalPercent  *float64  `csv:"signal_percent" json:"signalPercent"`
	TxRateMbps     *float64  `csv:"tx_rate_mbps" json:"txRateMbps"`
	RxRateMbps     *float64  `csv:"rx_rate_mbps" json:"rxRateMbps"`
	IPv4           *string   `csv:"ipv4" json:"ipv4"`
	GatewayV4      *string   `csv:"gateway_v4" json:"gatewayV4"`
	ProbeTarget    string    `csv:"probe_target" json:"probeTarget"`
	ProbeOK        bool      `csv:"probe_ok" json:"probeOk"`
	ProbeLatencyMs *float64  `csv:"probe_latency_ms" json:"probeLatencyMs"`
}

// RowSink receives rows one at a time, in order. Implementations must
// make each appended row durable before returning (the sampler relies
// on that to preserve partial captures on a crash).
type RowSink interface {
	Append(row *SampleRow) error
}
