// SPDX-License-Identifier: GPL-3.0-or-later

// Package adapter defines the capability boundary between the tuning
// core and the host's wireless adapter: property read/write, link and
// IP state reads, and reachability probing. Implementations shell out
// to platform tooling (PowerShell/netsh on windows, iw/ip on linux).
package adapter

// Property is a single driver-exposed advanced setting. ValidValues is
// the discrete set of display values the driver accepts; it may be
// empty when the driver does not enumerate one.
type Property struct {
	DisplayName  string   `json:"displayName"`
	DisplayValue string   `json:"displayValue"`
	ValidValues  []string `json:"validValues,omitempty"`
}

// LinkState is a point-in-time view of the wireless link. Every field
// is optional: drivers routinely omit values, and a disconnected
// adapter reports none at all.
type LinkState struct {
	SSID          *string  `json:"ssid"`
	BSSID         *string  `json:"bssid"`
	Channel       *int     `json:"channel"`
	RadioType     *string  `json:"radioType"`
	SignalPercent *float64 `json:"signalPercent"`
	TxRateMbps    *float64 `json:"txRateMbps"`
	RxRateMbps    *float64 `json:"rxRateMbps"`
}

// IPState is the adapter's current IPv4 addressing. Partial is valid
// (e.g. no default gateway while reassociating).
type IPState struct {
	IPv4      *string `json:"ipv4"`
	GatewayV4 *string `json:"gatewayV4"`
}

// ProbeResult is the outcome of a single reachability probe.
// LatencyMs is nil unless the probe succeeded.
type ProbeResult struct {
	OK        bool     `json:"ok"`
	LatencyMs *float64 `json:"latencyMs"`
}

// PropertyStore reads and writes adapter advanced properties and
// power-management flags, and can bounce the adapter.
type PropertyStore interface {
	// Properties returns every advanced property the driver exposes.
	Properties() ([]Property, error)
	// Property returns a single property by display name.
	Property(displayName string) (*Property, error)
	// SetProperty writes displayValue to the named property.
	SetProperty(displayName, displayValue string) error
	// PowerFlags returns the power-management flag set. The exposed
	// set varies by driver; partial or empty is valid.
	PowerFlags() (map[string]string, error)
	// SetEnabled enables or disables the adapter.
	SetEnabled(enabled bool) error
}

// LinkReader reads current link and IP state.
type LinkReader interface {
	LinkState() (*LinkState, error)
	IPState() (*IPState, error)
}

// Prober sends one reachability probe to target.
type Prober interface {
	Probe(target string) (*ProbeResult, error)
}
