// SPDX-License-Identifier: GPL-3.0-or-later

package tuning

// Setting is one desired logical value in a tuning profile. Value is
// matched against the driver's valid display values with ResolveValue,
// so it may be a fragment like "5GHz" or "Highest".
type Setting struct {
	Property string `yaml:"property" json:"property"`
	Value    string `yaml:"value" json:"value"`
	// WirelessMode marks the wireless-mode choice, which changes the
	// PHY standard the adapter negotiates. It is applied only when the
	// caller explicitly forces it.
	WirelessMode bool `yaml:"wireless_mode,omitempty" json:"wirelessMode,omitempty"`
}

// Profile is the fixed, ordered list of settings applied during one
// optimization pass. Order matters: changes are applied first to last
// and rolled back last to first.
type Profile []Setting

// DefaultProfile tunes a client adapter for throughput and latency on
// a modern dual-band network.
func DefaultProfile() Profile {
	return Profile{
		{Property: "Preferred Band", Value: "5GHz band"},
		{Property: "Channel Width for 5GHz", Value: "Auto"},
		{Property: "Power Saving Mode", Value: "Off"},
		{Property: "MIMO Power Save Mode", Value: "No SMPS"},
		{Property: "Roaming Aggressiveness", Value: "Lowest"},
		{Property: "Transmit Power", Value: "Highest"},
		{Property: "Wireless Mode", Value: "ax", WirelessMode: true},
	}
}
