// SPDX-License-Identifier: GPL-3.0-or-later

package adapter

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// parseIwLink parses `iw dev <iface> link` output. A disconnected
// interface ("Not connected.") yields an empty LinkState, not an error.
func parseIwLink(resp []byte) *LinkState {
	var state LinkState

	sc := bufio.NewScanner(bytes.NewReader(resp))

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		switch {
		case strings.HasPrefix(line, "Connected to"):
			parts := strings.Fields(line)
			if len(parts) >= 3 {
				bssid := strings.ToLower(parts[2])
				state.BSSID = &bssid
			}
		case strings.HasPrefix(line, "SSID:"):
			if v := strings.TrimSpace(strings.TrimPrefix(line, "SSID:")); v != "" {
				state.SSID = &v
			}
		case strings.HasPrefix(line, "freq:"):
			if v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "freq:")), 64); err == nil {
				ch := freqToChannel(int(v))
				state.Channel = &ch
			}
		case strings.HasPrefix(line, "signal:"):
			if v, err := firstFloat(strings.TrimPrefix(line, "signal:")); err == nil {
				pct := dbmToPercent(v)
				state.SignalPercent = &pct
			}
		case strings.HasPrefix(line, "tx bitrate:"):
			if v, err := firstFloat(strings.TrimPrefix(line, "tx bitrate:")); err == nil {
				state.TxRateMbps = &v
			}
			if rt := radioTypeFromBitrate(line); rt != "" && state.RadioType == nil {
				state.RadioType = &rt
			}
		case strings.HasPrefix(line, "rx bitrate:"):
			if v, err := firstFloat(strings.TrimPrefix(line, "rx bitrate:")); err == nil {
				state.RxRateMbps = &v
			}
			if rt := radioTypeFromBitrate(line); rt != "" && state.RadioType == nil {
				state.RadioType = &rt
			}
		}
	}

	return &state
}

// parseIwPowerSave parses `iw dev <iface> get power_save` ("Power save: on").
func parseIwPowerSave(resp []byte) (string, bool) {
	line := strings.TrimSpace(string(resp))

	_, v, ok := strings.Cut(line, ":")
	if !ok {
		return "", false
	}

	switch strings.TrimSpace(v) {
	case "on":
		return "On", true
	case "off":
		return "Off", true
	}
	return "", false
}

// parseIwTxPowerDBM extracts the txpower value from `iw dev <iface> info`.
func parseIwTxPowerDBM(resp []byte) (float64, bool) {
	sc := bufio.NewScanner(bytes.NewReader(resp))

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "txpower") {
			continue
		}
		if v, err := firstFloat(strings.TrimPrefix(line, "txpower")); err == nil {
			return v, true
		}
	}
	return 0, false
}

// parseIPAddr parses `ip -4 -o addr show dev <iface>` output.
func parseIPAddr(resp []byte) (string, bool) {
	fields := strings.Fields(string(resp))

	for i, f := range fields {
		if f != "inet" || i+1 >= len(fields) {
			continue
		}
		addr, _, _ := strings.Cut(fields[i+1], "/")
		return addr, addr != ""
	}
	return "", false
}

// parseIPRoute parses `ip -4 route show default` output
// ("default via 192.168.1.1 dev wlan0 ...").
func parseIPRoute(resp []byte) (string, bool) {
	fields := strings.Fields(string(resp))

	for i, f := range fields {
		if f == "via" && i+1 < len(fields) {
			return fields[i+1], true
		}
	}
	return "", false
}

func radioTypeFromBitrate(line string) string {
	switch {
	case strings.Contains(line, "EHT-MCS"):
		return "802.11be"
	case strings.Contains(line, "HE-MCS"):
		return "802.11ax"
	case strings.Contains(line, "VHT-MCS"):
		return "802.11ac"
	case strings.Contains(line, "MCS"):
		return "802.11n"
	}
	return ""
}

func freqToChannel(freqMHz int) int {
	switch {
	case freqMHz == 2484:
		return 14
	case freqMHz >= 2412 && freqMHz < 2484:
		return (freqMHz - 2407) / 5
	case freqMHz >= 5955:
		return (freqMHz - 5950) / 5
	case freqMHz >= 5000:
		return (freqMHz - 5000) / 5
	}
	return 0
}

// dbmToPercent maps RSSI in dBm onto the 0-100 quality scale drivers
// commonly report (-100 dBm => 0%, -50 dBm => 100%).
func dbmToPercent(dbm float64) float64 {
	pct := 2 * (dbm + 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func firstFloat(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(fields[0], 64)
}
