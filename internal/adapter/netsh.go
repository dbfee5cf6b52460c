// SPDX-License-Identifier: GPL-3.0-or-later

package adapter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseNetshWlanInterfaces parses `netsh wlan show interfaces` output.
// When ifaceName is not empty only the matching interface section is
// considered, otherwise the first one wins.
func parseNetshWlanInterfaces(resp []byte, ifaceName string) *LinkState {
	var (
		state   LinkState
		inIface bool
		seen    bool
	)

	sc := bufio.NewScanner(bytes.NewReader(resp))

	for sc.Scan() {
		key, value, ok := cutKV(sc.Text())
		if !ok {
			continue
		}

		if strings.EqualFold(key, "Name") {
			if seen && inIface {
				break
			}
			inIface = ifaceName == "" || strings.EqualFold(value, ifaceName)
			seen = seen || inIface
			continue
		}
		if !inIface {
			continue
		}

		switch {
		case strings.EqualFold(key, "SSID"):
			v := value
			state.SSID = &v
		case strings.EqualFold(key, "BSSID"):
			v := strings.ToLower(value)
			state.BSSID = &v
		case strings.EqualFold(key, "Radio type"):
			v := value
			state.RadioType = &v
		case strings.EqualFold(key, "Channel"):
			if v, err := strconv.Atoi(value); err == nil {
				state.Channel = &v
			}
		case strings.EqualFold(key, "Signal"):
			if v, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64); err == nil {
				state.SignalPercent = &v
			}
		case strings.EqualFold(key, "Receive rate (Mbps)"):
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				state.RxRateMbps = &v
			}
		case strings.EqualFold(key, "Transmit rate (Mbps)"):
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				state.TxRateMbps = &v
			}
		}
	}

	return &state
}

func cutKV(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

// parseAdvancedProperties parses `Get-NetAdapterAdvancedProperty |
// ConvertTo-Json` output. ConvertTo-Json emits a bare object instead of
// an array when there is a single element.
func parseAdvancedProperties(resp []byte) ([]Property, error) {
	type psProperty struct {
		DisplayName        string   `json:"DisplayName"`
		DisplayValue       string   `json:"DisplayValue"`
		ValidDisplayValues []string `json:"ValidDisplayValues"`
	}

	var items []psProperty

	if err := json.Unmarshal(resp, &items); err != nil {
		var single psProperty
		if err := json.Unmarshal(resp, &single); err != nil {
			return nil, fmt.Errorf("parsing advanced properties: %v", err)
		}
		items = append(items, single)
	}

	var props []Property
	for _, it := range items {
		if it.DisplayName == "" {
			continue
		}
		props = append(props, Property{
			DisplayName:  it.DisplayName,
			DisplayValue: it.DisplayValue,
			ValidValues:  it.ValidDisplayValues,
		})
	}

	return props, nil
}

// parsePowerFlags parses `Get-NetAdapterPowerManagement | ConvertTo-Json`
// output into a flat flag map. Non-scalar values are dropped.
func parsePowerFlags(resp []byte) (map[string]string, error) {
	var raw map[string]any

	if err := json.Unmarshal(resp, &raw); err != nil {
		return nil, fmt.Errorf("parsing power management flags: %v", err)
	}

	flags := make(map[string]string)
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			flags[k] = val
		case bool:
			flags[k] = strconv.FormatBool(val)
		case float64:
			flags[k] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}

	return flags, nil
}

// firstLine returns the first non-empty line of a command's output.
func firstLine(resp []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(resp))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, true
		}
	}
	return "", false
}
