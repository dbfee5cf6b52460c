// SPDX-License-Identifier: GPL-3.0-or-later

package adapter

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dataIwLinkConnected, _    = os.ReadFile("testdata/iw_link_connected.txt")
	dataIwLinkNotConnected, _ = os.ReadFile("testdata/iw_link_not_connected.txt")
	dataIwInfo, _             = os.ReadFile("testdata/iw_info.txt")
)

func Test_iwTestDataIsValid(t *testing.T) {
	for name, data := range map[string][]byte{
		"dataIwLinkConnected":    dataIwLinkConnected,
		"dataIwLinkNotConnected": dataIwLinkNotConnected,
		"dataIwInfo":             dataIwInfo,
	} {
		require.NotNil(t, data, name)
	}
}

func Test_parseIwLink(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		state := parseIwLink(dataIwLinkConnected)

		require.NotNil(t, state.SSID)
		assert.Equal(t, "HomeNet", *state.SSID)
		require.NotNil(t, state.BSSID)
		assert.Equal(t, "a0:b1:c2:d3:e4:f5", *state.BSSID)
		require.NotNil(t, state.Channel)
		assert.Equal(t, 36, *state.Channel)
		require.NotNil(t, state.SignalPercent)
		assert.Equal(t, 90.0, *state.SignalPercent)
		require.NotNil(t, state.TxRateMbps)
		assert.Equal(t, 780.0, *state.TxRateMbps)
		require.NotNil(t, state.RxRateMbps)
		assert.Equal(t, 866.7, *state.RxRateMbps)
		require.NotNil(t, state.RadioType)
		assert.Equal(t, "802.11ac", *state.RadioType)
	})

	t.Run("not connected", func(t *testing.T) {
		state := parseIwLink(dataIwLinkNotConnected)

		assert.Nil(t, state.SSID)
		assert.Nil(t, state.BSSID)
		assert.Nil(t, state.Channel)
		assert.Nil(t, state.SignalPercent)
	})
}

func Test_parseIwPowerSave(t *testing.T) {
	tests := map[string]struct {
		input  string
		want   string
		wantOK bool
	}{
		"on":      {input: "Power save: on\n", want: "On", wantOK: true},
		"off":     {input: "Power save: off\n", want: "Off", wantOK: true},
		"garbage": {input: "command failed", wantOK: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v, ok := parseIwPowerSave([]byte(test.input))

			assert.Equal(t, test.wantOK, ok)
			assert.Equal(t, test.want, v)
		})
	}
}

func Test_parseIwTxPowerDBM(t *testing.T) {
	v, ok := parseIwTxPowerDBM(dataIwInfo)

	require.True(t, ok)
	assert.Equal(t, 22.0, v)
}

func Test_parseIPAddr(t *testing.T) {
	resp := []byte("3: wlan0    inet 192.168.1.23/24 brd 192.168.1.255 scope global dynamic noprefixroute wlan0\\       valid_lft 85649sec preferred_lft 85649sec\n")

	v, ok := parseIPAddr(resp)

	require.True(t, ok)
	assert.Equal(t, "192.168.1.23", v)
}

func Test_parseIPRoute(t *testing.T) {
	resp := []byte("default via 192.168.1.1 proto dhcp src 192.168.1.23 metric 600\n")

	v, ok := parseIPRoute(resp)

	require.True(t, ok)
	assert.Equal(t, "192.168.1.1", v)
}

func Test_freqToChannel(t *testing.T) {
	tests := map[string]struct {
		freq int
		want int
	}{
		"2.4GHz ch1":  {freq: 2412, want: 1},
		"2.4GHz ch11": {freq: 2462, want: 11},
		"2.4GHz ch14": {freq: 2484, want: 14},
		"5GHz ch36":   {freq: 5180, want: 36},
		"5GHz ch149":  {freq: 5745, want: 149},
		"6GHz ch1":    {freq: 5955, want: 1},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, freqToChannel(test.freq))
		})
	}
}

func Test_dbmToPercent(t *testing.T) {
	assert.Equal(t, 0.0, dbmToPercent(-110))
	assert.Equal(t, 50.0, dbmToPercent(-75))
	assert.Equal(t, 100.0, dbmToPercent(-40))
}
