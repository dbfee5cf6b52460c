// SPDX-License-Identifier: GPL-3.0-or-later

package confopt

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDuration_MarshalYAML(t *testing.T) {
	tests := map[string]struct {
		d    Duration
		want string
	}{
		"1 second":    {d: Duration(time.Second), want: "1"},
		"1.5 seconds": {d: Duration(time.Second + time.Millisecond*500), want: "1.5"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			bs, err := yaml.Marshal(&test.d)
			require.NoError(t, err)

			assert.Equal(t, test.want, strings.TrimSpace(string(bs)))
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := map[string]struct {
		input string
		want  Duration
	}{
		"duration string": {input: "interval: 300ms", want: Duration(time.Millisecond * 300)},
		"integer seconds": {input: "interval: 5", want: Duration(time.Second * 5)},
		"float seconds":   {input: "interval: 1.5", want: Duration(time.Millisecond * 1500)},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var cfg struct {
				Interval Duration `yaml:"interval"`
			}

			require.NoError(t, yaml.Unmarshal([]byte(test.input), &cfg))
			assert.Equal(t, test.want, cfg.Interval)
		})
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Duration
		wantErr bool
	}{
		"duration string": {input: `{"interval":"2s"}`, want: Duration(time.Second * 2)},
		"integer seconds": {input: `{"interval":10}`, want: Duration(time.Second * 10)},
		"garbage":         {input: `{"interval":"not a duration"}`, wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var cfg struct {
				Interval Duration `json:"interval"`
			}

			err := json.Unmarshal([]byte(test.input), &cfg)
			if test.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, test.want, cfg.Interval)
			}
		})
	}
}
