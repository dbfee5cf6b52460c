// SPDX-License-Identifier: GPL-3.0-or-later

package adapter

import (
	"time"

	"wifitune/logger"
)

// System bundles the platform capabilities for one adapter.
type System struct {
	Store PropertyStore
	Link  LinkReader
}

// SystemConfig selects the adapter and the platform tool paths.
// Zero-value paths fall back to platform defaults.
type SystemConfig struct {
	Interface      string
	IwPath         string // linux
	IPPath         string // linux
	PowerShellPath string // windows
	NetshPath      string // windows
	Timeout        time.Duration
}

// NewSystem returns the platform implementation of the adapter
// capabilities for the configured interface.
func NewSystem(conf SystemConfig, log *logger.Logger) (*System, error) {
	if conf.Timeout <= 0 {
		conf.Timeout = time.Second * 10
	}
	return newSystem(conf, log)
}
