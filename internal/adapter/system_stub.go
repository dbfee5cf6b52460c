// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !linux && !windows

package adapter

import (
	"fmt"
	"runtime"

	"wifitune/logger"
)

func newSystem(_ SystemConfig, _ *logger.Logger) (*System, error) {
	return nil, fmt.Errorf("adapter control is not supported on %s", runtime.GOOS)
}
