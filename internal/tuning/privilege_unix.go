// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !windows

package tuning

import "os"

func isElevated() bool {
	return os.Geteuid() == 0
}
