// SPDX-License-Identifier: GPL-3.0-or-later

//go:build windows

package tuning

import "golang.org/x/sys/windows"

func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
