// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package logger

import (
	"github.com/coreos/go-systemd/v22/journal"
)

// isStderrConnectedToJournal reports whether stderr is attached to the
// systemd journal. The text handler drops its own timestamps then,
// since the journal stamps every entry itself.
func isStderrConnectedToJournal() bool {
	ok, _ := journal.StderrIsJournalStream()
	return ok
}
