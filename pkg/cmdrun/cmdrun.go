// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmdrun executes external commands with a hard timeout,
// capturing stdout and surfacing a trimmed stderr snippet on failure.
package cmdrun

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"wifitune/logger"
)

const stderrLimit = 8 << 10 // 8 KiB

// Run executes binPath with args and returns its stdout.
// On error the returned error wraps the original one and includes a
// trimmed stderr snippet. Context-related errors are normalized so
// callers can errors.Is(err, context.DeadlineExceeded).
func Run(log *logger.Logger, timeout time.Duration, binPath string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ex := exec.CommandContext(ctx, binPath, args...) // no shell, args passed separately

	// cancelling the context kills only the direct child; a grandchild
	// holding the inherited pipes would keep Output blocked past the
	// deadline unless Wait abandons them
	ex.WaitDelay = time.Second

	log.Debugf("executing: %v", ex)

	var stderr bytes.Buffer
	ex.Stderr = &stderr

	out, err := ex.Output()
	if err != nil {
		s := stderr.String()
		if len(s) > stderrLimit {
			s = s[:stderrLimit] + "… (truncated)"
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}

		return out, fmt.Errorf("'%v': %w (stderr: %s)", ex, err, strings.TrimSpace(s))
	}

	return out, nil
}
