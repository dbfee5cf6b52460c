// SPDX-License-Identifier: GPL-3.0-or-later

package sampling

import (
	"errors"
	"fmt"
	"time"

	"wifitune/internal/adapter"
	"wifitune/logger"
)

// State is the sampler lifecycle: Idle -> Running -> Complete.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateComplete
)

// Clock abstracts wall-clock reads and sleeping so the loop can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Sampler drives the capture loop. The loop is single-threaded and
// cooperative: Run blocks its caller for the whole configured duration
// and no tick overlaps another. One Sampler run owns its sink
// exclusively.
type Sampler struct {
	*logger.Logger

	link   adapter.LinkReader
	prober adapter.Prober
	clock  Clock

	state State
}

func New(link adapter.LinkReader, prober adapter.Prober, log *logger.Logger) *Sampler {
	return &Sampler{
		Logger: log,
		link:   link,
		prober: prober,
		clock:  realClock{},
	}
}

func (s *Sampler) State() State { return s.state }

// Run executes ticks at the fixed interval until elapsed time reaches
// duration, appending one row per (tick, target). Probe and link read
// failures are recorded as nil fields and never abort the loop; only a
// sink append failure is fatal, since rows could no longer be made
// durable. Returns the number of rows appended.
func (s *Sampler) Run(sink RowSink, interval, duration time.Duration, targets []string) (int, error) {
	if s.state != StateIdle {
		return 0, errors.New("sampler has already run")
	}
	if interval <= 0 || duration <= 0 {
		return 0, errors.New("interval and duration must be positive")
	}
	if len(targets) == 0 {
		return 0, errors.New("at least one probe target is required")
	}

	s.state = StateRunning
	defer func() { s.state = StateComplete }()

	s.Infof("sampling every %s for %s against %v", interval, duration, targets)

	var rows int
	start := s.clock.Now()

	for s.clock.Now().Sub(start) < duration {
		n, err := s.tick(sink, targets)
		rows += n
		if err != nil {
			return rows, err
		}

		s.clock.Sleep(interval)
	}

	s.Infof("sampling complete: %d rows", rows)

	return rows, nil
}

func (s *Sampler) tick(sink RowSink, targets []string) (int, error) {
	ts := s.clock.Now()

	// link and IP state are read once and shared across the tick's targets
	link, err := s.link.LinkState()
	if err != nil {
		s.Warningf("tick: reading link state: %v", err)
		link = &adapter.LinkState{}
	}

	ip, err := s.link.IPState()
	if err != nil {
		s.Warningf("tick: reading ip state: %v", err)
		ip = &adapter.IPState{}
	}

	var rows int

	for _, target := range targets {
		row := &SampleRow{
			Timestamp:     ts,
			SSID:          link.SSID,
			BSSID:         link.BSSID,
			Channel:       link.Channel,
			RadioType:     link.RadioType,
			SignalPercent: link.SignalPercent,
			TxRateMbps:    link.TxRateMbps,
			RxRateMbps:    link.RxRateMbps,
			IPv4:          ip.IPv4,
			GatewayV4:     ip.GatewayV4,
			ProbeTarget:   target,
		}

		res, err := s.prober.Probe(target)
		if err != nil {
			s.Debugf("tick: probing '%s': %v", target, err)
		} else if res != nil {
			row.ProbeOK = res.OK
			row.ProbeLatencyMs = res.LatencyMs
		}

		if err := sink.Append(row); err != nil {
			return rows, fmt.Errorf("appending sample row: %w", err)
		}
		rows++
	}

	return rows, nil
}
