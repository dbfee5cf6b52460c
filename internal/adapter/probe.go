// SPDX-License-Identifier: GPL-3.0-or-later

package adapter

import (
	"errors"
	"fmt"
	"net"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"wifitune/logger"
)

// ProbeConfig configures the ICMP prober.
type ProbeConfig struct {
	Network    string        // "ip", "ip4" or "ip6"
	Privileged bool          // raw sockets vs UDP ping
	Interface  string        // optional source interface
	Timeout    time.Duration // per-probe deadline
}

// NewPingProber returns a Prober that sends a single ICMP echo request
// per Probe call and reports round-trip latency in milliseconds.
func NewPingProber(conf ProbeConfig, log *logger.Logger) Prober {
	var source string
	if conf.Interface != "" {
		if addr, err := interfaceIPv4(conf.Interface); err != nil {
			log.Warningf("error getting interface '%s' IP address: %v", conf.Interface, err)
		} else {
			log.Infof("interface '%s' IP address '%s', will use it as the probe source", conf.Interface, addr)
			source = addr
		}
	}

	network := conf.Network
	if network == "" {
		network = "ip"
	}

	return &pingProber{
		network:    network,
		privileged: conf.Privileged,
		source:     source,
		timeout:    conf.Timeout,
		Logger:     log,
	}
}

type pingProber struct {
	*logger.Logger

	network    string
	privileged bool
	source     string
	timeout    time.Duration
}

func (p *pingProber) Probe(target string) (*ProbeResult, error) {
	pr := probing.New(target)

	pr.SetNetwork(p.network)

	if err := pr.Resolve(); err != nil {
		return nil, fmt.Errorf("DNS lookup '%s': %v", target, err)
	}

	pr.Source = p.source
	pr.RecordRtts = false
	pr.Count = 1
	pr.Timeout = p.timeout
	pr.SetPrivileged(p.privileged)
	pr.SetLogger(nil)

	if err := pr.Run(); err != nil {
		return nil, fmt.Errorf("probing '%s' (ip %s): %v", pr.Addr(), pr.IPAddr(), err)
	}

	stats := pr.Statistics()

	if stats.PacketsRecv == 0 {
		p.Debugf("probe '%s' (ip '%s'): no reply within %s", pr.Addr(), pr.IPAddr(), p.timeout)
		return &ProbeResult{OK: false}, nil
	}

	ms := float64(stats.AvgRtt) / float64(time.Millisecond)

	p.Debugf("probe '%s' (ip '%s'): rtt %.2fms", pr.Addr(), pr.IPAddr(), ms)

	return &ProbeResult{OK: true, LatencyMs: &ms}, nil
}

func interfaceIPv4(ifaceName string) (string, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return "", err
	}

	addresses, err := iface.Addrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addresses {
		if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil {
			return ipnet.IP.To4().String(), nil
		}
	}

	return "", errors.New("no ipv4 address found")
}
