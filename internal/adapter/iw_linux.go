// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package adapter

import (
	"fmt"
	"strings"
	"time"

	"wifitune/logger"
	"wifitune/pkg/cmdrun"
)

// Property display names exposed by the linux implementation. The set
// is narrower than what windows drivers expose: only what nl80211
// lets a client station change.
const (
	propPowerSave     = "Power Saving Mode"
	propTransmitPower = "Transmit Power"
)

type linuxCLI interface {
	iwLink() ([]byte, error)
	iwInfo() ([]byte, error)
	iwGetPowerSave() ([]byte, error)
	iwSet(args ...string) error
	ipAddrShow() ([]byte, error)
	ipRouteDefault() ([]byte, error)
	ipLinkSet(up bool) error
}

func newLinuxCLIExec(conf SystemConfig, log *logger.Logger) *linuxCLIExec {
	return &linuxCLIExec{
		iface:   conf.Interface,
		iwPath:  conf.IwPath,
		ipPath:  conf.IPPath,
		timeout: conf.Timeout,
		Logger:  log,
	}
}

type linuxCLIExec struct {
	*logger.Logger

	iface   string
	iwPath  string
	ipPath  string
	timeout time.Duration
}

func (e *linuxCLIExec) iwLink() ([]byte, error) {
	return cmdrun.Run(e.Logger, e.timeout, e.iwPath, "dev", e.iface, "link")
}

func (e *linuxCLIExec) iwInfo() ([]byte, error) {
	return cmdrun.Run(e.Logger, e.timeout, e.iwPath, "dev", e.iface, "info")
}

func (e *linuxCLIExec) iwGetPowerSave() ([]byte, error) {
	return cmdrun.Run(e.Logger, e.timeout, e.iwPath, "dev", e.iface, "get", "power_save")
}

func (e *linuxCLIExec) iwSet(args ...string) error {
	_, err := cmdrun.Run(e.Logger, e.timeout, e.iwPath, append([]string{"dev", e.iface, "set"}, args...)...)
	return err
}

func (e *linuxCLIExec) ipAddrShow() ([]byte, error) {
	return cmdrun.Run(e.Logger, e.timeout, e.ipPath, "-4", "-o", "addr", "show", "dev", e.iface)
}

func (e *linuxCLIExec) ipRouteDefault() ([]byte, error) {
	return cmdrun.Run(e.Logger, e.timeout, e.ipPath, "-4", "route", "show", "default", "dev", e.iface)
}

func (e *linuxCLIExec) ipLinkSet(up bool) error {
	state := "down"
	if up {
		state = "up"
	}
	_, err := cmdrun.Run(e.Logger, e.timeout, e.ipPath, "link", "set", e.iface, state)
	return err
}

type linuxSystem struct {
	*logger.Logger

	iface string
	cli   linuxCLI
}

func newSystem(conf SystemConfig, log *logger.Logger) (*System, error) {
	if conf.Interface == "" {
		return nil, fmt.Errorf("adapter interface name is required")
	}
	if conf.IwPath == "" {
		conf.IwPath = "/usr/sbin/iw"
	}
	if conf.IPPath == "" {
		conf.IPPath = "/usr/sbin/ip"
	}

	sys := &linuxSystem{
		iface:  conf.Interface,
		cli:    newLinuxCLIExec(conf, log),
		Logger: log,
	}

	return &System{Store: sys, Link: sys}, nil
}

func (s *linuxSystem) Properties() ([]Property, error) {
	var props []Property

	if bs, err := s.cli.iwGetPowerSave(); err != nil {
		s.Warningf("reading power_save: %v", err)
	} else if v, ok := parseIwPowerSave(bs); ok {
		props = append(props, Property{
			DisplayName:  propPowerSave,
			DisplayValue: v,
			ValidValues:  []string{"Off", "On"},
		})
	}

	if bs, err := s.cli.iwInfo(); err != nil {
		s.Warningf("reading interface info: %v", err)
	} else if dbm, ok := parseIwTxPowerDBM(bs); ok {
		props = append(props, Property{
			DisplayName:  propTransmitPower,
			DisplayValue: txPowerLevel(dbm),
			ValidValues:  []string{"Lowest", "Medium", "Highest"},
		})
	}

	return props, nil
}

func (s *linuxSystem) Property(displayName string) (*Property, error) {
	props, err := s.Properties()
	if err != nil {
		return nil, err
	}

	for _, p := range props {
		if strings.EqualFold(p.DisplayName, displayName) {
			return &p, nil
		}
	}

	return nil, fmt.Errorf("property '%s' not found on interface '%s'", displayName, s.iface)
}

func (s *linuxSystem) SetProperty(displayName, displayValue string) error {
	switch {
	case strings.EqualFold(displayName, propPowerSave):
		return s.cli.iwSet("power_save", strings.ToLower(displayValue))
	case strings.EqualFold(displayName, propTransmitPower):
		args, err := txPowerArgs(displayValue)
		if err != nil {
			return err
		}
		return s.cli.iwSet(args...)
	}
	return fmt.Errorf("property '%s' is not writable on interface '%s'", displayName, s.iface)
}

func (s *linuxSystem) PowerFlags() (map[string]string, error) {
	bs, err := s.cli.iwGetPowerSave()
	if err != nil {
		return nil, err
	}

	flags := make(map[string]string)
	if v, ok := parseIwPowerSave(bs); ok {
		flags[propPowerSave] = v
	}
	return flags, nil
}

func (s *linuxSystem) SetEnabled(enabled bool) error {
	return s.cli.ipLinkSet(enabled)
}

func (s *linuxSystem) LinkState() (*LinkState, error) {
	bs, err := s.cli.iwLink()
	if err != nil {
		return nil, err
	}
	return parseIwLink(bs), nil
}

func (s *linuxSystem) IPState() (*IPState, error) {
	var state IPState

	if bs, err := s.cli.ipAddrShow(); err != nil {
		s.Debugf("reading ipv4 address: %v", err)
	} else if v, ok := parseIPAddr(bs); ok {
		state.IPv4 = &v
	}

	if bs, err := s.cli.ipRouteDefault(); err != nil {
		s.Debugf("reading default route: %v", err)
	} else if v, ok := parseIPRoute(bs); ok {
		state.GatewayV4 = &v
	}

	return &state, nil
}

func txPowerLevel(dbm float64) string {
	switch {
	case dbm >= 20:
		return "Highest"
	case dbm >= 12:
		return "Medium"
	}
	return "Lowest"
}

func txPowerArgs(displayValue string) ([]string, error) {
	switch strings.ToLower(displayValue) {
	case "highest":
		return []string{"txpower", "auto"}, nil
	case "medium":
		return []string{"txpower", "limit", "1700"}, nil
	case "lowest":
		return []string{"txpower", "limit", "1000"}, nil
	}
	return nil, fmt.Errorf("unknown transmit power level '%s'", displayValue)
}
