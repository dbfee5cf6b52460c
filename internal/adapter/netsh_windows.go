// SPDX-License-Identifier: GPL-3.0-or-later

//go:build windows

package adapter

import (
	"fmt"
	"strings"
	"time"

	"wifitune/logger"
	"wifitune/pkg/cmdrun"
)

type windowsCLI interface {
	advancedProperties() ([]byte, error)
	advancedProperty(displayName string) ([]byte, error)
	setAdvancedProperty(displayName, displayValue string) error
	powerManagement() ([]byte, error)
	setAdapterEnabled(enabled bool) error
	wlanInterfaces() ([]byte, error)
	ipv4Address() ([]byte, error)
	ipv4Gateway() ([]byte, error)
}

func newWindowsCLIExec(conf SystemConfig, log *logger.Logger) *windowsCLIExec {
	return &windowsCLIExec{
		iface:    conf.Interface,
		psPath:   conf.PowerShellPath,
		netshBin: conf.NetshPath,
		timeout:  conf.Timeout,
		Logger:   log,
	}
}

type windowsCLIExec struct {
	*logger.Logger

	iface    string
	psPath   string
	netshBin string
	timeout  time.Duration
}

func (e *windowsCLIExec) powershell(command string) ([]byte, error) {
	return cmdrun.Run(e.Logger, e.timeout, e.psPath, "-NoProfile", "-NonInteractive", "-Command", command)
}

func (e *windowsCLIExec) advancedProperties() ([]byte, error) {
	return e.powershell(fmt.Sprintf(
		"Get-NetAdapterAdvancedProperty -Name '%s' | Select-Object DisplayName,DisplayValue,ValidDisplayValues | ConvertTo-Json",
		psQuote(e.iface)))
}

func (e *windowsCLIExec) advancedProperty(displayName string) ([]byte, error) {
	return e.powershell(fmt.Sprintf(
		"Get-NetAdapterAdvancedProperty -Name '%s' -DisplayName '%s' | Select-Object DisplayName,DisplayValue,ValidDisplayValues | ConvertTo-Json",
		psQuote(e.iface), psQuote(displayName)))
}

func (e *windowsCLIExec) setAdvancedProperty(displayName, displayValue string) error {
	_, err := e.powershell(fmt.Sprintf(
		"Set-NetAdapterAdvancedProperty -Name '%s' -DisplayName '%s' -DisplayValue '%s' -NoRestart",
		psQuote(e.iface), psQuote(displayName), psQuote(displayValue)))
	return err
}

func (e *windowsCLIExec) powerManagement() ([]byte, error) {
	return e.powershell(fmt.Sprintf(
		"Get-NetAdapterPowerManagement -Name '%s' | Select-Object AllowComputerToTurnOffDevice,DeviceSleepOnDisconnect,SelectiveSuspend,WakeOnMagicPacket,WakeOnPattern | ConvertTo-Json",
		psQuote(e.iface)))
}

func (e *windowsCLIExec) setAdapterEnabled(enabled bool) error {
	cmdlet := "Disable-NetAdapter"
	if enabled {
		cmdlet = "Enable-NetAdapter"
	}
	_, err := e.powershell(fmt.Sprintf("%s -Name '%s' -Confirm:$false", cmdlet, psQuote(e.iface)))
	return err
}

func (e *windowsCLIExec) wlanInterfaces() ([]byte, error) {
	return cmdrun.Run(e.Logger, e.timeout, e.netshBin, "wlan", "show", "interfaces")
}

func (e *windowsCLIExec) ipv4Address() ([]byte, error) {
	return e.powershell(fmt.Sprintf(
		"(Get-NetIPConfiguration -InterfaceAlias '%s').IPv4Address.IPAddress", psQuote(e.iface)))
}

func (e *windowsCLIExec) ipv4Gateway() ([]byte, error) {
	return e.powershell(fmt.Sprintf(
		"(Get-NetIPConfiguration -InterfaceAlias '%s').IPv4DefaultGateway.NextHop", psQuote(e.iface)))
}

// psQuote escapes single quotes for interpolation into a single-quoted
// PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

type windowsSystem struct {
	*logger.Logger

	iface string
	cli   windowsCLI
}

func newSystem(conf SystemConfig, log *logger.Logger) (*System, error) {
	if conf.Interface == "" {
		return nil, fmt.Errorf("adapter interface name is required")
	}
	if conf.PowerShellPath == "" {
		conf.PowerShellPath = "powershell.exe"
	}
	if conf.NetshPath == "" {
		conf.NetshPath = "netsh.exe"
	}

	sys := &windowsSystem{
		iface:  conf.Interface,
		cli:    newWindowsCLIExec(conf, log),
		Logger: log,
	}

	return &System{Store: sys, Link: sys}, nil
}

func (s *windowsSystem) Properties() ([]Property, error) {
	bs, err := s.cli.advancedProperties()
	if err != nil {
		return nil, err
	}
	return parseAdvancedProperties(bs)
}

func (s *windowsSystem) Property(displayName string) (*Property, error) {
	bs, err := s.cli.advancedProperty(displayName)
	if err != nil {
		return nil, fmt.Errorf("property '%s' not found on adapter '%s': %v", displayName, s.iface, err)
	}

	props, err := parseAdvancedProperties(bs)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("property '%s' not found on adapter '%s'", displayName, s.iface)
	}

	return &props[0], nil
}

func (s *windowsSystem) SetProperty(displayName, displayValue string) error {
	return s.cli.setAdvancedProperty(displayName, displayValue)
}

func (s *windowsSystem) PowerFlags() (map[string]string, error) {
	bs, err := s.cli.powerManagement()
	if err != nil {
		return nil, err
	}
	return parsePowerFlags(bs)
}

func (s *windowsSystem) SetEnabled(enabled bool) error {
	return s.cli.setAdapterEnabled(enabled)
}

func (s *windowsSystem) LinkState() (*LinkState, error) {
	bs, err := s.cli.wlanInterfaces()
	if err != nil {
		return nil, err
	}
	return parseNetshWlanInterfaces(bs, s.iface), nil
}

func (s *windowsSystem) IPState() (*IPState, error) {
	var state IPState

	if bs, err := s.cli.ipv4Address(); err != nil {
		s.Debugf("reading ipv4 address: %v", err)
	} else if v, ok := firstLine(bs); ok {
		state.IPv4 = &v
	}

	if bs, err := s.cli.ipv4Gateway(); err != nil {
		s.Debugf("reading default gateway: %v", err)
	} else if v, ok := firstLine(bs); ok {
		state.GatewayV4 = &v
	}

	return &state, nil
}
