// SPDX-License-Identifier: GPL-3.0-or-later

package tuning

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"wifitune/internal/adapter"
	"wifitune/logger"
)

// ErrNotElevated is returned before any write when the process lacks
// the privilege required to change adapter settings.
var ErrNotElevated = errors.New("adapter changes require an elevated process")

// Change is one applied property write, recorded in application order.
type Change struct {
	Property string
	Previous string
	New      string
}

// ChangeLog is the ordered record of applied changes for one batch.
// It grows monotonically during apply and is replayed in reverse order
// only on the rollback path. It is not persisted.
type ChangeLog []Change

// Manager applies settings to a single adapter. Operations are strictly
// sequential; serializing calls against one adapter is the caller's
// responsibility.
type Manager struct {
	*logger.Logger

	store adapter.PropertyStore

	// restartPause is the settle time after disabling and after
	// re-enabling the adapter.
	restartPause time.Duration

	elevated func() bool
	sleep    func(time.Duration)
}

func NewManager(store adapter.PropertyStore, log *logger.Logger) *Manager {
	return &Manager{
		Logger:       log,
		store:        store,
		restartPause: time.Second * 5,
		elevated:     isElevated,
		sleep:        time.Sleep,
	}
}

// ApplyOne resolves desired against the property's valid values and
// writes it, appending the change to changes. Missing properties and
// unresolvable values are skipped (logged, nil error). A value already
// in effect records nothing. Only a failed write is an error.
//
// The previous value recorded for rollback prefers a caller-supplied
// original (e.g. from a pre-batch snapshot) over the just-read current
// value.
func (m *Manager) ApplyOne(displayName, desired string, changes *ChangeLog, originals map[string]string) error {
	prop, err := m.store.Property(displayName)
	if err != nil {
		m.Warningf("apply: property '%s': %v, skipping", displayName, err)
		return nil
	}

	resolved, ok := ResolveValue(desired, prop.ValidValues)
	if !ok {
		m.Warningf("apply: property '%s': no value matching '%s' among %v, skipping",
			displayName, desired, prop.ValidValues)
		return nil
	}

	if resolved == prop.DisplayValue {
		m.Infof("apply: property '%s' already '%s'", displayName, resolved)
		return nil
	}

	if err := m.store.SetProperty(displayName, resolved); err != nil {
		return fmt.Errorf("writing property '%s'='%s': %w", displayName, resolved, err)
	}

	previous := prop.DisplayValue
	if v, ok := originals[displayName]; ok {
		previous = v
	}

	*changes = append(*changes, Change{Property: displayName, Previous: previous, New: resolved})

	m.Noticef("apply: property '%s': '%s' -> '%s'", displayName, previous, resolved)

	return nil
}

// ApplyProfile applies the profile in order as one reversible batch.
// On any write failure every change applied so far is rolled back in
// reverse order and the original error is returned; the adapter is
// restarted only after a fully successful batch. The returned ChangeLog
// reflects what was applied forward, including on the failure path.
func (m *Manager) ApplyProfile(profile Profile, forceWirelessMode bool, originals map[string]string) (ChangeLog, error) {
	if !m.elevated() {
		return nil, ErrNotElevated
	}

	var changes ChangeLog

	for _, s := range profile {
		if s.WirelessMode && !forceWirelessMode {
			m.Infof("apply: skipping wireless mode change for '%s' (not forced)", s.Property)
			continue
		}

		if err := m.ApplyOne(s.Property, s.Value, &changes, originals); err != nil {
			m.Errorf("apply: %v, rolling back %d change(s)", err, len(changes))
			m.rollback(changes)
			return changes, err
		}
	}

	if len(changes) == 0 {
		m.Infof("apply: all %d profile settings already satisfied, no restart needed", len(profile))
		return changes, nil
	}

	if err := m.Restart(); err != nil {
		return changes, fmt.Errorf("restarting adapter after apply: %w", err)
	}

	return changes, nil
}

// rollback re-applies previous values in reverse application order.
// Rollback failures are logged and do not stop the walk: later entries
// still get their chance to be restored.
func (m *Manager) rollback(changes ChangeLog) {
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		if err := m.store.SetProperty(c.Property, c.Previous); err != nil {
			m.Errorf("rollback: property '%s' back to '%s': %v", c.Property, c.Previous, err)
			continue
		}
		m.Noticef("rollback: property '%s': '%s' -> '%s'", c.Property, c.New, c.Previous)
	}
}

// Restore re-applies a previously captured snapshot property map. Each
// property stands alone: there is no change tracking and no rollback,
// and the first write failure propagates immediately. The adapter is
// restarted once after all properties are applied.
func (m *Manager) Restore(properties map[string]string) error {
	if !m.elevated() {
		return ErrNotElevated
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.restoreOne(name, properties[name]); err != nil {
			return err
		}
	}

	return m.Restart()
}

func (m *Manager) restoreOne(displayName, desired string) error {
	prop, err := m.store.Property(displayName)
	if err != nil {
		m.Warningf("restore: property '%s': %v, skipping", displayName, err)
		return nil
	}

	resolved, ok := ResolveValue(desired, prop.ValidValues)
	if !ok {
		m.Warningf("restore: property '%s': no value matching '%s', skipping", displayName, desired)
		return nil
	}

	if resolved == prop.DisplayValue {
		m.Debugf("restore: property '%s' already '%s'", displayName, resolved)
		return nil
	}

	if err := m.store.SetProperty(displayName, resolved); err != nil {
		return fmt.Errorf("restoring property '%s'='%s': %w", displayName, resolved, err)
	}

	m.Noticef("restore: property '%s' -> '%s'", displayName, resolved)

	return nil
}

// Restart bounces the adapter (disable, pause, enable, pause) so the
// driver picks up property changes.
func (m *Manager) Restart() error {
	m.Infof("restarting adapter")

	if err := m.store.SetEnabled(false); err != nil {
		return fmt.Errorf("disabling adapter: %w", err)
	}
	m.sleep(m.restartPause)

	if err := m.store.SetEnabled(true); err != nil {
		return fmt.Errorf("enabling adapter: %w", err)
	}
	m.sleep(m.restartPause)

	return nil
}
